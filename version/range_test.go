package version

import "testing"

func TestParseVersionRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"inclusive both", "[1.0, 2.0]", false},
		{"exclusive both", "(1.0, 2.0)", false},
		{"mixed", "[1.0, 2.0)", false},
		{"open upper", "[1.0, )", false},
		{"open lower", "(, 2.0]", false},
		{"simple version", "1.0.0", false},
		{"empty", "", true},
		{"missing bracket", "[1.0, 2.0", true},
		{"wrong brackets", "]1.0, 2.0[", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVersionRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseVersionRange() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVersionRange_FindBestMatch_FavorHighest(t *testing.T) {
	// The collector always selects the highest version surviving a range,
	// mirroring the collection engine's root/child version selection.
	versions := []*Version{
		MustParse("2.10.0"),
		MustParse("3.0.0"),
		MustParse("4.0.0-beta"),
	}

	r, err := ParseVersionRange("[2.10.0, )")
	if err != nil {
		t.Fatalf("ParseVersionRange() error = %v", err)
	}

	best := r.FindBestMatch(versions)

	if best == nil {
		t.Fatal("FindBestMatch() = nil, want 4.0.0-beta")
	}

	if best.String() != "4.0.0-beta" {
		t.Errorf("FindBestMatch() = %v, want 4.0.0-beta (favors highest version)", best)
	}
}

func TestVersionRange_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		rangeStr string
		version  string
		expected bool
	}{
		// Inclusive ranges
		{"inclusive min", "[1.0, 2.0]", "1.0.0", true},
		{"inclusive max", "[1.0, 2.0]", "2.0.0", true},
		{"inclusive middle", "[1.0, 2.0]", "1.5.0", true},
		{"inclusive below", "[1.0, 2.0]", "0.9.0", false},
		{"inclusive above", "[1.0, 2.0]", "2.1.0", false},

		// Exclusive ranges
		{"exclusive min", "(1.0, 2.0)", "1.0.0", false},
		{"exclusive max", "(1.0, 2.0)", "2.0.0", false},
		{"exclusive middle", "(1.0, 2.0)", "1.5.0", true},

		// Mixed
		{"mixed min inclusive", "[1.0, 2.0)", "1.0.0", true},
		{"mixed max exclusive", "[1.0, 2.0)", "2.0.0", false},

		// Open-ended
		{"open upper", "[1.0, )", "100.0.0", true},
		{"open lower", "(, 2.0]", "0.1.0", true},

		// Simple version (>= semantics)
		{"simple satisfies", "1.0.0", "1.5.0", true},
		{"simple not satisfies", "1.0.0", "0.9.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseVersionRange(tt.rangeStr)
			if err != nil {
				t.Fatalf("ParseVersionRange() error = %v", err)
			}

			v := MustParse(tt.version)
			got := r.Satisfies(v)

			if got != tt.expected {
				t.Errorf("Satisfies(%s) = %v, want %v", tt.version, got, tt.expected)
			}
		})
	}
}

func TestVersionRange_FindBestMatch(t *testing.T) {
	versions := []*Version{
		MustParse("1.0.0"),
		MustParse("1.5.0"),
		MustParse("2.0.0"),
		MustParse("2.5.0"),
		MustParse("3.0.0"),
	}

	tests := []struct {
		name     string
		rangeStr string
		expected string
	}{
		{"range 1.0-2.0", "[1.0, 2.0]", "2.0.0"},
		{"range 1.0-2.0 exclusive", "[1.0, 2.0)", "1.5.0"},
		{"open upper from 2.0", "[2.0, )", "3.0.0"},
		{"open lower to 2.0", "(, 2.0]", "2.0.0"},
		{"no match", "[10.0, 20.0]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseVersionRange(tt.rangeStr)
			if err != nil {
				t.Fatalf("ParseVersionRange() error = %v", err)
			}

			got := r.FindBestMatch(versions)

			if tt.expected == "" {
				if got != nil {
					t.Errorf("FindBestMatch() = %v, want nil", got)
				}
			} else {
				if got == nil {
					t.Errorf("FindBestMatch() = nil, want %s", tt.expected)
				} else if got.String() != tt.expected {
					t.Errorf("FindBestMatch() = %v, want %s", got, tt.expected)
				}
			}
		})
	}
}

func TestParseVersionRange_Floating(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		satisfied []string
		rejected  []string
	}{
		{"patch float", "1.2.*", []string{"1.2.0", "1.2.9"}, []string{"1.3.0", "2.0.0"}},
		{"minor float", "1.*", []string{"1.0.0", "1.9.3"}, []string{"2.0.0"}},
		{"major float", "*", []string{"0.1.0", "9.9.9"}, nil},
		{"prerelease float", "1.2.3-*", []string{"1.2.3-beta.1"}, []string{"1.2.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseVersionRange(tt.input)
			if err != nil {
				t.Fatalf("ParseVersionRange(%q) error = %v", tt.input, err)
			}
			if r.Float == nil {
				t.Fatalf("ParseVersionRange(%q).Float = nil, want a floating range", tt.input)
			}
			if r.IsPinned() {
				t.Errorf("ParseVersionRange(%q).IsPinned() = true, want false", tt.input)
			}
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			for _, raw := range tt.satisfied {
				if !r.Satisfies(MustParse(raw)) {
					t.Errorf("Satisfies(%s) = false, want true", raw)
				}
			}
			for _, raw := range tt.rejected {
				if r.Satisfies(MustParse(raw)) {
					t.Errorf("Satisfies(%s) = true, want false", raw)
				}
			}
		})
	}
}
