package cli

import (
	"testing"

	"github.com/artifactgraph/depcollect/cmd/depcollect/output"
)

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		raw     string
		want    output.Verbosity
		wantErr bool
	}{
		{raw: "quiet", want: output.VerbosityQuiet},
		{raw: "normal", want: output.VerbosityNormal},
		{raw: "detailed", want: output.VerbosityDetailed},
		{raw: "diagnostic", want: output.VerbosityDiagnostic},
		{raw: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseVerbosity(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVerbosity() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseVerbosity(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFullVersion(t *testing.T) {
	Version, Commit, Date, BuiltBy = "1.2.3", "abc123", "2026-01-01", "ci"
	defer func() { Version, Commit, Date, BuiltBy = "0.0.0-dev", "unknown", "unknown", "unknown" }()

	got := FullVersion()
	if got == "" {
		t.Fatal("FullVersion() returned empty string")
	}
}
