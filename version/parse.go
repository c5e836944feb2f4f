package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a version string into a Version.
//
// Accepted forms: "Major.Minor", "Major.Minor.Patch" (SemVer 2.0-style,
// optionally with "-prerelease" and "+metadata" suffixes), and the legacy
// 4-part "Major.Minor.Patch.Revision" form. A bare single number is not a
// valid version.
func Parse(s string) (*Version, error) {
	original := s
	if s == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	var metadata string
	if idx := strings.IndexByte(s, '+'); idx >= 0 {
		metadata = s[idx+1:]
		s = s[:idx]
	}

	var prerelease string
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		prerelease = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return nil, fmt.Errorf("invalid version format: %s", original)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := parseNonNegativeInt(p)
		if err != nil {
			return nil, fmt.Errorf("invalid version component %q in %s: %w", p, original, err)
		}
		nums[i] = n
	}

	v := &Version{
		Major:          nums[0],
		Minor:          nums[1],
		originalString: original,
	}
	if len(parts) >= 3 {
		v.Patch = nums[2]
	}
	if len(parts) == 4 {
		v.Revision = nums[3]
		v.IsLegacyVersion = true
	}
	if prerelease != "" {
		v.ReleaseLabels = strings.Split(prerelease, ".")
	}
	v.Metadata = metadata

	return v, nil
}

// MustParse parses a version string, panicking on error. Use only when the
// input is known to be valid.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseNonNegativeInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative component: %d", n)
	}
	return n, nil
}

// ToNormalizedString returns the canonical string form of v, recomputed
// from its fields rather than the original input text (unlike String,
// which preserves the original when available).
func (v *Version) ToNormalizedString() string {
	return v.format()
}
