package version

import "strconv"

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other. Metadata is always ignored. Revision is only compared when
// both versions are legacy 4-part versions; otherwise it is ignored, so a
// legacy version compares equal to its SemVer-style counterpart.
func (v *Version) Compare(other *Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	if v.IsLegacyVersion && other.IsLegacyVersion {
		if c := compareInt(v.Revision, other.Revision); c != 0 {
			return c
		}
	}
	return comparePrerelease(v.ReleaseLabels, other.ReleaseLabels)
}

// Equals reports whether v and other compare equal.
func (v *Version) Equals(other *Version) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts before other.
func (v *Version) LessThan(other *Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts after other.
func (v *Version) GreaterThan(other *Version) bool {
	return v.Compare(other) > 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease implements SemVer 2.0 precedence: a version with no
// prerelease labels is greater than one with labels, and among two
// labeled versions, identifiers are compared pairwise (numeric < textual,
// else numeric-value or lexicographic), with the shorter list losing ties
// on a common prefix.
func comparePrerelease(a, b []string) int {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	if len(a) == 0 {
		return 1
	}
	if len(b) == 0 {
		return -1
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if c := compareIdentifier(a[i], b[i]); c != 0 {
			return c
		}
	}

	return compareInt(len(a), len(b))
}

func compareIdentifier(a, b string) int {
	an, aIsNum := toUint(a)
	bn, bIsNum := toUint(b)

	switch {
	case aIsNum && bIsNum:
		return compareInt(an, bn)
	case aIsNum && !bIsNum:
		return -1
	case !aIsNum && bIsNum:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toUint(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
