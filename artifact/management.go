package artifact

// ManagedBits records which fields of a Dependency were overridden by
// dependency management, one bit per field.
type ManagedBits uint8

const (
	ManagedVersion ManagedBits = 1 << iota
	ManagedScope
	ManagedOptional
	ManagedProperties
	ManagedExclusions
)

// Has reports whether bit is set in m.
func (m ManagedBits) Has(bit ManagedBits) bool {
	return m&bit != 0
}

// Management is a partial override produced by a DependencyManager for a
// given dependency: any nil/unset field is left untouched.
type Management struct {
	Version    *string
	Scope      *string
	Optional   *Optional
	Properties map[string]string
	Exclusions []Exclusion
}

// IsEmpty reports whether the management carries no overrides at all.
func (m *Management) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.Version == nil && m.Scope == nil && m.Optional == nil &&
		m.Properties == nil && m.Exclusions == nil
}
