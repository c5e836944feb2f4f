package artifact

// Optional is a tri-state flag: unset means the dependency's optionality
// has not been declared or overridden.
type Optional int

const (
	OptionalUnset Optional = iota
	OptionalFalse
	OptionalTrue
)

// Exclusion names a (group, id) pair to drop from a dependency's own
// transitive closure. "*" matches any group or id.
type Exclusion struct {
	Group string
	ID    string
}

// Matches reports whether the exclusion covers the given artifact,
// supporting "*:*", "group:*", and "*:id" wildcard forms.
func (e Exclusion) Matches(a Artifact) bool {
	groupOK := e.Group == "*" || e.Group == a.Group
	idOK := e.ID == "*" || e.ID == a.ID
	return groupOK && idOK
}

// Dependency pairs an Artifact with its scope, optionality, and exclusion
// set. Dependencies are immutable; every mutator returns a new value.
type Dependency struct {
	Artifact   Artifact
	Scope      string
	Optional   Optional
	Exclusions []Exclusion
}

// IsExcluded reports whether any exclusion in d matches the candidate
// artifact.
func (d Dependency) IsExcluded(candidate Artifact) bool {
	for _, ex := range d.Exclusions {
		if ex.Matches(candidate) {
			return true
		}
	}
	return false
}

// WithArtifact returns a copy of d with Artifact replaced.
func (d Dependency) WithArtifact(a Artifact) Dependency {
	d.Artifact = a
	return d
}

// WithScope returns a copy of d with Scope replaced.
func (d Dependency) WithScope(scope string) Dependency {
	d.Scope = scope
	return d
}

// WithOptional returns a copy of d with Optional replaced.
func (d Dependency) WithOptional(opt Optional) Dependency {
	d.Optional = opt
	return d
}

// WithExclusions returns a copy of d with Exclusions replaced wholesale.
func (d Dependency) WithExclusions(exclusions []Exclusion) Dependency {
	d.Exclusions = exclusions
	return d
}

// MergeExclusions returns a copy of d whose Exclusions is the union of its
// own and extra, used when a child dependency inherits a parent's
// exclusion set during collection.
func (d Dependency) MergeExclusions(extra []Exclusion) Dependency {
	if len(extra) == 0 {
		return d
	}
	merged := make([]Exclusion, 0, len(d.Exclusions)+len(extra))
	merged = append(merged, d.Exclusions...)
	merged = append(merged, extra...)
	d.Exclusions = merged
	return d
}
