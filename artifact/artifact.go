// Package artifact defines the identity and dependency data model shared by
// the collection core: Artifact, Dependency, and dependency-management
// overrides.
package artifact

import "fmt"

// PropertyLocalPath marks an artifact as resolved from a local filesystem
// path rather than a remote repository. When set, the artifact is treated as
// lacking a resolvable descriptor.
const PropertyLocalPath = "localPath"

// Artifact identifies a build output by coordinate plus an arbitrary
// property bag. Two artifacts are coordinate-equal when their Group, ID,
// Classifier, and Extension match; Version is excluded from that comparison.
// Coordinate equality is the cycle-detection key used throughout the
// collector.
type Artifact struct {
	Group      string
	ID         string
	Classifier string
	Extension  string
	Version    string
	Properties map[string]string
}

// New returns an Artifact with the given coordinate and a default
// extension of "jar" when none is supplied, matching the convention the
// descriptor schema assumes for unqualified coordinates.
func New(group, id, version string) Artifact {
	return Artifact{Group: group, ID: id, Version: version, Extension: "jar"}
}

// CoordinateEqual reports whether a and b share the same Group, ID,
// Classifier, and Extension. Version is ignored.
func (a Artifact) CoordinateEqual(b Artifact) bool {
	return a.Group == b.Group &&
		a.ID == b.ID &&
		a.Classifier == b.Classifier &&
		a.Extension == b.Extension
}

// CoordinateKey returns a stable string encoding of the coordinate-equality
// key, suitable for use as a map key (node-stack lookups, pool interning).
func (a Artifact) CoordinateKey() string {
	return fmt.Sprintf("%s:%s:%s:%s", a.Group, a.ID, a.Classifier, a.Extension)
}

// String renders the full coordinate including version, e.g.
// "com.example:widget:jar:1.0.0" or with a classifier,
// "com.example:widget:jar:sources:1.0.0".
func (a Artifact) String() string {
	if a.Classifier != "" {
		return fmt.Sprintf("%s:%s:%s:%s:%s", a.Group, a.ID, a.Extension, a.Classifier, a.Version)
	}
	return fmt.Sprintf("%s:%s:%s:%s", a.Group, a.ID, a.Extension, a.Version)
}

// HasLocalPath reports whether the artifact carries PropertyLocalPath,
// marking it as lacking a remote descriptor.
func (a Artifact) HasLocalPath() bool {
	if a.Properties == nil {
		return false
	}
	_, ok := a.Properties[PropertyLocalPath]
	return ok
}

// WithVersion returns a copy of a with Version replaced.
func (a Artifact) WithVersion(version string) Artifact {
	a.Version = version
	return a
}

// WithProperties returns a copy of a with Properties replaced wholesale.
func (a Artifact) WithProperties(props map[string]string) Artifact {
	a.Properties = props
	return a
}
