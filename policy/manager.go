package policy

import "github.com/artifactgraph/depcollect/artifact"

// Manager supplies dependency-management overrides for a candidate
// dependency and derives the child-scoped manager beneath a node,
// folding in any managed-dependency entries that node declares.
type Manager interface {
	// ManageDependency returns the management overrides applicable to
	// dep, or nil if this manager has no opinion about it.
	ManageDependency(dep artifact.Dependency) *artifact.Management

	// DeriveChildManager returns the Manager to use for the children of
	// ctx.Artifact.
	DeriveChildManager(ctx Context) Manager
}

// MapManager is a bill-of-materials manager keyed by coordinate, the
// same shape a descriptor's own managedDependencies section or an
// imported BOM populates. Nearer declarations shadow farther ones:
// DeriveChildManager only adds entries the parent manager didn't
// already carry, so management declared closer to the root always
// wins.
type MapManager struct {
	entries map[string]artifact.Dependency
}

// NewMapManager returns an empty MapManager, suitable as the root
// manager when no managed dependencies are declared at the root.
func NewMapManager() *MapManager {
	return &MapManager{entries: map[string]artifact.Dependency{}}
}

// ManageDependency implements Manager.
func (m *MapManager) ManageDependency(dep artifact.Dependency) *artifact.Management {
	managed, ok := m.entries[dep.Artifact.CoordinateKey()]
	if !ok {
		return nil
	}

	mgmt := &artifact.Management{}
	if managed.Artifact.Version != "" && managed.Artifact.Version != dep.Artifact.Version {
		v := managed.Artifact.Version
		mgmt.Version = &v
	}
	if managed.Scope != "" && managed.Scope != dep.Scope {
		sc := managed.Scope
		mgmt.Scope = &sc
	}
	if managed.Optional != artifact.OptionalUnset && managed.Optional != dep.Optional {
		opt := managed.Optional
		mgmt.Optional = &opt
	}
	if len(managed.Exclusions) > 0 {
		mgmt.Exclusions = managed.Exclusions
	}
	if mgmt.IsEmpty() {
		return nil
	}
	return mgmt
}

// DeriveChildManager implements Manager. Entries already present in m
// are kept as-is; only coordinates absent from m are added from
// ctx.ManagedDependencies, so management nearer the root always
// dominates farther declarations of the same coordinate.
func (m *MapManager) DeriveChildManager(ctx Context) Manager {
	if len(ctx.ManagedDependencies) == 0 {
		return m
	}
	child := make(map[string]artifact.Dependency, len(m.entries)+len(ctx.ManagedDependencies))
	for k, v := range m.entries {
		child[k] = v
	}
	added := false
	for _, dep := range ctx.ManagedDependencies {
		key := dep.Artifact.CoordinateKey()
		if _, exists := child[key]; exists {
			continue
		}
		child[key] = dep
		added = true
	}
	if !added {
		return m
	}
	return &MapManager{entries: child}
}
