package policy

import "github.com/artifactgraph/depcollect/artifact"

// Traverser decides whether a dependency's own dependencies should be
// visited at all - distinct from Selector, which decides whether the
// dependency itself is kept in the graph. A non-traversed dependency
// still appears as a leaf node; its descriptor is simply never read.
type Traverser interface {
	// TraverseDependency reports whether dep's children should be
	// collected.
	TraverseDependency(dep artifact.Dependency) bool

	// DeriveChildTraverser returns the Traverser to use beneath
	// ctx.Artifact.
	DeriveChildTraverser(ctx Context) Traverser
}

// AlwaysTraverse traverses every dependency unconditionally. It is the
// default traverser; scope-based traversal cutoffs are expressed via
// ScopeTraverser, and optional dependencies are traversed like any
// other.
type AlwaysTraverse struct{}

// TraverseDependency implements Traverser.
func (AlwaysTraverse) TraverseDependency(artifact.Dependency) bool { return true }

// DeriveChildTraverser implements Traverser.
func (t AlwaysTraverse) DeriveChildTraverser(Context) Traverser { return t }

// ScopeTraverser stops descending once a dependency's scope is in the
// cutoff set, e.g. to avoid pulling in the transitive graph of a
// "provided" or "test"-scoped dependency. The cutoff set travels
// unchanged to every descendant.
type ScopeTraverser struct {
	cutoffScopes map[string]bool
}

// NewScopeTraverser returns a ScopeTraverser that refuses to traverse
// dependencies whose scope is in cutoffScopes.
func NewScopeTraverser(cutoffScopes ...string) *ScopeTraverser {
	set := make(map[string]bool, len(cutoffScopes))
	for _, s := range cutoffScopes {
		set[s] = true
	}
	return &ScopeTraverser{cutoffScopes: set}
}

// TraverseDependency implements Traverser.
func (t *ScopeTraverser) TraverseDependency(dep artifact.Dependency) bool {
	return !t.cutoffScopes[dep.Scope]
}

// DeriveChildTraverser implements Traverser.
func (t *ScopeTraverser) DeriveChildTraverser(Context) Traverser { return t }
