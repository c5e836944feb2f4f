// Package policy defines the four cooperative policy chains the
// collection core derives at each recursion step - DependencySelector,
// DependencyManager, DependencyTraverser, and VersionFilter - plus the
// default implementations shipped with this repository.
//
// Each chain forms a tree-shaped derivation: deriving a child policy
// never mutates the parent; it returns the value scoped to the child's
// subtree, which is the parent value itself when nothing changes there.
package policy

import (
	"github.com/artifactgraph/depcollect/artifact"
)

// Context is the immutable snapshot passed to a *derive* call at each
// recursion step, carrying just enough of the step that produced it for
// a policy to decide how its child-scope value should differ.
type Context struct {
	// Artifact is the node being descended into.
	Artifact artifact.Artifact

	// Dependency is the dependency that produced Artifact, or nil for
	// the synthetic root-artifact node.
	Dependency *artifact.Dependency

	// ManagedDependencies is the set of managed-dependency entries newly
	// declared at this step (e.g. from a descriptor), to be folded into
	// the child manager's bill of materials.
	ManagedDependencies []artifact.Dependency

	// Depth is the recursion depth, root = 0.
	Depth int
}
