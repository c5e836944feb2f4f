// Package collector implements the dependency collection core: a
// recursive, descriptor-driven walk that expands a root artifact (or a
// seed dependency list) into a directed graph of resolved dependency
// nodes, applying version-range resolution, dependency-management
// propagation, pluggable selection/traversal/filter policies, relocation
// chains, cycle detection with graph re-linking, and memoization of
// repeated subproblems.
package collector

import (
	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/repository"
	"github.com/artifactgraph/depcollect/version"
)

// PremanagedData records a dependency's pre-management values, attached
// to a node only when a session runs with VerbosePremanaged set.
type PremanagedData struct {
	OriginalVersion  string
	OriginalScope    string
	OriginalOptional artifact.Optional
}

// ChildList is a children slice shared by reference between two or more
// nodes. A cycle's closing node and the ancestor it cycles back to point
// at the same ChildList, so once the ancestor's subtree finishes
// expanding, the cycle node observes the same children without ever
// being recursed into itself.
type ChildList struct {
	Nodes []*DependencyNode
}

func (c *ChildList) append(n *DependencyNode) {
	c.Nodes = append(c.Nodes, n)
}

// DependencyNode is one node of the resulting dependency graph.
type DependencyNode struct {
	// Dependency is nil for the synthetic root-artifact placeholder
	// (when the request carries only a RootArtifact, no Root
	// dependency).
	Dependency *artifact.Dependency

	// Artifact is the resolved, version-concrete coordinate this node
	// represents.
	Artifact artifact.Artifact

	// VersionConstraint is the range this node's version was chosen
	// from, nil for the root-artifact placeholder form.
	VersionConstraint *version.Range

	// Version is the concrete version chosen for this node.
	Version *version.Version

	// Repositories is this node's effective repository list.
	Repositories []repository.Repository

	// RequestContext is an opaque string carried from the originating
	// request, unused by the core itself.
	RequestContext string

	// Aliases are alternate coordinates this artifact is also known by,
	// taken from its descriptor.
	Aliases []artifact.Artifact

	// Relocations is the chain of coordinates this dependency was
	// relocated through before landing on Artifact; empty when no
	// relocation occurred.
	Relocations []artifact.Artifact

	// ManagedBits records which fields of Dependency were overridden by
	// dependency management.
	ManagedBits artifact.ManagedBits

	// Premanaged holds the pre-management original values, set only
	// when the owning session runs with VerbosePremanaged.
	Premanaged *PremanagedData

	children *ChildList
}

// NewDependencyNode constructs a node with its own private, empty
// children list.
func NewDependencyNode(a artifact.Artifact, dep *artifact.Dependency) *DependencyNode {
	return &DependencyNode{Artifact: a, Dependency: dep, children: &ChildList{}}
}

// Children returns the node's current children, reflecting any mutation
// made through a shared ChildList since this node was constructed.
func (n *DependencyNode) Children() []*DependencyNode {
	if n.children == nil {
		return nil
	}
	return n.children.Nodes
}

// SetChildren replaces n's children list wholesale, used by transformers
// that rebuild the graph.
func (n *DependencyNode) SetChildren(children []*DependencyNode) {
	n.children = &ChildList{Nodes: children}
}

// ShareChildrenWith makes n point at other's children list by reference,
// the structural-sharing step cycle detection and subtree memoization
// both rely on.
func (n *DependencyNode) ShareChildrenWith(other *DependencyNode) {
	n.children = other.children
}

func (n *DependencyNode) appendChild(child *DependencyNode) {
	if n.children == nil {
		n.children = &ChildList{}
	}
	n.children.append(child)
}
