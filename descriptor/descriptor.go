// Package descriptor models an artifact's metadata document - its own
// dependencies, managed-dependency overrides, declared repositories,
// relocations, and aliases - and the DescriptorReader collaborator that
// fetches one.
package descriptor

import (
	"context"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/repository"
)

// Descriptor is the structured form of one artifact's metadata document.
type Descriptor struct {
	Artifact artifact.Artifact

	// Dependencies are the artifact's own direct dependencies.
	Dependencies []artifact.Dependency

	// ManagedDependencies is this artifact's dependency-management bill
	// of materials: entries here override version/scope/optional/
	// exclusions on matching transitive dependencies encountered below
	// this node.
	ManagedDependencies []artifact.Dependency

	// Repositories are repositories this descriptor declares in addition
	// to whatever the caller already supplied.
	Repositories []repository.Repository

	// Relocations is non-empty when this descriptor declares that its
	// artifact has moved to a different coordinate; the first entry is
	// the new coordinate to reprocess in its place.
	Relocations []artifact.Artifact

	// Aliases are alternate coordinates this artifact is also known by.
	Aliases []artifact.Artifact
}

// Empty returns a Descriptor for an artifact known to have no remote
// metadata (a local-path artifact, or the root when no descriptor read is
// attempted), matching the fabricated "empty descriptor result" the
// collector driver falls back to.
func Empty(a artifact.Artifact) *Descriptor {
	return &Descriptor{Artifact: a}
}

// Request asks for the descriptor of one artifact, searched across a
// repository list.
type Request struct {
	Artifact       artifact.Artifact
	Repositories   []repository.Repository
	RequestContext string
}

// Reader is the collection core's external DescriptorReader collaborator.
type Reader interface {
	ReadDescriptor(ctx context.Context, req Request) (*Descriptor, error)
}
