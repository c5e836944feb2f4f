package collector

import (
	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/repository"
)

// Request is the input to one Collect call.
type Request struct {
	// Root is the dependency to resolve a version for and descend from.
	// When nil, RootArtifact is wrapped directly with no descriptor
	// work and no recursion.
	Root *artifact.Dependency

	// RootArtifact supplies the root's coordinate when Root is absent.
	RootArtifact *artifact.Artifact

	// Dependencies and ManagedDependencies seed the root's own lists,
	// merged with whatever its descriptor declares.
	Dependencies        []artifact.Dependency
	ManagedDependencies []artifact.Dependency

	Repositories   []repository.Repository
	RequestContext string

	// TraceToken is an opaque correlation token for external tracing;
	// unused by the core itself.
	TraceToken string
}
