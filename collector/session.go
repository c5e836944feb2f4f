package collector

import (
	"github.com/artifactgraph/depcollect/descriptor"
	"github.com/artifactgraph/depcollect/observability"
	"github.com/artifactgraph/depcollect/policy"
	"github.com/artifactgraph/depcollect/rangeresolve"
	"github.com/artifactgraph/depcollect/repository"
)

// DefaultMaxExceptions and DefaultMaxCycles are the collection core's
// default bounds: a negative value means unbounded.
const (
	DefaultMaxExceptions = 50
	DefaultMaxCycles     = 10
)

// Session carries everything one Collect call needs that doesn't vary
// per dependency: the four root-scope policy objects, the collaborators,
// and the bounded configuration knobs.
type Session struct {
	Selector  policy.Selector
	Manager   policy.Manager
	Traverser policy.Traverser
	Filter    policy.VersionFilter

	Transformer GraphTransformer

	DescriptorReader  descriptor.Reader
	RangeResolver     rangeresolve.Resolver
	RepositoryManager repository.Manager

	// IgnoreArtifactDescriptorRepositories, when true, skips aggregating
	// a descriptor's declared repositories into the repo list used for
	// its children.
	IgnoreArtifactDescriptorRepositories bool

	// VerbosePremanaged gates attachment of pre-management node data.
	VerbosePremanaged bool

	// MaxExceptions bounds the result's exception list; negative means
	// unbounded. Zero-value sessions should call NewSession to pick up
	// DefaultMaxExceptions/DefaultMaxCycles.
	MaxExceptions int
	MaxCycles     int

	// Debug enables the transformer's stats map.
	Debug bool

	Logger observability.Logger
}

// NewSession returns a Session with the default policy chain (no
// selector rejection, no managed dependencies, always-traverse,
// accept-all filter), default bounds, and a null logger. Callers
// override whichever fields their collaborators require.
func NewSession(reader descriptor.Reader, resolver rangeresolve.Resolver, repoMgr repository.Manager, transformer GraphTransformer) *Session {
	return &Session{
		Selector:          policy.NewExclusionSelector(),
		Manager:           policy.NewMapManager(),
		Traverser:         policy.AlwaysTraverse{},
		Filter:            policy.AcceptAllFilter{},
		Transformer:       transformer,
		DescriptorReader:  reader,
		RangeResolver:     resolver,
		RepositoryManager: repoMgr,
		MaxExceptions:     DefaultMaxExceptions,
		MaxCycles:         DefaultMaxCycles,
		Logger:            observability.NewNullLogger(),
	}
}
