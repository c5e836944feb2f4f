// Package rangeresolve provides the default VersionRangeResolver
// collaborator: expanding a version constraint into a concrete, ascending
// list of versions by querying a set of repositories.
package rangeresolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/observability"
	"github.com/artifactgraph/depcollect/repository"
	"github.com/artifactgraph/depcollect/version"
)

// Request asks for every version of an artifact's coordinate that
// satisfies a constraint, searched across a set of repositories.
type Request struct {
	Artifact     artifact.Artifact
	Constraint   *version.Range
	Repositories []repository.Repository
}

// Result is the ascending candidate list plus, for each version, which
// repository supplied it (when known).
type Result struct {
	Versions   []*version.Version
	Constraint *version.Range
	repoOf     map[string]repository.Repository
}

// RepositoryOf returns the repository that supplied v, if recorded.
func (r *Result) RepositoryOf(v *version.Version) (repository.Repository, bool) {
	repo, ok := r.repoOf[v.String()]
	return repo, ok
}

// Resolver is the collection core's external VersionRangeResolver
// collaborator.
type Resolver interface {
	ResolveRange(ctx context.Context, req Request) (*Result, error)
}

// sourceLister is the subset of repository.SourceRepository the resolver
// needs, narrowed for testability.
type sourceLister interface {
	Repository() repository.Repository
	ListVersions(ctx context.Context, group, id string) ([]string, error)
}

// Default resolves ranges by querying a fixed set of sources, matched to
// a request's repository list by URL.
type Default struct {
	sources []sourceLister
	logger  observability.Logger
}

// NewDefault constructs a Default resolver over the given sources.
func NewDefault(sources []*repository.SourceRepository, logger observability.Logger) *Default {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	lister := make([]sourceLister, len(sources))
	for i, s := range sources {
		lister[i] = s
	}
	return &Default{sources: lister, logger: logger}
}

// ResolveRange implements Resolver.
func (d *Default) ResolveRange(ctx context.Context, req Request) (*Result, error) {
	ctx, span := observability.StartRangeResolveSpan(ctx, req.Artifact.CoordinateKey(), rangeString(req.Constraint))
	defer span.End()

	byVersion := make(map[string]*version.Version)
	repoOf := make(map[string]repository.Repository)

	matched := 0
	for _, src := range d.sources {
		if !inRepoList(src.Repository(), req.Repositories) {
			continue
		}
		matched++

		versions, err := src.ListVersions(ctx, req.Artifact.Group, req.Artifact.ID)
		if err != nil {
			d.logger.WarnContext(ctx, "range resolve: list versions failed for {Source}: {Error}", src.Repository().URL, err)
			continue
		}

		for _, raw := range versions {
			v, err := version.Parse(raw)
			if err != nil {
				continue
			}
			if req.Constraint != nil && !req.Constraint.Satisfies(v) {
				continue
			}
			key := v.String()
			if _, seen := byVersion[key]; seen {
				continue
			}
			byVersion[key] = v
			repoOf[key] = src.Repository()
		}
	}

	if matched == 0 {
		return nil, fmt.Errorf("range resolve %s: no repository in request matched a configured source", req.Artifact.CoordinateKey())
	}

	ascending := make([]*version.Version, 0, len(byVersion))
	for _, v := range byVersion {
		ascending = append(ascending, v)
	}
	sort.Slice(ascending, func(i, j int) bool { return ascending[i].LessThan(ascending[j]) })

	return &Result{Versions: ascending, Constraint: req.Constraint, repoOf: repoOf}, nil
}

func inRepoList(r repository.Repository, repos []repository.Repository) bool {
	for _, candidate := range repos {
		if candidate.URL == r.URL {
			return true
		}
	}
	return false
}

func rangeString(r *version.Range) string {
	if r == nil {
		return ""
	}
	return r.String()
}
