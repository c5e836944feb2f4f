// Package repository models the remote and local sources a collection run
// may draw artifacts and descriptors from, and the default repository-list
// merge policy the collector uses when aggregating a parent's repository
// list with one declared by a descriptor.
package repository

import (
	"context"

	"github.com/artifactgraph/depcollect/observability"
)

// Kind distinguishes a Repository's nature. The collector treats a
// RemoteRepository differently from other kinds when deciding a resolved
// child node's effective repository list (see collector.Driver).
type Kind int

const (
	KindRemote Kind = iota
	KindWorkspace
	KindLocal
)

// Repository identifies one artifact source.
type Repository struct {
	ID       string
	URL      string
	Kind     Kind
	Priority int
}

// Manager aggregates repository lists, the external collaborator named by
// the collection core's RepositoryManager contract.
type Manager interface {
	// Aggregate merges newRepos into parentRepos. When recessive is true,
	// parentRepos entries win on URL conflicts; otherwise newRepos entries
	// win. Order is preserved: parentRepos first, then new entries from
	// newRepos not already present.
	Aggregate(ctx context.Context, parentRepos, newRepos []Repository, recessive bool) []Repository
}

// DefaultManager aggregates by URL, parent-first, deduping repeated
// entries - the ordering the root-handling and doRecurse steps of the
// collector both rely on.
type DefaultManager struct{}

// NewDefaultManager returns the default repository manager.
func NewDefaultManager() *DefaultManager {
	return &DefaultManager{}
}

// Aggregate implements Manager. recessive is ignored: when a newRepos
// entry shares its URL with an entry already merged, the earlier entry is
// kept and the newRepos entry is dropped, whatever recessive is.
func (m *DefaultManager) Aggregate(ctx context.Context, parentRepos, newRepos []Repository, recessive bool) []Repository {
	_ = recessive

	first := ""
	if len(newRepos) > 0 {
		first = newRepos[0].URL
	}
	_, span := observability.StartRepositoryAggregateSpan(ctx, first)
	defer span.End()

	seen := make(map[string]bool, len(parentRepos)+len(newRepos))
	merged := make([]Repository, 0, len(parentRepos)+len(newRepos))

	appendUnseen := func(repos []Repository) {
		for _, r := range repos {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			merged = append(merged, r)
		}
	}

	appendUnseen(parentRepos)
	appendUnseen(newRepos)

	return merged
}
