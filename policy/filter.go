package policy

import "github.com/artifactgraph/depcollect/version"

// VersionFilter narrows the candidate set a range resolver returns
// down to the versions worth expanding into child collection attempts.
// It exists separately from range resolution because the filter may
// depend on collection-wide context (already-selected versions,
// previously rejected versions) that a pure range resolver cannot see.
type VersionFilter interface {
	// FilterVersions returns the subset of candidates this filter
	// accepts, preserving relative order.
	FilterVersions(candidates []*version.Version) []*version.Version

	// DeriveChildFilter returns the VersionFilter to use beneath
	// ctx.Artifact.
	DeriveChildFilter(ctx Context) VersionFilter
}

// AcceptAllFilter accepts every candidate unchanged. It is the default
// filter: with no collection-wide rejection state, every range-resolved
// candidate is worth attempting.
type AcceptAllFilter struct{}

// FilterVersions implements VersionFilter.
func (AcceptAllFilter) FilterVersions(candidates []*version.Version) []*version.Version {
	return candidates
}

// DeriveChildFilter implements VersionFilter.
func (f AcceptAllFilter) DeriveChildFilter(Context) VersionFilter { return f }

// HighestOnlyFilter narrows a candidate set down to just its highest
// version, used when a collection run wants range dependencies to
// behave like a pinned "latest" pick rather than fanning out into one
// attempt per matching version.
type HighestOnlyFilter struct{}

// FilterVersions implements VersionFilter.
func (HighestOnlyFilter) FilterVersions(candidates []*version.Version) []*version.Version {
	if len(candidates) <= 1 {
		return candidates
	}
	best := candidates[0]
	for _, v := range candidates[1:] {
		if v.GreaterThan(best) {
			best = v
		}
	}
	return []*version.Version{best}
}

// DeriveChildFilter implements VersionFilter.
func (f HighestOnlyFilter) DeriveChildFilter(Context) VersionFilter { return f }
