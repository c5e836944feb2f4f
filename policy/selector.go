package policy

import "github.com/artifactgraph/depcollect/artifact"

// Selector decides whether a dependency should be included in the
// collection at all, and derives the child-scoped selector to use
// beneath it. Rejections here are permanent for that subtree - a
// rejected dependency is never visited, let alone recursed into.
type Selector interface {
	// SelectDependency reports whether dep should be kept.
	SelectDependency(dep artifact.Dependency) bool

	// DeriveChildSelector returns the Selector to use for the children
	// of ctx.Artifact, typically folding in its own declared exclusions.
	DeriveChildSelector(ctx Context) Selector
}

// ExclusionSelector rejects any dependency matched by an accumulated
// exclusion set, folding each node's own exclusions into its
// children's selector as it descends - mirroring a Maven-style
// ExclusionDependencySelector.
type ExclusionSelector struct {
	exclusions []artifact.Exclusion
}

// NewExclusionSelector returns an ExclusionSelector with no exclusions
// yet accumulated, suitable as the root selector.
func NewExclusionSelector() *ExclusionSelector {
	return &ExclusionSelector{}
}

// SelectDependency implements Selector.
func (s *ExclusionSelector) SelectDependency(dep artifact.Dependency) bool {
	accumulated := artifact.Dependency{Exclusions: s.exclusions}
	return !accumulated.IsExcluded(dep.Artifact)
}

// DeriveChildSelector implements Selector.
func (s *ExclusionSelector) DeriveChildSelector(ctx Context) Selector {
	if ctx.Dependency == nil || len(ctx.Dependency.Exclusions) == 0 {
		return s
	}
	merged := make([]artifact.Exclusion, 0, len(s.exclusions)+len(ctx.Dependency.Exclusions))
	merged = append(merged, s.exclusions...)
	merged = append(merged, ctx.Dependency.Exclusions...)
	return &ExclusionSelector{exclusions: merged}
}
