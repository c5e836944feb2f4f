package collector

import (
	"context"
	"fmt"

	"github.com/artifactgraph/depcollect/descriptor"
	"github.com/artifactgraph/depcollect/policy"
	"github.com/artifactgraph/depcollect/rangeresolve"
	"github.com/artifactgraph/depcollect/version"
)

// fakeReader answers ReadDescriptor from a fixed table keyed by
// "group:id", ignoring version - adequate for tests that only ever
// resolve one version per coordinate.
type fakeReader struct {
	descriptors map[string]*descriptor.Descriptor
}

func newFakeReader() *fakeReader {
	return &fakeReader{descriptors: map[string]*descriptor.Descriptor{}}
}

func (f *fakeReader) with(groupID string, d *descriptor.Descriptor) *fakeReader {
	f.descriptors[groupID] = d
	return f
}

func (f *fakeReader) ReadDescriptor(ctx context.Context, req descriptor.Request) (*descriptor.Descriptor, error) {
	key := req.Artifact.Group + ":" + req.Artifact.ID
	d, ok := f.descriptors[key]
	if !ok {
		return nil, fmt.Errorf("fakeReader: no descriptor for %s", key)
	}
	return d, nil
}

// fakeResolver answers ResolveRange from a fixed table of raw version
// strings keyed by "group:id", filtering by the request's constraint.
type fakeResolver struct {
	versions map[string][]string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{versions: map[string][]string{}}
}

func (f *fakeResolver) with(groupID string, versions ...string) *fakeResolver {
	f.versions[groupID] = versions
	return f
}

func (f *fakeResolver) ResolveRange(ctx context.Context, req rangeresolve.Request) (*rangeresolve.Result, error) {
	key := req.Artifact.Group + ":" + req.Artifact.ID
	raws, ok := f.versions[key]
	if !ok {
		return nil, fmt.Errorf("fakeResolver: no versions known for %s", key)
	}

	var vs []*version.Version
	for _, raw := range raws {
		v := version.MustParse(raw)
		if req.Constraint != nil && !req.Constraint.Satisfies(v) {
			continue
		}
		vs = append(vs, v)
	}
	return &rangeresolve.Result{Versions: vs, Constraint: req.Constraint}, nil
}

// dropVersionFilter rejects every candidate whose String() is in drop.
type dropVersionFilter struct {
	drop map[string]bool
}

func newDropVersionFilter(versions ...string) *dropVersionFilter {
	drop := make(map[string]bool, len(versions))
	for _, v := range versions {
		drop[v] = true
	}
	return &dropVersionFilter{drop: drop}
}

func (f *dropVersionFilter) FilterVersions(candidates []*version.Version) []*version.Version {
	out := make([]*version.Version, 0, len(candidates))
	for _, v := range candidates {
		if !f.drop[v.String()] {
			out = append(out, v)
		}
	}
	return out
}

func (f *dropVersionFilter) DeriveChildFilter(ctx policy.Context) policy.VersionFilter { return f }

// rejectThenHighestFilter models a version filter that excludes a denylist
// and then narrows the survivors to the single highest version, the
// shape a "prefer latest within range" policy takes.
type rejectThenHighestFilter struct {
	drop map[string]bool
}

func newRejectThenHighestFilter(versions ...string) *rejectThenHighestFilter {
	drop := make(map[string]bool, len(versions))
	for _, v := range versions {
		drop[v] = true
	}
	return &rejectThenHighestFilter{drop: drop}
}

func (f *rejectThenHighestFilter) FilterVersions(candidates []*version.Version) []*version.Version {
	kept := make([]*version.Version, 0, len(candidates))
	for _, v := range candidates {
		if !f.drop[v.String()] {
			kept = append(kept, v)
		}
	}
	return policy.HighestOnlyFilter{}.FilterVersions(kept)
}

func (f *rejectThenHighestFilter) DeriveChildFilter(ctx policy.Context) policy.VersionFilter { return f }
