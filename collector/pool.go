package collector

import (
	"fmt"
	"strings"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/descriptor"
	"github.com/artifactgraph/depcollect/observability"
	"github.com/artifactgraph/depcollect/policy"
	"github.com/artifactgraph/depcollect/rangeresolve"
	"github.com/artifactgraph/depcollect/repository"
)

// DataPool memoizes the three repeated subproblems a collection run
// produces: version-range resolutions, descriptor fetches, and
// previously-expanded children lists. It also interns Artifacts and
// Dependencies so that the many repeated occurrences of the same
// coordinate across a tree (a popular transitive dependency pulled in by
// several parents) share one backing value instead of each recursion
// step allocating its own copy. It is not safe for concurrent use and is
// scoped to exactly one collect call - see the collector driver's
// Collect, which constructs a fresh pool per invocation.
type DataPool struct {
	ranges       map[string]*rangeresolve.Result
	descriptors  map[string]*descriptorEntry
	children     map[string]*ChildList
	artifacts    map[string]*artifact.Artifact
	dependencies map[string]*artifact.Dependency
	rootLabel    string
	logger       observability.Logger
}

type descriptorEntry struct {
	desc           *descriptor.Descriptor
	isNoDescriptor bool
	err            error
}

// NewDataPool constructs an empty pool. rootLabel labels the
// DataPoolHitsTotal/DataPoolMissesTotal metrics this pool emits.
func NewDataPool(rootLabel string, logger observability.Logger) *DataPool {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &DataPool{
		ranges:       map[string]*rangeresolve.Result{},
		descriptors:  map[string]*descriptorEntry{},
		children:     map[string]*ChildList{},
		artifacts:    map[string]*artifact.Artifact{},
		dependencies: map[string]*artifact.Dependency{},
		rootLabel:    rootLabel,
		logger:       logger,
	}
}

func (p *DataPool) recordHit(section string) {
	observability.DataPoolHitsTotal.WithLabelValues(section).Inc()
}

func (p *DataPool) recordMiss(section string) {
	observability.DataPoolMissesTotal.WithLabelValues(section).Inc()
}

// RangeKey computes the composite key for a version-range request.
func RangeKey(a artifact.Artifact, repos []repository.Repository) string {
	return a.CoordinateKey() + "|" + reposKey(repos)
}

// ResolveRange returns a cached range resolution for key, if present.
func (p *DataPool) ResolveRange(key string) (*rangeresolve.Result, bool) {
	r, ok := p.ranges[key]
	if ok {
		p.recordHit("ranges")
	} else {
		p.recordMiss("ranges")
	}
	return r, ok
}

// PutRange stores a range resolution under key.
func (p *DataPool) PutRange(key string, result *rangeresolve.Result) {
	p.ranges[key] = result
}

// DescriptorKey computes the composite key for a descriptor request:
// the artifact's full coordinate (including version) plus its
// repository list.
func DescriptorKey(a artifact.Artifact, repos []repository.Repository) string {
	return a.String() + "|" + reposKey(repos)
}

// GetDescriptor looks up a cached descriptor outcome. hit is false on a
// cache miss. When hit is true, exactly one of (desc non-nil),
// (noDescriptor true), or (err non-nil) holds.
func (p *DataPool) GetDescriptor(key string) (desc *descriptor.Descriptor, noDescriptor bool, err error, hit bool) {
	entry, ok := p.descriptors[key]
	if !ok {
		p.recordMiss("descriptors")
		return nil, false, nil, false
	}
	p.recordHit("descriptors")
	return entry.desc, entry.isNoDescriptor, entry.err, true
}

// PutDescriptorSuccess caches a successfully fetched descriptor.
func (p *DataPool) PutDescriptorSuccess(key string, d *descriptor.Descriptor) {
	p.descriptors[key] = &descriptorEntry{desc: d}
}

// PutDescriptorNoDescriptor caches the well-known NO_DESCRIPTOR negative
// entry: the artifact is known to have no metadata, but this is not a
// fetch failure.
func (p *DataPool) PutDescriptorNoDescriptor(key string) {
	p.descriptors[key] = &descriptorEntry{isNoDescriptor: true}
}

// PutDescriptorError caches a fetch failure so a repeated identical
// request does not re-attempt the network call.
func (p *DataPool) PutDescriptorError(key string, err error) {
	p.descriptors[key] = &descriptorEntry{err: err}
}

// ChildrenKey computes a subtree-memoization key from the (artifact,
// repos, selector, manager, traverser, filter) tuple doRecurse derives.
// Policy chain identity is approximated by pointer identity, which holds
// because every DeriveChild* implementation in this repository returns
// the same instance when nothing new was declared for the child scope -
// see policy.Selector/Manager/Traverser/VersionFilter.
func ChildrenKey(a artifact.Artifact, repos []repository.Repository, sel policy.Selector, mgr policy.Manager, trav policy.Traverser, filter policy.VersionFilter) string {
	return fmt.Sprintf("%s|%s|%p|%p|%p|%p", a.String(), reposKey(repos), sel, mgr, trav, filter)
}

// GetChildren returns the shared ChildList registered for key, if any.
func (p *DataPool) GetChildren(key string) (*ChildList, bool) {
	c, ok := p.children[key]
	if ok {
		p.recordHit("children")
	} else {
		p.recordMiss("children")
	}
	return c, ok
}

// PutChildren registers list as the shared children container for key.
// Callers must register before descending so concurrent sub-problems
// with the same key observe the same, eventually-populated list.
func (p *DataPool) PutChildren(key string, list *ChildList) {
	p.children[key] = list
}

// Intern canonicalizes a, returning a shared *artifact.Artifact for any
// prior or future call with a coordinate- and version-equal value. It
// shrinks memory on trees with a popular transitive dependency and lets
// callers that hold the interned pointer use pointer equality as a fast
// path before falling back to a full CoordinateEqual/field comparison.
func (p *DataPool) Intern(a artifact.Artifact) *artifact.Artifact {
	key := a.String()
	if existing, ok := p.artifacts[key]; ok {
		p.recordHit("artifacts")
		return existing
	}
	p.recordMiss("artifacts")
	canonical := a
	p.artifacts[key] = &canonical
	return &canonical
}

// InternDependency canonicalizes d the same way Intern canonicalizes an
// Artifact, additionally folding in scope, optionality, and the
// exclusion set into the dedup key.
func (p *DataPool) InternDependency(d artifact.Dependency) *artifact.Dependency {
	key := dependencyKey(d)
	if existing, ok := p.dependencies[key]; ok {
		p.recordHit("dependencies")
		return existing
	}
	p.recordMiss("dependencies")
	canonical := d
	canonical.Artifact = *p.Intern(d.Artifact)
	p.dependencies[key] = &canonical
	return &canonical
}

func dependencyKey(d artifact.Dependency) string {
	var b strings.Builder
	b.WriteString(d.Artifact.String())
	b.WriteByte('|')
	b.WriteString(d.Scope)
	b.WriteByte('|')
	fmt.Fprintf(&b, "%d", d.Optional)
	for _, ex := range d.Exclusions {
		b.WriteByte('|')
		b.WriteString(ex.Group)
		b.WriteByte(':')
		b.WriteString(ex.ID)
	}
	return b.String()
}

func reposKey(repos []repository.Repository) string {
	if len(repos) == 0 {
		return ""
	}
	urls := make([]string, len(repos))
	for i, r := range repos {
		urls[i] = r.URL
	}
	return strings.Join(urls, ",")
}
