package collector

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/descriptor"
	"github.com/artifactgraph/depcollect/observability"
	"github.com/artifactgraph/depcollect/policy"
	"github.com/artifactgraph/depcollect/rangeresolve"
	"github.com/artifactgraph/depcollect/repository"
	"github.com/artifactgraph/depcollect/version"
)

// Driver runs Collect calls against a fixed Session. A Driver holds no
// per-call state itself - see run - so the same Driver may be reused
// across Collect calls; the Session and its collaborators are shared by
// every call.
type Driver struct {
	session *Session
}

// NewDriver returns a Driver bound to session.
func NewDriver(session *Session) *Driver {
	return &Driver{session: session}
}

// run holds the state exclusively owned by one in-flight Collect call:
// the node stack, the data pool, and the results accumulator. A fresh
// run is constructed per call so concurrent Collect calls against the
// same Driver never share mutable state.
type run struct {
	session        *Session
	stack          *NodeStack
	pool           *DataPool
	results        *resultsAccumulator
	requestContext string
	logger         observability.Logger
}

// Collect is the collection core's entry operation.
func (d *Driver) Collect(ctx context.Context, req Request) (*CollectResult, error) {
	rootLabel := rootCoordinateLabel(req)

	logger := d.session.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	ctx, span := observability.StartCollectSpan(ctx, rootLabel)
	defer span.End()

	r := &run{
		session:        d.session,
		stack:          NewNodeStack(),
		pool:           NewDataPool(rootLabel, logger),
		results:        newResultsAccumulator(d.session.MaxExceptions, d.session.MaxCycles, rootLabel, logger),
		requestContext: req.RequestContext,
		logger:         logger,
	}

	rootNode, mergedDeps, mergedManaged, aggregatedRepos, err := r.buildRootNode(ctx, req)
	if err != nil {
		return r.results.finish(rootNode)
	}

	expand := req.Root == nil || d.session.Traverser == nil || d.session.Traverser.TraverseDependency(*req.Root)
	if expand {
		r.stack.Push(rootNode)
		pctx := policy.Context{Artifact: rootNode.Artifact, Dependency: req.Root, ManagedDependencies: mergedManaged, Depth: 0}
		childSelector := d.session.Selector
		if childSelector != nil {
			childSelector = childSelector.DeriveChildSelector(pctx)
		}
		childManager := d.session.Manager
		if childManager != nil {
			childManager = childManager.DeriveChildManager(pctx)
		}
		childTraverser := d.session.Traverser
		if childTraverser != nil {
			childTraverser = childTraverser.DeriveChildTraverser(pctx)
		}
		childFilter := d.session.Filter
		if childFilter != nil {
			childFilter = childFilter.DeriveChildFilter(pctx)
		}
		r.process(ctx, mergedDeps, aggregatedRepos, childSelector, childManager, childTraverser, childFilter, nil, false)
		r.stack.Pop()
	}

	finalRoot := rootNode
	if d.session.Transformer != nil {
		ctx, tspan := observability.StartTransformSpan(ctx, rootLabel)
		tctx := &TransformContext{Debug: d.session.Debug}
		if d.session.Debug {
			tctx.Stats = map[string]int{}
		}
		transformed, terr := d.session.Transformer.Transform(ctx, rootNode, tctx)
		if terr != nil {
			r.results.addException(NewNodeStack(), artifact.Dependency{Artifact: rootNode.Artifact}, terr)
		} else {
			finalRoot = transformed
		}
		observability.EndSpanWithError(tspan, terr)
	}

	return r.results.finish(finalRoot)
}

func rootCoordinateLabel(req Request) string {
	if req.Root != nil {
		return req.Root.Artifact.CoordinateKey()
	}
	if req.RootArtifact != nil {
		return req.RootArtifact.CoordinateKey()
	}
	return "unknown"
}

// buildRootNode resolves the root dependency's version, reads its
// descriptor, and merges the request's dependency lists with the
// descriptor's, returning the root node plus the merged lists and the
// aggregated repository set the recursion will use.
func (r *run) buildRootNode(ctx context.Context, req Request) (*DependencyNode, []artifact.Dependency, []artifact.Dependency, []repository.Repository, error) {
	if req.Root == nil {
		a := *r.pool.Intern(*req.RootArtifact)
		node := NewDependencyNode(a, nil)
		node.Repositories = req.Repositories
		node.RequestContext = req.RequestContext
		r.countNode()
		return node, req.Dependencies, req.ManagedDependencies, req.Repositories, nil
	}

	rootDep := *req.Root

	constraint, err := version.ParseVersionRange(rootDep.Artifact.Version)
	if err != nil {
		r.results.addException(r.stack, rootDep, fmt.Errorf("parse root version range: %w", err))
		return nil, nil, nil, nil, err
	}

	rangeResult, err := r.session.RangeResolver.ResolveRange(ctx, rangeresolve.Request{
		Artifact: rootDep.Artifact, Constraint: constraint, Repositories: req.Repositories,
	})
	if err != nil {
		r.results.addException(r.stack, rootDep, fmt.Errorf("resolve root version range: %w", err))
		return nil, nil, nil, nil, err
	}

	survivors := r.filterVersions(r.session.Filter, rootDep, rangeResult)
	if len(survivors) == 0 {
		err := fmt.Errorf("no acceptable versions for %s", rootDep.Artifact.CoordinateKey())
		r.results.addException(r.stack, rootDep, err)
		return nil, nil, nil, nil, err
	}
	chosen := survivors[len(survivors)-1] // ascending: last is highest
	chosenArtifact := rootDep.Artifact.WithVersion(chosen.String())

	var rootDescriptor *descriptor.Descriptor
	if chosenArtifact.HasLocalPath() {
		rootDescriptor = descriptor.Empty(chosenArtifact)
	} else {
		fetched, ferr := r.session.DescriptorReader.ReadDescriptor(ctx, descriptor.Request{
			Artifact: chosenArtifact, Repositories: req.Repositories, RequestContext: req.RequestContext,
		})
		if ferr != nil {
			r.results.addException(r.stack, rootDep, fmt.Errorf("read root descriptor: %w", ferr))
			return nil, nil, nil, nil, ferr
		}
		rootDescriptor = fetched
	}

	aggregatedRepos := req.Repositories
	if !r.session.IgnoreArtifactDescriptorRepositories {
		aggregatedRepos = r.session.RepositoryManager.Aggregate(ctx, req.Repositories, rootDescriptor.Repositories, false)
	}

	mergedDependencies := mergeDependencies(req.Dependencies, rootDescriptor.Dependencies)
	mergedManaged := mergeDependencies(req.ManagedDependencies, rootDescriptor.ManagedDependencies)

	internedRootDep := r.pool.InternDependency(rootDep)
	node := NewDependencyNode(*r.pool.Intern(rootDescriptor.Artifact), internedRootDep)
	node.Version = chosen
	node.VersionConstraint = constraint
	// The root node records the caller's original repository list, not
	// the aggregated set used for recursion: the root represents the
	// caller's asking list.
	node.Repositories = req.Repositories
	node.Aliases = rootDescriptor.Aliases
	node.Relocations = rootDescriptor.Relocations
	node.RequestContext = req.RequestContext
	r.countNode()

	return node, mergedDependencies, mergedManaged, aggregatedRepos, nil
}

// process visits each dependency in order; no parallelism, so child
// list order is observable.
func (r *run) process(ctx context.Context, deps []artifact.Dependency, repos []repository.Repository, selector policy.Selector, manager policy.Manager, traverser policy.Traverser, filter policy.VersionFilter, relocations []artifact.Artifact, disableVersionManagement bool) {
	for _, dep := range deps {
		r.processDependency(ctx, dep, relocations, disableVersionManagement, repos, selector, manager, traverser, filter)
	}
}

// processDependency runs one raw dependency through selection,
// management, range resolution, and per-version expansion.
func (r *run) processDependency(ctx context.Context, dep artifact.Dependency, relocations []artifact.Artifact, disableVersionManagement bool, repos []repository.Repository, selector policy.Selector, manager policy.Manager, traverser policy.Traverser, filter policy.VersionFilter) {
	if selector != nil {
		sctx, sspan := observability.StartDependencySelectionSpan(ctx, dep.Artifact.CoordinateKey(), dep.Scope)
		selected := selector.SelectDependency(dep)
		observability.SetAttributes(sctx, attribute.Bool("dependency.selected", selected))
		sspan.End()
		if !selected {
			return
		}
	}

	r.logger.DebugContext(ctx, "processing dependency {Artifact} at depth {Depth}", dep.Artifact.String(), r.stack.Size())

	managed, bits, premanagedOriginal := premanage(manager, dep, disableVersionManagement)

	lackingDescriptor := managed.Artifact.HasLocalPath()
	traverse := !lackingDescriptor && (traverser == nil || traverser.TraverseDependency(managed))

	rangeKey := RangeKey(managed.Artifact, repos)
	pctx, pspan := observability.StartCacheLookupSpan(ctx, rangeKey)
	rangeResult, hit := r.pool.ResolveRange(rangeKey)
	observability.RecordCacheHit(pctx, hit)
	pspan.End()
	if !hit {
		constraint, err := version.ParseVersionRange(managed.Artifact.Version)
		if err != nil {
			r.results.addException(r.stack, managed, fmt.Errorf("parse version range: %w", err))
			return
		}
		result, err := r.session.RangeResolver.ResolveRange(ctx, rangeresolve.Request{
			Artifact: managed.Artifact, Constraint: constraint, Repositories: repos,
		})
		if err != nil {
			r.results.addException(r.stack, managed, fmt.Errorf("resolve version range: %w", err))
			return
		}
		rangeResult = result
		r.pool.PutRange(rangeKey, rangeResult)
	}

	survivors := r.filterVersions(filter, managed, rangeResult)
	if len(survivors) == 0 {
		r.results.addException(r.stack, managed, fmt.Errorf("no acceptable versions for %s", managed.Artifact.CoordinateKey()))
		return
	}

	for _, v := range survivors {
		candidate := managed.WithArtifact(managed.Artifact.WithVersion(v.String()))
		relocated := r.processVersion(ctx, candidate, v, rangeResult, lackingDescriptor, relocations, disableVersionManagement, traverse, repos, selector, manager, traverser, filter, bits, premanagedOriginal)
		if relocated {
			return
		}
	}
}

// processVersion expands one concrete resolved version: descriptor
// lookup, cycle check, relocation, and child node creation. It returns
// true when a relocation was followed, signalling the caller to abandon
// the remaining per-version loop.
func (r *run) processVersion(ctx context.Context, dep artifact.Dependency, v *version.Version, rangeResult *rangeresolve.Result, lackingDescriptor bool, relocations []artifact.Artifact, disableVersionManagement bool, traverse bool, repos []repository.Repository, selector policy.Selector, manager policy.Manager, traverser policy.Traverser, filter policy.VersionFilter, bits artifact.ManagedBits, premanagedOriginal PremanagedData) bool {
	descKey := DescriptorKey(dep.Artifact, repos)

	var desc *descriptor.Descriptor
	var isNoDescriptor bool

	switch {
	case lackingDescriptor:
		desc = descriptor.Empty(dep.Artifact)
		r.pool.PutDescriptorSuccess(descKey, desc)
	default:
		pctx, pspan := observability.StartCacheLookupSpan(ctx, descKey)
		cachedDesc, cachedNoDesc, cachedErr, hit := r.pool.GetDescriptor(descKey)
		observability.RecordCacheHit(pctx, hit)
		pspan.End()
		switch {
		case hit && cachedErr != nil:
			// A cached fetch failure yields no node at all; contrast
			// with the no-descriptor sentinel case below, which still
			// emits a leaf. Asymmetric on purpose - see DESIGN.md.
			return false
		case hit && cachedNoDesc:
			isNoDescriptor = true
		case hit:
			desc = cachedDesc
		default:
			fetched, err := r.fetchDescriptor(ctx, dep, repos)
			if err != nil {
				r.pool.PutDescriptorError(descKey, err)
				r.results.addException(r.stack, dep, fmt.Errorf("read descriptor: %w", err))
				return false
			}
			if fetched == nil {
				r.pool.PutDescriptorNoDescriptor(descKey)
				isNoDescriptor = true
			} else {
				r.pool.PutDescriptorSuccess(descKey, fetched)
				desc = fetched
			}
		}
	}

	parentNode := r.stack.Top()
	internedDep := r.pool.InternDependency(dep)

	if isNoDescriptor {
		leaf := NewDependencyNode(internedDep.Artifact, internedDep)
		leaf.Version = v
		leaf.VersionConstraint = rangeResult.Constraint
		leaf.Repositories = repos
		leaf.ManagedBits = bits
		leaf.Relocations = relocations
		if r.session.VerbosePremanaged {
			original := premanagedOriginal
			leaf.Premanaged = &original
		}
		parentNode.appendChild(leaf)
		r.countNode()
		return false
	}

	if idx := r.stack.Find(dep.Artifact); idx != -1 {
		ancestor := r.stack.Get(idx)
		cycleNode := NewDependencyNode(internedDep.Artifact, internedDep)
		cycleNode.Version = v
		cycleNode.VersionConstraint = rangeResult.Constraint
		cycleNode.Repositories = repos
		cycleNode.ManagedBits = bits
		cycleNode.Relocations = relocations
		if r.session.VerbosePremanaged {
			original := premanagedOriginal
			cycleNode.Premanaged = &original
		}
		cycleNode.ShareChildrenWith(ancestor)
		parentNode.appendChild(cycleNode)
		r.countNode()
		r.results.addCycle(r.stack, idx, dep)
		return false
	}

	if len(desc.Relocations) > 0 {
		relocatedArtifact := desc.Relocations[0]
		newRelocations := make([]artifact.Artifact, 0, len(relocations)+1)
		newRelocations = append(newRelocations, relocations...)
		newRelocations = append(newRelocations, dep.Artifact)
		sameGroupAndID := relocatedArtifact.Group == dep.Artifact.Group && relocatedArtifact.ID == dep.Artifact.ID
		relocatedDep := dep.WithArtifact(relocatedArtifact)
		rctx, rspan := observability.StartRelocationSpan(ctx, dep.Artifact.CoordinateKey(), relocatedArtifact.CoordinateKey(), len(newRelocations))
		// Version management is disabled for the relocated form iff
		// group and id are unchanged - a same-coordinate relocation
		// (version bump only) must not re-apply management that was
		// already folded into dep's version; a cross-group/id
		// relocation re-enables it.
		r.processDependency(rctx, relocatedDep, newRelocations, sameGroupAndID, repos, selector, manager, traverser, filter)
		rspan.End()
		return true
	}

	var childRepos []repository.Repository
	if repo, ok := rangeResult.RepositoryOf(v); ok {
		if repo.Kind == repository.KindRemote {
			childRepos = []repository.Repository{repo}
		} else {
			childRepos = nil
		}
	} else {
		childRepos = repos
	}

	childNode := NewDependencyNode(internedDep.Artifact, internedDep)
	childNode.Version = v
	childNode.VersionConstraint = rangeResult.Constraint
	childNode.Repositories = childRepos
	childNode.ManagedBits = bits
	childNode.Relocations = relocations
	childNode.Aliases = desc.Aliases
	if r.session.VerbosePremanaged {
		original := premanagedOriginal
		childNode.Premanaged = &original
	}
	parentNode.appendChild(childNode)
	r.countNode()

	if traverse && len(desc.Dependencies) > 0 {
		r.doRecurse(ctx, childNode, dep, desc, childRepos, selector, manager, traverser, filter)
	}
	return false
}

func (r *run) fetchDescriptor(ctx context.Context, dep artifact.Dependency, repos []repository.Repository) (*descriptor.Descriptor, error) {
	return r.session.DescriptorReader.ReadDescriptor(ctx, descriptor.Request{
		Artifact: dep.Artifact, Repositories: repos, RequestContext: r.requestContext,
	})
}

// doRecurse derives the child policy chain, aggregates the child
// repository set, and descends into the descriptor's dependencies with
// pool-backed subtree memoization.
func (r *run) doRecurse(ctx context.Context, node *DependencyNode, dep artifact.Dependency, desc *descriptor.Descriptor, repos []repository.Repository, selector policy.Selector, manager policy.Manager, traverser policy.Traverser, filter policy.VersionFilter) {
	pctx := policy.Context{Artifact: node.Artifact, Dependency: &dep, ManagedDependencies: desc.ManagedDependencies, Depth: r.stack.Size()}

	childSelector := selector
	if selector != nil {
		childSelector = selector.DeriveChildSelector(pctx)
	}
	childManager := manager
	if manager != nil {
		childManager = manager.DeriveChildManager(pctx)
	}
	childTraverser := traverser
	if traverser != nil {
		childTraverser = traverser.DeriveChildTraverser(pctx)
	}
	childFilter := filter
	if filter != nil {
		childFilter = filter.DeriveChildFilter(pctx)
	}

	childRepos := repos
	if !r.session.IgnoreArtifactDescriptorRepositories {
		childRepos = r.session.RepositoryManager.Aggregate(ctx, repos, desc.Repositories, false)
	}

	key := ChildrenKey(node.Artifact, childRepos, childSelector, childManager, childTraverser, childFilter)
	cctx, cspan := observability.StartCacheLookupSpan(ctx, key)
	cached, ok := r.pool.GetChildren(key)
	observability.RecordCacheHit(cctx, ok)
	cspan.End()
	if ok {
		node.children = cached
		return
	}

	node.children = &ChildList{}
	r.pool.PutChildren(key, node.children)

	r.stack.Push(node)
	r.process(ctx, desc.Dependencies, childRepos, childSelector, childManager, childTraverser, childFilter, nil, false)
	r.stack.Pop()
}

// filterVersions applies the version filter to a range result. Pinned
// (non-range) constraints bypass the filter.
func (r *run) filterVersions(filter policy.VersionFilter, dep artifact.Dependency, rangeResult *rangeresolve.Result) []*version.Version {
	if len(rangeResult.Versions) == 0 {
		return nil
	}
	if filter != nil && rangeResult.Constraint != nil && !rangeResult.Constraint.IsPinned() {
		return filter.FilterVersions(rangeResult.Versions)
	}
	return rangeResult.Versions
}

func (r *run) countNode() {
	observability.CollectionNodesTotal.WithLabelValues(r.pool.rootLabel).Inc()
}

// mergeDependencies merges dominant over recessive, keyed by coordinate:
// an entry from dominant suppresses any later recessive entry sharing
// its (group, id, classifier, extension) key.
func mergeDependencies(dominant, recessive []artifact.Dependency) []artifact.Dependency {
	seen := make(map[string]bool, len(dominant))
	merged := make([]artifact.Dependency, 0, len(dominant)+len(recessive))
	for _, d := range dominant {
		seen[d.Artifact.CoordinateKey()] = true
		merged = append(merged, d)
	}
	for _, d := range recessive {
		if seen[d.Artifact.CoordinateKey()] {
			continue
		}
		merged = append(merged, d)
	}
	return merged
}
