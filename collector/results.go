package collector

import (
	"fmt"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/observability"
)

// ExceptionEntry records one recoverable failure encountered while
// collecting, scoped to the dependency whose processing produced it.
type ExceptionEntry struct {
	Dependency artifact.Dependency
	Err        error
}

// CycleEntry records one cycle detected during descent: the path from
// the ancestor the cycle closes on, down to the dependency that closed
// it.
type CycleEntry struct {
	Path []artifact.Artifact
}

// CollectResult is the outcome of one Collect call: the resulting graph
// plus whatever exceptions and cycles were recorded along the way.
// Result is still populated on failure - see CollectionFailure.
type CollectResult struct {
	Root       *DependencyNode
	Exceptions []ExceptionEntry
	Cycles     []CycleEntry
	ErrorPath  string
}

// CollectionFailure is the terminal error Collect returns when any
// exception was recorded. It carries the (possibly partial) result so
// callers can inspect whatever was collected even on failure.
type CollectionFailure struct {
	Result  *CollectResult
	Message string
}

func (e *CollectionFailure) Error() string {
	return e.Message
}

// resultsAccumulator implements the bounded collection of errors and
// cycles: additions beyond the configured quotas are silently dropped,
// never aborting the walk.
type resultsAccumulator struct {
	maxExceptions int
	maxCycles     int
	rootLabel     string
	logger        observability.Logger

	exceptions []ExceptionEntry
	cycles     []CycleEntry
	errorPath  string
}

func newResultsAccumulator(maxExceptions, maxCycles int, rootLabel string, logger observability.Logger) *resultsAccumulator {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &resultsAccumulator{maxExceptions: maxExceptions, maxCycles: maxCycles, rootLabel: rootLabel, logger: logger}
}

func (r *resultsAccumulator) underExceptionQuota() bool {
	return r.maxExceptions < 0 || len(r.exceptions) < r.maxExceptions
}

func (r *resultsAccumulator) underCycleQuota() bool {
	return r.maxCycles < 0 || len(r.cycles) < r.maxCycles
}

// addException records a failure against dep if under quota. stack
// supplies the ancestor path used to build the first errorPath.
func (r *resultsAccumulator) addException(stack *NodeStack, dep artifact.Dependency, err error) {
	if !r.underExceptionQuota() {
		return
	}
	if r.errorPath == "" {
		r.errorPath = stack.ErrorPath(dep.Artifact)
	}
	r.exceptions = append(r.exceptions, ExceptionEntry{Dependency: dep, Err: err})
	r.logger.Warn("collection exception for {Artifact}: {Error}", dep.Artifact.String(), err)
	observability.CollectionExceptionsTotal.WithLabelValues(r.rootLabel).Inc()
}

// addCycle records a cycle closing at dep if under quota, with the path
// running from the stack index the ancestor occupies down to dep.
func (r *resultsAccumulator) addCycle(stack *NodeStack, ancestorIndex int, dep artifact.Dependency) {
	if !r.underCycleQuota() {
		return
	}
	r.cycles = append(r.cycles, CycleEntry{Path: stack.CyclePath(ancestorIndex, dep.Artifact)})
	r.logger.Warn("dependency cycle closed at {Artifact}", dep.Artifact.String())
	observability.CollectionCyclesTotal.WithLabelValues(r.rootLabel).Inc()
}

// finish builds the terminal CollectResult/error pair: failure iff any
// exception was recorded, citing the first errorPath when one is set.
func (r *resultsAccumulator) finish(root *DependencyNode) (*CollectResult, error) {
	result := &CollectResult{Root: root, Exceptions: r.exceptions, Cycles: r.cycles, ErrorPath: r.errorPath}

	if len(r.exceptions) == 0 {
		return result, nil
	}

	msg := fmt.Sprintf("collected %d dependency exception(s)", len(r.exceptions))
	if r.errorPath != "" {
		msg = fmt.Sprintf("failed to collect dependencies at %s", r.errorPath)
	}
	return result, &CollectionFailure{Result: result, Message: msg}
}
