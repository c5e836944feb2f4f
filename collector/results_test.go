package collector

import (
	"errors"
	"testing"

	"github.com/artifactgraph/depcollect/artifact"
)

func TestResultsAccumulator_ExceptionQuota(t *testing.T) {
	r := newResultsAccumulator(2, -1, "root", nil)
	stack := NewNodeStack()
	stack.Push(NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil))

	for i := 0; i < 5; i++ {
		r.addException(stack, dep("com.example", "F", "1.0.0"), errors.New("boom"))
	}
	if len(r.exceptions) != 2 {
		t.Fatalf("exceptions = %d, want 2 (quota-capped)", len(r.exceptions))
	}
}

func TestResultsAccumulator_CycleQuota(t *testing.T) {
	r := newResultsAccumulator(-1, 1, "root", nil)
	stack := NewNodeStack()
	stack.Push(NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil))

	for i := 0; i < 3; i++ {
		r.addCycle(stack, 0, dep("com.example", "root", "1.0.0"))
	}
	if len(r.cycles) != 1 {
		t.Fatalf("cycles = %d, want 1 (quota-capped)", len(r.cycles))
	}
}

func TestResultsAccumulator_UnboundedWhenNegative(t *testing.T) {
	r := newResultsAccumulator(-1, -1, "root", nil)
	stack := NewNodeStack()
	stack.Push(NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil))

	for i := 0; i < 100; i++ {
		r.addException(stack, dep("com.example", "F", "1.0.0"), errors.New("boom"))
	}
	if len(r.exceptions) != 100 {
		t.Fatalf("exceptions = %d, want 100 (unbounded)", len(r.exceptions))
	}
}

func TestResultsAccumulator_FinishSuccessAndFailure(t *testing.T) {
	root := NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil)

	r := newResultsAccumulator(-1, -1, "root", nil)
	result, err := r.finish(root)
	if err != nil {
		t.Fatalf("finish() with no exceptions returned error: %v", err)
	}
	if result.Root != root {
		t.Error("finish() result.Root should be the root passed in")
	}

	stack := NewNodeStack()
	stack.Push(root)
	r.addException(stack, dep("com.example", "F", "1.0.0"), errors.New("boom"))
	result, err = r.finish(root)
	if err == nil {
		t.Fatal("finish() with a recorded exception should return an error")
	}
	var failure *CollectionFailure
	if !errors.As(err, &failure) {
		t.Fatalf("finish() error type = %T, want *CollectionFailure", err)
	}
	if failure.Result != result {
		t.Error("CollectionFailure.Result should be the same result returned alongside it")
	}
}
