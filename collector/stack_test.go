package collector

import (
	"testing"

	"github.com/artifactgraph/depcollect/artifact"
)

func TestNodeStack_PushPopFind(t *testing.T) {
	s := NewNodeStack()
	if s.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", s.Size())
	}

	depA := artifact.Dependency{Artifact: artifact.New("com.example", "A", "1.0.0")}
	rootNode := NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil)
	aNode := NewDependencyNode(depA.Artifact, &depA)

	s.Push(rootNode)
	s.Push(aNode)

	if s.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", s.Size())
	}
	if s.Top() != aNode {
		t.Error("Top() should be the most recently pushed node")
	}
	if s.Get(0) != rootNode {
		t.Error("Get(0) should be the root node")
	}

	if idx := s.Find(artifact.New("com.example", "A", "9.9.9")); idx != 1 {
		t.Errorf("Find(A at a different version) = %d, want 1 (version is excluded from coordinate equality)", idx)
	}
	if idx := s.Find(artifact.New("com.example", "missing", "1.0.0")); idx != -1 {
		t.Errorf("Find(missing) = %d, want -1", idx)
	}
	if idx := s.Find(artifact.New("com.example", "root", "1.0.0")); idx != -1 {
		t.Error("Find should never match the synthetic root-artifact placeholder")
	}

	s.Pop()
	if s.Size() != 1 {
		t.Fatalf("Size() after Pop() = %d, want 1", s.Size())
	}
}

func TestNodeStack_ErrorPath(t *testing.T) {
	s := NewNodeStack()
	root := NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil)
	s.Push(root)

	failing := artifact.New("com.example", "F1", "1.0.0")
	path := s.ErrorPath(failing)
	want := "com.example:root:jar:1.0.0 -> com.example:F1:jar:1.0.0"
	if path != want {
		t.Errorf("ErrorPath() = %q, want %q", path, want)
	}
}

func TestNodeStack_CyclePath(t *testing.T) {
	s := NewNodeStack()
	depA := artifact.Dependency{Artifact: artifact.New("com.example", "A", "1.0.0")}
	depB := artifact.Dependency{Artifact: artifact.New("com.example", "B", "1.0.0")}
	s.Push(NewDependencyNode(artifact.New("com.example", "root", "1.0.0"), nil))
	s.Push(NewDependencyNode(depA.Artifact, &depA))
	s.Push(NewDependencyNode(depB.Artifact, &depB))

	path := s.CyclePath(1, depA.Artifact)
	if len(path) != 3 || path[0].ID != "A" || path[1].ID != "B" || path[2].ID != "A" {
		t.Errorf("CyclePath() = %v, want [A B A]", path)
	}
}
