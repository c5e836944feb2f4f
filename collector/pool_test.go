package collector

import (
	"testing"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/descriptor"
)

func TestDataPool_Range(t *testing.T) {
	p := NewDataPool("test", nil)
	key := "k1"

	if _, hit := p.ResolveRange(key); hit {
		t.Fatal("ResolveRange() hit on empty pool")
	}

	p.PutRange(key, nil)
	if _, hit := p.ResolveRange(key); !hit {
		t.Fatal("ResolveRange() miss after PutRange")
	}
}

func TestDataPool_Descriptor(t *testing.T) {
	p := NewDataPool("test", nil)
	a := artifact.New("com.example", "widget", "1.0.0")
	key := DescriptorKey(a, nil)

	if _, _, _, hit := p.GetDescriptor(key); hit {
		t.Fatal("GetDescriptor() hit on empty pool")
	}

	d := descriptor.Empty(a)
	p.PutDescriptorSuccess(key, d)
	got, noDesc, err, hit := p.GetDescriptor(key)
	if !hit || got != d || noDesc || err != nil {
		t.Fatalf("GetDescriptor() = (%v, %v, %v, %v), want success hit", got, noDesc, err, hit)
	}
}

func TestDataPool_DescriptorNoDescriptorSentinel(t *testing.T) {
	p := NewDataPool("test", nil)
	key := "k2"
	p.PutDescriptorNoDescriptor(key)

	desc, noDesc, err, hit := p.GetDescriptor(key)
	if !hit || desc != nil || !noDesc || err != nil {
		t.Fatalf("GetDescriptor() = (%v, %v, %v, %v), want no-descriptor sentinel hit", desc, noDesc, err, hit)
	}
}

func TestDataPool_DescriptorErrorCachedNegatively(t *testing.T) {
	p := NewDataPool("test", nil)
	key := "k3"
	sentinelErr := &CollectionFailure{Message: "boom"}
	p.PutDescriptorError(key, sentinelErr)

	desc, noDesc, err, hit := p.GetDescriptor(key)
	if !hit || desc != nil || noDesc || err != sentinelErr {
		t.Fatalf("GetDescriptor() = (%v, %v, %v, %v), want cached error", desc, noDesc, err, hit)
	}
}

func TestDataPool_Children(t *testing.T) {
	p := NewDataPool("test", nil)
	key := "k4"

	if _, hit := p.GetChildren(key); hit {
		t.Fatal("GetChildren() hit on empty pool")
	}

	list := &ChildList{}
	p.PutChildren(key, list)

	got, hit := p.GetChildren(key)
	if !hit || got != list {
		t.Fatalf("GetChildren() = (%v, %v), want the same *ChildList registered", got, hit)
	}

	// Mutating the registered list must be visible to anyone holding
	// the same pointer - this is the structural-sharing contract
	// subtree memoization depends on.
	list.append(NewDependencyNode(artifact.New("com.example", "child", "1.0.0"), nil))
	if len(got.Nodes) != 1 {
		t.Error("mutation through the registered pointer should be visible via GetChildren")
	}
}

func TestReposKey(t *testing.T) {
	if reposKey(nil) != "" {
		t.Error("reposKey(nil) should be empty")
	}
}

func TestDataPool_InternArtifact(t *testing.T) {
	p := NewDataPool("test", nil)
	a := artifact.New("com.example", "widget", "1.0.0")

	first := p.Intern(a)
	second := p.Intern(artifact.New("com.example", "widget", "1.0.0"))
	if first != second {
		t.Fatal("Intern() should return the same pointer for equal artifacts")
	}

	other := p.Intern(artifact.New("com.example", "widget", "2.0.0"))
	if first == other {
		t.Fatal("Intern() should not alias artifacts that differ by version")
	}
}

func TestDataPool_InternDependency(t *testing.T) {
	p := NewDataPool("test", nil)
	d := artifact.Dependency{
		Artifact:   artifact.New("com.example", "widget", "1.0.0"),
		Scope:      "compile",
		Exclusions: []artifact.Exclusion{{Group: "com.example", ID: "excluded"}},
	}

	first := p.InternDependency(d)
	second := p.InternDependency(artifact.Dependency{
		Artifact:   artifact.New("com.example", "widget", "1.0.0"),
		Scope:      "compile",
		Exclusions: []artifact.Exclusion{{Group: "com.example", ID: "excluded"}},
	})
	if first != second {
		t.Fatal("InternDependency() should return the same pointer for equal dependencies")
	}

	differentScope := p.InternDependency(artifact.Dependency{
		Artifact: artifact.New("com.example", "widget", "1.0.0"),
		Scope:    "test",
	})
	if first == differentScope {
		t.Fatal("InternDependency() should not alias dependencies that differ by scope")
	}

	if first.Artifact.String() != p.Intern(d.Artifact).String() {
		t.Error("InternDependency() should intern its own Artifact field through the same table")
	}
}
