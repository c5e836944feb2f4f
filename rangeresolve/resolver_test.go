package rangeresolve

import (
	"context"
	"testing"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/repository"
	"github.com/artifactgraph/depcollect/version"
)

type fakeSource struct {
	repo     repository.Repository
	versions []string
	err      error
}

func (f *fakeSource) Repository() repository.Repository { return f.repo }

func (f *fakeSource) ListVersions(ctx context.Context, group, id string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.versions, nil
}

func TestDefault_ResolveRange(t *testing.T) {
	repo := repository.Repository{ID: "central", URL: "https://repo.example.com"}
	source := &fakeSource{repo: repo, versions: []string{"1.0.0", "1.5.0", "2.0.0"}}

	resolver := &Default{sources: []sourceLister{source}}

	constraint := version.MustParseRange("[1.0, )")
	result, err := resolver.ResolveRange(context.Background(), Request{
		Artifact:     artifact.New("com.example", "widget", ""),
		Constraint:   constraint,
		Repositories: []repository.Repository{repo},
	})
	if err != nil {
		t.Fatalf("ResolveRange() error = %v", err)
	}

	if len(result.Versions) != 3 {
		t.Fatalf("ResolveRange() returned %d versions, want 3", len(result.Versions))
	}
	if result.Versions[0].String() != "1.0.0" || result.Versions[2].String() != "2.0.0" {
		t.Errorf("ResolveRange() versions not ascending: %v", result.Versions)
	}

	gotRepo, ok := result.RepositoryOf(result.Versions[0])
	if !ok || gotRepo.URL != repo.URL {
		t.Errorf("RepositoryOf() = %v, %v, want %v, true", gotRepo, ok, repo)
	}
}

func TestDefault_ResolveRange_NoMatchingRepository(t *testing.T) {
	source := &fakeSource{repo: repository.Repository{URL: "https://unrelated.example.com"}}
	resolver := &Default{sources: []sourceLister{source}}

	_, err := resolver.ResolveRange(context.Background(), Request{
		Artifact:     artifact.New("com.example", "widget", ""),
		Repositories: []repository.Repository{{URL: "https://repo.example.com"}},
	})
	if err == nil {
		t.Fatal("ResolveRange() expected error when no source matches request repositories")
	}
}

func TestDefault_ResolveRange_FiltersOutOfConstraint(t *testing.T) {
	repo := repository.Repository{URL: "https://repo.example.com"}
	source := &fakeSource{repo: repo, versions: []string{"0.9.0", "1.0.0", "1.5.0"}}
	resolver := &Default{sources: []sourceLister{source}}

	result, err := resolver.ResolveRange(context.Background(), Request{
		Artifact:     artifact.New("com.example", "widget", ""),
		Constraint:   version.MustParseRange("[1.0, )"),
		Repositories: []repository.Repository{repo},
	})
	if err != nil {
		t.Fatalf("ResolveRange() error = %v", err)
	}
	if len(result.Versions) != 2 {
		t.Fatalf("ResolveRange() = %d versions, want 2 (0.9.0 excluded)", len(result.Versions))
	}
}
