package repository

import (
	"context"
	"testing"
)

func TestDefaultManager_Aggregate(t *testing.T) {
	mgr := NewDefaultManager()
	ctx := context.Background()

	parent := []Repository{
		{ID: "central", URL: "https://repo.example.com/central"},
	}
	children := []Repository{
		{ID: "central", URL: "https://repo.example.com/central"}, // duplicate, should be deduped
		{ID: "snapshots", URL: "https://repo.example.com/snapshots"},
	}

	got := mgr.Aggregate(ctx, parent, children, false)

	if len(got) != 2 {
		t.Fatalf("Aggregate() returned %d repos, want 2", len(got))
	}
	if got[0].URL != parent[0].URL {
		t.Errorf("Aggregate()[0] = %v, want parent entry first", got[0])
	}
	if got[1].URL != "https://repo.example.com/snapshots" {
		t.Errorf("Aggregate()[1] = %v, want the new snapshots repo", got[1])
	}
}

func TestDefaultManager_Aggregate_EmptyInputs(t *testing.T) {
	mgr := NewDefaultManager()
	got := mgr.Aggregate(context.Background(), nil, nil, false)
	if len(got) != 0 {
		t.Errorf("Aggregate() with no inputs = %v, want empty", got)
	}
}
