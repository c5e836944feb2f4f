package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artifactgraph/depcollect/observability"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name       string
		coordinate string
		wantErr    bool
		group, id  string
		version    string
	}{
		{name: "basic triple", coordinate: "com.example:widget:1.0.0", group: "com.example", id: "widget", version: "1.0.0"},
		{name: "version range", coordinate: "com.example:widget:[1,2)", group: "com.example", id: "widget", version: "[1,2)"},
		{name: "too few parts", coordinate: "com.example:widget", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, version, err := parseCoordinate(tt.coordinate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.group, a.Group)
			assert.Equal(t, tt.id, a.ID)
			assert.Equal(t, tt.version, version)
		})
	}
}

func TestBuildRepositories(t *testing.T) {
	repos, sources := buildRepositories([]string{"https://repo1.example.com", "https://repo2.example.com"}, nil, nil, observability.NewNullLogger(), nil)
	require.Len(t, repos, 2)
	require.Len(t, sources, 2)
	assert.Equal(t, "https://repo1.example.com", repos[0].URL)
}

func TestParseRepoAuth(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		wantErr bool
		wantLen int
	}{
		{
			name:    "bearer",
			entries: []string{"https://repo.example.com=bearer:tok123"},
			wantLen: 1,
		},
		{
			name:    "basic",
			entries: []string{"https://repo.example.com=basic:alice:hunter2"},
			wantLen: 1,
		},
		{
			name:    "apikey",
			entries: []string{"https://repo.example.com=apikey:key123"},
			wantLen: 1,
		},
		{
			name:    "missing equals",
			entries: []string{"https://repo.example.com"},
			wantErr: true,
		},
		{
			name:    "missing scheme separator",
			entries: []string{"https://repo.example.com=bearer"},
			wantErr: true,
		},
		{
			name:    "basic missing password",
			entries: []string{"https://repo.example.com=basic:alice"},
			wantErr: true,
		},
		{
			name:    "unknown scheme",
			entries: []string{"https://repo.example.com=hmac:sig"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRepoAuth(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}
