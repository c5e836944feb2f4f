package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/collector"
)

func TestPrintJSON(t *testing.T) {
	rootArtifact := artifact.New("com.example", "widget", "1.0.0")
	root := collector.NewDependencyNode(rootArtifact, nil)

	result := &collector.CollectResult{
		Root: root,
		Exceptions: []collector.ExceptionEntry{
			{Dependency: artifact.Dependency{Artifact: artifact.New("com.example", "broken", "1.0.0")}, Err: errors.New("boom")},
		},
		ErrorPath: "com.example:widget:jar:1.0.0 -> com.example:broken:jar:1.0.0",
	}

	var buf bytes.Buffer
	if err := PrintJSON(&buf, result); err != nil {
		t.Fatalf("PrintJSON() error = %v", err)
	}

	var decoded GraphOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.SchemaVersion != "1.0" {
		t.Errorf("SchemaVersion = %q, want 1.0", decoded.SchemaVersion)
	}
	if decoded.Root == nil || decoded.Root.Coordinate != rootArtifact.String() {
		t.Errorf("Root coordinate = %+v, want %q", decoded.Root, rootArtifact.String())
	}
	if len(decoded.Exceptions) != 1 {
		t.Fatalf("expected 1 exception, got %d", len(decoded.Exceptions))
	}
	if decoded.ErrorPath != result.ErrorPath {
		t.Errorf("ErrorPath = %q, want %q", decoded.ErrorPath, result.ErrorPath)
	}
}

func TestToGraphOutput_Nil(t *testing.T) {
	out := ToGraphOutput(nil)
	if out.SchemaVersion != "1.0" {
		t.Errorf("SchemaVersion = %q, want 1.0", out.SchemaVersion)
	}
	if out.Root != nil {
		t.Error("Root should be nil for a nil result")
	}
}
