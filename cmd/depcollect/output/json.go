package output

import (
	"encoding/json"
	"io"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/collector"
)

// GraphOutput is the JSON schema contract for `depcollect collect
// --output json`. SchemaVersion lets consumers detect layout changes.
type GraphOutput struct {
	SchemaVersion string      `json:"schemaVersion"`
	Root          *NodeOutput `json:"root"`
	Exceptions    []string    `json:"exceptions"`
	Cycles        [][]string  `json:"cycles"`
	ErrorPath     string      `json:"errorPath,omitempty"`
}

// NodeOutput is one DependencyNode's JSON projection.
type NodeOutput struct {
	Coordinate  string        `json:"coordinate"`
	Scope       string        `json:"scope,omitempty"`
	Optional    bool          `json:"optional,omitempty"`
	ManagedBits uint8         `json:"managedBits"`
	Relocations []string      `json:"relocations,omitempty"`
	Children    []*NodeOutput `json:"children,omitempty"`
}

const schemaVersion = "1.0"

// ToGraphOutput projects a CollectResult into the JSON-serializable
// GraphOutput shape.
func ToGraphOutput(result *collector.CollectResult) *GraphOutput {
	out := &GraphOutput{SchemaVersion: schemaVersion}
	if result == nil {
		return out
	}

	out.Root = toNodeOutput(result.Root)
	out.ErrorPath = result.ErrorPath

	for _, exc := range result.Exceptions {
		out.Exceptions = append(out.Exceptions, exc.Dependency.Artifact.String()+": "+exc.Err.Error())
	}
	for _, cyc := range result.Cycles {
		var path []string
		for _, a := range cyc.Path {
			path = append(path, a.String())
		}
		out.Cycles = append(out.Cycles, path)
	}

	return out
}

func toNodeOutput(n *collector.DependencyNode) *NodeOutput {
	if n == nil {
		return nil
	}

	out := &NodeOutput{
		Coordinate:  n.Artifact.String(),
		ManagedBits: uint8(n.ManagedBits),
	}
	if n.Dependency != nil {
		out.Scope = n.Dependency.Scope
		out.Optional = n.Dependency.Optional == artifact.OptionalTrue
	}
	for _, reloc := range n.Relocations {
		out.Relocations = append(out.Relocations, reloc.String())
	}
	for _, child := range n.Children() {
		out.Children = append(out.Children, toNodeOutput(child))
	}
	return out
}

// PrintJSON writes result as indented JSON to w.
func PrintJSON(w io.Writer, result *collector.CollectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToGraphOutput(result))
}
