package output

import (
	"fmt"
	"strings"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/collector"
)

// PrintTree renders result as an indented text tree, coloring cycle-
// closing nodes and trailing the output with a colored exceptions
// section. This is the CLI's default (non-JSON) rendering.
func PrintTree(c *Console, result *collector.CollectResult) {
	if result == nil || result.Root == nil {
		c.Println("(no graph)")
		return
	}

	printNode(c, result.Root, "", true, map[*collector.DependencyNode]bool{})

	if len(result.Cycles) > 0 {
		c.Println("")
		c.rawColorLine(ColorWarning, fmt.Sprintf("cycles detected: %d", len(result.Cycles)))
		for _, cyc := range result.Cycles {
			c.Println("  " + coordinatePath(cyc.Path))
		}
	}

	if len(result.Exceptions) > 0 {
		c.Println("")
		c.rawColorLine(ColorException, fmt.Sprintf("exceptions: %d", len(result.Exceptions)))
		for _, exc := range result.Exceptions {
			c.Println("  " + exc.Dependency.Artifact.String() + ": " + exc.Err.Error())
		}
		if result.ErrorPath != "" {
			c.Println("")
			c.Println("first failure at: " + result.ErrorPath)
		}
	}
}

func printNode(c *Console, n *collector.DependencyNode, prefix string, last bool, seen map[*collector.DependencyNode]bool) {
	branch := "├── "
	nextPrefix := prefix + "│   "
	if last {
		branch = "└── "
		nextPrefix = prefix + "    "
	}

	label := n.Artifact.String()
	if seen[n] {
		c.rawColorLine(ColorCycle, prefix+branch+label+" (cycle)")
		return
	}
	seen[n] = true

	if prefix == "" {
		c.Println(label)
	} else {
		c.Println(prefix + branch + label)
	}

	children := n.Children()
	for i, child := range children {
		printNode(c, child, nextPrefix, i == len(children)-1, seen)
	}
}

func coordinatePath(path []artifact.Artifact) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " -> ")
}
