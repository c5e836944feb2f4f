package collector

import "github.com/artifactgraph/depcollect/artifact"

// NodeStack is the append-only ancestor path maintained during descent.
// It is the collector's only means of detecting that a coordinate-equal
// artifact already appears on the current root-to-leaf path.
type NodeStack struct {
	nodes []*DependencyNode
}

// NewNodeStack returns an empty NodeStack.
func NewNodeStack() *NodeStack {
	return &NodeStack{}
}

// Push appends n to the top of the stack.
func (s *NodeStack) Push(n *DependencyNode) {
	s.nodes = append(s.nodes, n)
}

// Pop removes the top of the stack.
func (s *NodeStack) Pop() {
	s.nodes = s.nodes[:len(s.nodes)-1]
}

// Top returns the node currently at the top of the stack.
func (s *NodeStack) Top() *DependencyNode {
	return s.nodes[len(s.nodes)-1]
}

// Size returns the number of nodes currently on the stack.
func (s *NodeStack) Size() int {
	return len(s.nodes)
}

// Get returns the node at index i, 0-based from the bottom (the root).
func (s *NodeStack) Get(i int) *DependencyNode {
	return s.nodes[i]
}

// Find returns the index of the deepest ancestor whose Dependency's
// artifact is coordinate-equal to a, or -1 if none is found. The
// synthetic root-artifact placeholder (Dependency == nil) never matches.
func (s *NodeStack) Find(a artifact.Artifact) int {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		if n.Dependency != nil && n.Artifact.CoordinateEqual(a) {
			return i
		}
	}
	return -1
}

// ErrorPath renders the ancestor chain from the root to the current top
// of stack, terminated by failing's coordinate, joined with " -> ", the
// format the results accumulator records on the first recorded
// exception.
func (s *NodeStack) ErrorPath(failing artifact.Artifact) string {
	path := ""
	for i, n := range s.nodes {
		if i > 0 {
			path += " -> "
		}
		path += n.Artifact.String()
	}
	if len(s.nodes) > 0 {
		path += " -> "
	}
	path += failing.String()
	return path
}

// CyclePath renders the ancestor chain from index (inclusive) to the top
// of stack, plus the closing dependency's artifact, the path a recorded
// cycle entry captures.
func (s *NodeStack) CyclePath(from int, closing artifact.Artifact) []artifact.Artifact {
	path := make([]artifact.Artifact, 0, len(s.nodes)-from+1)
	for i := from; i < len(s.nodes); i++ {
		path = append(path, s.nodes[i].Artifact)
	}
	path = append(path, closing)
	return path
}
