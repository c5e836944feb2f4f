// Package transform holds the post-collection graph transformers that
// run once the collection core has finished walking a dependency tree.
package transform

import (
	"context"
	"fmt"

	"github.com/artifactgraph/depcollect/collector"
)

// ConflictResolver implements collector.GraphTransformer using
// nearest-wins: for every coordinate (group, id, classifier, extension)
// reached at more than one version, the occurrence at the lowest depth
// wins; a tie at equal depth is broken by the higher version. Losing
// occurrences are kept in the graph - callers that want to see the
// conflict, and what lost it, still can - but their transitive
// dependencies are pruned so the resolved tree never expands a losing
// version's subtree.
type ConflictResolver struct{}

// NewConflictResolver returns a ConflictResolver.
func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{}
}

type occurrence struct {
	node  *collector.DependencyNode
	depth int
}

// Transform implements collector.GraphTransformer.
func (cr *ConflictResolver) Transform(ctx context.Context, root *collector.DependencyNode, tctx *collector.TransformContext) (*collector.DependencyNode, error) {
	if root == nil {
		return root, nil
	}

	byCoordinate := map[string][]occurrence{}
	cr.breadthFirst(root, func(n *collector.DependencyNode, depth int) {
		if n.Dependency == nil {
			return // synthetic root placeholder never participates in a conflict
		}
		key := n.Artifact.CoordinateKey()
		byCoordinate[key] = append(byCoordinate[key], occurrence{node: n, depth: depth})
	})

	for key, occs := range byCoordinate {
		winner := cr.pickWinner(occs)
		for _, occ := range occs {
			if occ.node == winner.node {
				continue
			}
			if occ.node.Version == nil || winner.node.Version == nil || !occ.node.Version.Equals(winner.node.Version) {
				occ.node.SetChildren(nil)
				if tctx != nil && tctx.Debug {
					if tctx.Stats == nil {
						tctx.Stats = map[string]int{}
					}
					tctx.Stats[fmt.Sprintf("conflict:%s:pruned", key)]++
				}
			}
		}
	}

	return root, nil
}

// pickWinner applies nearest-wins with a highest-version tiebreak,
// matching the resolution order a Maven-family conflict resolver uses.
func (cr *ConflictResolver) pickWinner(occs []occurrence) occurrence {
	winner := occs[0]
	for _, occ := range occs[1:] {
		switch {
		case occ.depth < winner.depth:
			winner = occ
		case occ.depth == winner.depth && occ.node.Version != nil && winner.node.Version != nil && occ.node.Version.GreaterThan(winner.node.Version):
			winner = occ
		}
	}
	return winner
}

// breadthFirst walks the graph level by level, visiting each distinct
// node object once even if it is reachable through more than one
// parent (the pool's subtree-sharing makes that routine, not an
// anomaly).
func (cr *ConflictResolver) breadthFirst(root *collector.DependencyNode, visit func(*collector.DependencyNode, int)) {
	type queued struct {
		node  *collector.DependencyNode
		depth int
	}
	seen := map[*collector.DependencyNode]bool{}
	queue := []queued{{node: root, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur.node] {
			continue
		}
		seen[cur.node] = true
		visit(cur.node, cur.depth)
		for _, child := range cur.node.Children() {
			queue = append(queue, queued{node: child, depth: cur.depth + 1})
		}
	}
}
