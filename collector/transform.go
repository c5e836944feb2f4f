package collector

import "context"

// TransformContext carries the post-collection state a GraphTransformer
// needs: a stats map for recording what it changed, populated only when
// Debug is set.
type TransformContext struct {
	Debug bool
	Stats map[string]int
}

// GraphTransformer is the collection core's final collaborator,
// invoked once on the completed root node after collection finishes.
type GraphTransformer interface {
	Transform(ctx context.Context, root *DependencyNode, tctx *TransformContext) (*DependencyNode, error)
}
