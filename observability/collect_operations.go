package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartDescriptorFetchSpan starts a span for fetching one artifact's descriptor.
func StartDescriptorFetchSpan(ctx context.Context, groupID, artifactID, version string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "descriptor.fetch",
		trace.WithAttributes(
			AttrPackageID.String(groupID+":"+artifactID),
			AttrPackageVersion.String(version),
		),
	)
}

// StartRangeResolveSpan starts a span for resolving a version range against repositories.
func StartRangeResolveSpan(ctx context.Context, artifactID, versionRange string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "range.resolve",
		trace.WithAttributes(
			AttrPackageID.String(artifactID),
			attribute.String("artifact.version_range", versionRange),
		),
	)
}

// StartRepositoryAggregateSpan starts a span for merging a parent and a descriptor's repository lists.
func StartRepositoryAggregateSpan(ctx context.Context, sourceURL string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "repository.aggregate",
		trace.WithAttributes(
			AttrSourceURL.String(sourceURL),
		),
	)
}

// StartCollectSpan starts the top-level span for one Collect call.
func StartCollectSpan(ctx context.Context, rootArtifactID string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "collect.run",
		trace.WithAttributes(
			AttrPackageID.String(rootArtifactID),
		),
	)
}

// StartTransformSpan starts a span for the post-collection graph transformer invocation.
func StartTransformSpan(ctx context.Context, rootArtifactID string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "graph.transform",
		trace.WithAttributes(
			AttrPackageID.String(rootArtifactID),
		),
	)
}
