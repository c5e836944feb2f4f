package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for depcollect operations
	TracerName = "github.com/artifactgraph/depcollect"
)

// Common attribute keys
const (
	AttrPackageID      = attribute.Key("artifact.coordinate.id")
	AttrPackageVersion = attribute.Key("artifact.coordinate.version")
	AttrSourceURL      = attribute.Key("artifact.repository.url")
	AttrFramework      = attribute.Key("artifact.scope")
	AttrOperation      = attribute.Key("artifact.operation")
	AttrCacheHit       = attribute.Key("artifact.cache.hit")
	AttrRetryCount     = attribute.Key("artifact.retry.count")
)

// StartCacheLookupSpan starts a span for a data pool lookup (range, descriptor, or children).
func StartCacheLookupSpan(ctx context.Context, cacheKey string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "pool.lookup",
		trace.WithAttributes(
			attribute.String("pool.key", cacheKey),
		),
	)
}

// RecordCacheHit records cache hit/miss on the current span
func RecordCacheHit(ctx context.Context, hit bool) {
	SetAttributes(ctx, AttrCacheHit.Bool(hit))
}

// StartDependencySelectionSpan starts a span for evaluating a dependency against the selector policy.
func StartDependencySelectionSpan(ctx context.Context, artifactID, scope string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "dependency.select",
		trace.WithAttributes(
			AttrPackageID.String(artifactID),
			AttrFramework.String(scope),
			AttrOperation.String("select"),
		),
	)
}

// StartRelocationSpan starts a span for following one hop of a relocation chain.
func StartRelocationSpan(ctx context.Context, fromID, toID string, chainDepth int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "dependency.relocate",
		trace.WithAttributes(
			attribute.String("relocation.from", fromID),
			attribute.String("relocation.to", toID),
			attribute.Int("relocation.depth", chainDepth),
		),
	)
}

// RecordRetry records a retry attempt on the current span
func RecordRetry(ctx context.Context, attempt int, err error) {
	span := SpanFromContext(ctx)
	span.AddEvent("retry",
		trace.WithAttributes(
			attribute.Int("retry.attempt", attempt),
			attribute.String("retry.error", err.Error()),
		),
	)
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
