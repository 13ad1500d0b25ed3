package telemetry

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartServiceSpan starts an internal span named "{service}.{method}".
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan finishes span with a status derived from err. Domain rejections
// such as insufficient stock are recorded as events, not span errors.
func EndSpan(span trace.Span, err error) {
	defer span.End()

	var domainErr *shared.DomainError
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.As(err, &domainErr):
		span.AddEvent("rejected", trace.WithAttributes(attribute.String("error.code", domainErr.Code)))
		span.SetStatus(codes.Unset, "")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// TraceID returns the trace ID of the span in ctx, or ""
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
