package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartCycleSpan starts a span covering one evaluation cycle.
func StartCycleSpan(ctx context.Context, tracer trace.Tracer) (context.Context, trace.Span) {
	return tracer.Start(ctx, "monitor.cycle",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEmergencySpan starts a span covering one emergency invocation.
func StartEmergencySpan(ctx context.Context, tracer trace.Tracer, trigger, severity string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "monitor.emergency",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("emergency.trigger", trigger),
			attribute.String("emergency.severity", severity),
		),
	)
}

// EndSpan ends the span, recording the error status if present.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
