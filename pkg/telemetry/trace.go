package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer name used for fetch spans.
const tracerName = "pulse"

// TraceConfig configures fetch tracing.
type TraceConfig struct {
	// TracerName names the tracer resolved from the global provider
	// (default: "pulse").
	TracerName string

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TraceOption configures fetch tracing.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Traced wraps a resource or action function so each invocation runs inside
// an OpenTelemetry span named spanName. Errors are recorded on the span and
// set its status.
//
// The tracer comes from the global provider; configure it in main() with
// otel.SetTracerProvider before the first fetch.
func Traced[S, T any](spanName string, fn func(context.Context, S) (T, error), opts ...TraceOption) func(context.Context, S) (T, error) {
	config := TraceConfig{TracerName: tracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tracer := otel.Tracer(config.TracerName)

	return func(ctx context.Context, src S) (T, error) {
		spanCtx, span := tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(config.Attributes...),
		)
		defer span.End()

		result, err := fn(spanCtx, src)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return result, err
		}
		span.SetStatus(codes.Ok, "")
		return result, nil
	}
}
