package client

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for cursorstream clients.
const defaultTracerName = "cursorstream"

// Tracer returns the default tracer for Config.Tracer, resolved from the
// global tracer provider.
func Tracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

// traceConnect opens a span for one connection attempt. The returned finish
// function records the outcome and ends the span; it is a no-op when
// tracing is not configured.
func (c *Client) traceConnect(ctx context.Context, attempt int) (context.Context, func(error)) {
	if c.cfg.Tracer == nil {
		return ctx, func(error) {}
	}

	ctx, span := c.cfg.Tracer.Start(ctx, "cursorstream.connect",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("url", c.cfg.URL),
			attribute.Int("attempt", attempt),
		))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
