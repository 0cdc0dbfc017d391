package client

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lexicard-dev/lexicard/pkg/protocol"
)

// startDispatchSpan opens a span around the handling of one inbound
// envelope.
func (s *Session) startDispatchSpan(ctx context.Context, env *protocol.Envelope) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "client.dispatch",
		trace.WithAttributes(
			attribute.String("message.type", env.Type.String()),
			attribute.Int64("message.serial", int64(env.Serial)),
			attribute.Int("message.body_bytes", len(env.Body)),
		),
	)
}

// startSendSpan opens a span around one outbound request.
func (s *Session) startSendSpan(ctx context.Context, msgType protocol.MessageID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "client.send",
		trace.WithAttributes(
			attribute.String("message.type", msgType.String()),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func newTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
