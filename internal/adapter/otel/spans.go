package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "consilium"

// StartDecisionSpan starts a span covering one end-to-end decision run.
func StartDecisionSpan(ctx context.Context, decisionID, query string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "decision",
		trace.WithAttributes(
			attribute.String("decision.id", decisionID),
			attribute.String("decision.query", query),
		))
}

// StartRoundSpan starts a span covering one consensus round.
func StartRoundSpan(ctx context.Context, decisionID string, round int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "consensus.round",
		trace.WithAttributes(
			attribute.String("decision.id", decisionID),
			attribute.Int("decision.round", round),
		))
}
