package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "consilium"

// Metrics holds all Consilium metric instruments.
type Metrics struct {
	DecisionsStarted   metric.Int64Counter
	DecisionsAccepted  metric.Int64Counter
	DecisionsVetoed    metric.Int64Counter
	DecisionsEscalated metric.Int64Counter
	RoundsCompleted    metric.Int64Counter
	DecisionDuration   metric.Float64Histogram
	FinalSupport       metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.DecisionsStarted, err = meter.Int64Counter("consilium.decisions.started",
		metric.WithDescription("Number of decision runs started"))
	if err != nil {
		return nil, err
	}

	m.DecisionsAccepted, err = meter.Int64Counter("consilium.decisions.accepted",
		metric.WithDescription("Number of decisions accepted by the panel"))
	if err != nil {
		return nil, err
	}

	m.DecisionsVetoed, err = meter.Int64Counter("consilium.decisions.vetoed",
		metric.WithDescription("Number of decisions blocked by a domain veto"))
	if err != nil {
		return nil, err
	}

	m.DecisionsEscalated, err = meter.Int64Counter("consilium.decisions.escalated",
		metric.WithDescription("Number of decisions escalated to a human"))
	if err != nil {
		return nil, err
	}

	m.RoundsCompleted, err = meter.Int64Counter("consilium.rounds.completed",
		metric.WithDescription("Number of consensus rounds completed"))
	if err != nil {
		return nil, err
	}

	m.DecisionDuration, err = meter.Float64Histogram("consilium.decision.duration_seconds",
		metric.WithDescription("End-to-end decision duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.FinalSupport, err = meter.Float64Histogram("consilium.decision.final_support",
		metric.WithDescription("Final support percentage per decision"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
