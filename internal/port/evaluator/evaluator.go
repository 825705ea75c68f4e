// Package evaluator defines the port interface for per-member evaluation of
// a recommendation. How an evaluator arrives at its agreement level is opaque
// to the core; only the structured result crosses this boundary.
package evaluator

import (
	"context"

	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

// Result is the structured output of one evaluation call.
type Result struct {
	AgreementLevel      float64  `json:"agreement_level"`
	Concerns            []string `json:"concerns,omitempty"`
	Suggestions         []string `json:"suggestions,omitempty"`
	SupportingArguments []string `json:"supporting_arguments,omitempty"`
	Confidence          float64  `json:"confidence"`
}

// Evaluator reviews a recommendation snapshot and reports its position.
// Implementations must be safe for concurrent calls and must honor context
// cancellation; a timed-out call is treated as non-participation for the
// round, never as a round failure.
type Evaluator interface {
	Evaluate(ctx context.Context, rec *recommendation.Recommendation) (*Result, error)
}

// Directory resolves the evaluator implementation for a panel member.
type Directory interface {
	Lookup(memberID string) (Evaluator, bool)
}
