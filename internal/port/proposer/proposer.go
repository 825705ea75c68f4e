// Package proposer defines the port interface for the collaborator that
// produces and revises recommendations. Recommendation content is entirely
// the proposer's concern; the core only routes feedback to it.
package proposer

import (
	"context"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

// Proposer produces the initial recommendation for a decision request and
// revises it between resolution rounds using consolidated panel feedback.
type Proposer interface {
	ProduceInitial(ctx context.Context, req *decision.Request) (*recommendation.Recommendation, error)
	Revise(ctx context.Context, rec *recommendation.Recommendation, feedback []evaluation.Evaluation) (*recommendation.Recommendation, error)
}
