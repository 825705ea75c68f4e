// Package history defines the port interface for the append-only decision
// history: one consensus outcome per completed round, in round order.
package history

import (
	"context"
	"time"

	"github.com/Strob0t/Consilium/internal/domain/consensus"
)

// Round is one recorded consensus round for a decision.
type Round struct {
	DecisionID string            `json:"decision_id"`
	Round      int               `json:"round"`
	Outcome    consensus.Outcome `json:"outcome"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Store is the port interface for appending and reading back round outcomes.
type Store interface {
	// Append persists the outcome of one round. Appends are ordered by round
	// number within a decision and are never rewritten.
	Append(ctx context.Context, decisionID string, round int, out *consensus.Outcome) error

	// LoadByDecision returns all recorded rounds for the decision, ordered by
	// round number.
	LoadByDecision(ctx context.Context, decisionID string) ([]Round, error)
}
