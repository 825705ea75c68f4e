// Package messagequeue defines the message queue port and the decision
// lifecycle payloads published on it.
package messagequeue

import "context"

// Subjects for decision lifecycle messages.
const (
	SubjectDecisionRequested  = "decisions.requested"
	SubjectRoundCompleted     = "decisions.round.completed"
	SubjectDecisionAccepted   = "decisions.accepted"
	SubjectDecisionUnresolved = "decisions.unresolved"
	SubjectDecisionVetoed     = "decisions.vetoed"
	SubjectDecisionEscalated  = "decisions.escalated"
)

// Handler processes a received message. Returning an error causes the
// message to be negatively acknowledged.
type Handler func(subject string, data []byte) error

// Queue is the port interface for publish/subscribe messaging.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, handler Handler) (func(), error)
	Close() error
}

// DecisionEventPayload is the payload for decision lifecycle subjects.
type DecisionEventPayload struct {
	DecisionID        string  `json:"decision_id"`
	Query             string  `json:"query"`
	Status            string  `json:"status"`
	Round             int     `json:"round"`
	Level             string  `json:"level,omitempty"`
	SupportPercentage float64 `json:"support_percentage,omitempty"`
	Escalated         bool    `json:"escalated,omitempty"`
	VetoedBy          string  `json:"vetoed_by,omitempty"`
}
