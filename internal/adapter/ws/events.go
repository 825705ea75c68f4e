package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventDecisionStatus = "decision.status"
	EventRoundCompleted = "decision.round"
	EventMemberStatus   = "member.status"
)

// DecisionStatusEvent is broadcast when a decision's lifecycle status changes.
type DecisionStatusEvent struct {
	DecisionID        string  `json:"decision_id"`
	Status            string  `json:"status"`
	Level             string  `json:"level,omitempty"`
	SupportPercentage float64 `json:"support_percentage,omitempty"`
	Rounds            int     `json:"rounds,omitempty"`
	Escalated         bool    `json:"escalated,omitempty"`
	VetoedBy          string  `json:"vetoed_by,omitempty"`
}

// RoundCompletedEvent is broadcast after each consensus round.
type RoundCompletedEvent struct {
	DecisionID        string  `json:"decision_id"`
	Round             int     `json:"round"`
	Level             string  `json:"level"`
	SupportPercentage float64 `json:"support_percentage"`
	ResolutionMethod  string  `json:"resolution_method,omitempty"`
	CriticalConflicts int     `json:"critical_conflicts"`
}

// MemberStatusEvent is broadcast when a panel member is registered,
// deactivated or reactivated.
type MemberStatusEvent struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
