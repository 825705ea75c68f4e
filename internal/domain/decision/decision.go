// Package decision defines the decision request, the veto record, and the
// persisted state of one end-to-end decision run.
package decision

import (
	"errors"
	"fmt"
	"time"

	"github.com/Strob0t/Consilium/internal/domain/consensus"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

// Status is the lifecycle state of a decision run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusRunning    Status = "running"
	StatusAccepted   Status = "accepted"
	StatusUnresolved Status = "unresolved"
	StatusVetoed     Status = "vetoed"
)

var (
	ErrQueryRequired  = errors.New("decision query is required")
	ErrNoParticipants = errors.New("no eligible panel members for this decision")
)

// Request describes what the panel is being asked to decide.
type Request struct {
	ID              string            `json:"id"`
	Query           string            `json:"query"`
	Context         map[string]string `json:"context,omitempty"`
	Constraints     []string          `json:"constraints,omitempty"`
	RequiredDomains []string          `json:"required_domains,omitempty"`
	Urgency         int               `json:"urgency"`
	Importance      int               `json:"importance"`
	Deadline        *time.Time        `json:"deadline,omitempty"`
}

// Validate checks the request before any round starts.
func (r *Request) Validate() error {
	if r.Query == "" {
		return ErrQueryRequired
	}
	if r.Urgency < 0 || r.Urgency > 5 {
		return fmt.Errorf("urgency %d is outside [0,5]", r.Urgency)
	}
	if r.Importance < 0 || r.Importance > 5 {
		return fmt.Errorf("importance %d is outside [0,5]", r.Importance)
	}
	return nil
}

// Normalize fills zero urgency/importance with the lowest meaningful value.
func (r *Request) Normalize() {
	if r.Urgency == 0 {
		r.Urgency = 1
	}
	if r.Importance == 0 {
		r.Importance = 1
	}
}

// Veto records a domain-authorized member blocking a decision. A veto always
// forces escalation; it never changes the computed consensus level.
type Veto struct {
	EvaluatorID    string   `json:"evaluator_id"`
	Role           string   `json:"role"`
	Domain         string   `json:"domain"`
	AgreementLevel float64  `json:"agreement_level"`
	Concerns       []string `json:"concerns,omitempty"`
}

// Decision is the persisted state of one orchestration run.
// Mutated only by the orchestration loop; terminal once the status leaves
// StatusRunning.
type Decision struct {
	ID             string                         `json:"id"`
	Query          string                         `json:"query"`
	Request        Request                        `json:"request"`
	Status         Status                         `json:"status"`
	Rounds         int                            `json:"rounds"`
	Escalated      bool                           `json:"escalated"`
	Veto           *Veto                          `json:"veto,omitempty"`
	Lead           string                         `json:"lead"`
	Participants   []string                       `json:"participants"`
	Recommendation *recommendation.Recommendation `json:"recommendation,omitempty"`
	Consensus      *consensus.Outcome             `json:"consensus,omitempty"`
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}
