// Package panel defines panel membership: who can evaluate decisions, with
// what domain priorities, and where veto authority applies.
package panel

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNameRequired = errors.New("member name is required")
	ErrRoleRequired = errors.New("member role is required")
)

// Member is a registered panel participant.
type Member struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Role             string         `json:"role"`
	DomainPriorities map[string]int `json:"domain_priorities,omitempty"`
	VetoRights       []string       `json:"veto_rights,omitempty"`
	Active           bool           `json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// PriorityFor returns the member's highest priority across the given domains.
// An empty domain list means every member is relevant at full priority.
func (m *Member) PriorityFor(domains []string) int {
	if len(domains) == 0 {
		return MaxPriority
	}
	best := 0
	for _, d := range domains {
		if p, ok := m.DomainPriorities[d]; ok && p > best {
			best = p
		}
	}
	return best
}

// HasVetoIn reports whether the member holds veto authority in the domain.
func (m *Member) HasVetoIn(domain string) bool {
	for _, d := range m.VetoRights {
		if d == domain {
			return true
		}
	}
	return false
}

// MaxPriority is the top of the 1..5 domain priority scale.
const MaxPriority = 5

// CreateRequest holds the fields for registering a new panel member.
type CreateRequest struct {
	Name             string         `json:"name"`
	Role             string         `json:"role"`
	DomainPriorities map[string]int `json:"domain_priorities,omitempty"`
	VetoRights       []string       `json:"veto_rights,omitempty"`
}

// Validate checks the create request for correctness.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if r.Role == "" {
		return ErrRoleRequired
	}
	for d, p := range r.DomainPriorities {
		if p < 1 || p > MaxPriority {
			return fmt.Errorf("domain %q priority %d is outside [1,%d]", d, p, MaxPriority)
		}
	}
	return nil
}

// Insights summarizes a member's decision history.
type Insights struct {
	MemberID              string  `json:"member_id"`
	Role                  string  `json:"role"`
	DecisionsParticipated int     `json:"decisions_participated"`
	LeadDecisions         int     `json:"lead_decisions"`
	AvgSupportPercentage  float64 `json:"avg_support_percentage"`
}
