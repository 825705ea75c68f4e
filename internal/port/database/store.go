// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/panel"
)

// Store is the port interface for database operations.
type Store interface {
	// Panel members
	ListMembers(ctx context.Context) ([]panel.Member, error)
	ListActiveMembers(ctx context.Context) ([]panel.Member, error)
	GetMember(ctx context.Context, id string) (*panel.Member, error)
	CreateMember(ctx context.Context, req panel.CreateRequest) (*panel.Member, error)
	SetMemberActive(ctx context.Context, id string, active bool) error

	// Decisions
	CreateDecision(ctx context.Context, d *decision.Decision) error
	UpdateDecision(ctx context.Context, d *decision.Decision) error
	GetDecision(ctx context.Context, id string) (*decision.Decision, error)
	ListDecisions(ctx context.Context, limit int) ([]decision.Decision, error)
}
