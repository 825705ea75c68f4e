package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Strob0t/Consilium/internal/adapter/ws"
	"github.com/Strob0t/Consilium/internal/domain/panel"
	"github.com/Strob0t/Consilium/internal/port/broadcast"
	"github.com/Strob0t/Consilium/internal/port/database"
)

// insightsWindow bounds how many recent decisions feed member insights.
const insightsWindow = 200

// PanelService manages panel membership and derives per-member insights
// from the decision history.
type PanelService struct {
	store database.Store
	hub   broadcast.Broadcaster
	log   *slog.Logger
}

func NewPanelService(store database.Store, hub broadcast.Broadcaster, log *slog.Logger) *PanelService {
	return &PanelService{store: store, hub: hub, log: log}
}

// Register validates and persists a new panel member.
func (s *PanelService) Register(ctx context.Context, req panel.CreateRequest) (*panel.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.store.CreateMember(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	s.log.Info("panel member registered",
		slog.String("member_id", m.ID),
		slog.String("name", m.Name),
		slog.String("role", m.Role))
	s.hub.BroadcastEvent(ctx, ws.EventMemberStatus, ws.MemberStatusEvent{
		MemberID: m.ID,
		Name:     m.Name,
		Role:     m.Role,
		Active:   m.Active,
	})
	return m, nil
}

// SetActive deactivates or reactivates a member. Inactive members are
// skipped by participant selection and cannot veto.
func (s *PanelService) SetActive(ctx context.Context, id string, active bool) (*panel.Member, error) {
	if err := s.store.SetMemberActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("set member active: %w", err)
	}
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	s.log.Info("panel member updated",
		slog.String("member_id", m.ID),
		slog.Bool("active", m.Active))
	s.hub.BroadcastEvent(ctx, ws.EventMemberStatus, ws.MemberStatusEvent{
		MemberID: m.ID,
		Name:     m.Name,
		Role:     m.Role,
		Active:   m.Active,
	})
	return m, nil
}

// List returns all panel members.
func (s *PanelService) List(ctx context.Context) ([]panel.Member, error) {
	return s.store.ListMembers(ctx)
}

// Get returns one panel member.
func (s *PanelService) Get(ctx context.Context, id string) (*panel.Member, error) {
	return s.store.GetMember(ctx, id)
}

// Insights summarizes a member's recent decision history: how often it
// participated, how often it led, and the average final support of the
// decisions it took part in.
func (s *PanelService) Insights(ctx context.Context, id string) (*panel.Insights, error) {
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	decisions, err := s.store.ListDecisions(ctx, insightsWindow)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	ins := &panel.Insights{MemberID: m.ID, Role: m.Role}
	var supportSum float64
	for _, d := range decisions {
		participated := false
		for _, pid := range d.Participants {
			if pid == m.ID {
				participated = true
				break
			}
		}
		if !participated {
			continue
		}
		ins.DecisionsParticipated++
		if d.Lead == m.ID {
			ins.LeadDecisions++
		}
		if d.Consensus != nil {
			supportSum += d.Consensus.SupportPercentage
		}
	}
	if ins.DecisionsParticipated > 0 {
		ins.AvgSupportPercentage = supportSum / float64(ins.DecisionsParticipated)
	}
	return ins, nil
}
