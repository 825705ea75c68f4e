package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/port/cache"
	"github.com/Strob0t/Consilium/internal/port/database"
	"github.com/Strob0t/Consilium/internal/port/history"
)

// DecisionService is the read path for decisions and their round history.
// Terminal decisions are immutable, so they are served read-through from
// the cache.
type DecisionService struct {
	store   database.Store
	history history.Store
	cache   cache.Cache
	ttl     time.Duration
	log     *slog.Logger
}

func NewDecisionService(store database.Store, hist history.Store, c cache.Cache, ttl time.Duration, log *slog.Logger) *DecisionService {
	return &DecisionService{store: store, history: hist, cache: c, ttl: ttl, log: log}
}

func decisionCacheKey(id string) string { return "decision:" + id }

// Get returns one decision by ID.
func (s *DecisionService) Get(ctx context.Context, id string) (*decision.Decision, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, decisionCacheKey(id)); err == nil && ok {
			var d decision.Decision
			if err := json.Unmarshal(data, &d); err == nil {
				return &d, nil
			}
			// Corrupt entry; drop it and fall through to the store.
			_ = s.cache.Delete(ctx, decisionCacheKey(id))
		}
	}

	d, err := s.store.GetDecision(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && terminal(d.Status) {
		if data, err := json.Marshal(d); err == nil {
			if err := s.cache.Set(ctx, decisionCacheKey(id), data, s.ttl); err != nil {
				s.log.Debug("cache decision failed",
					slog.String("decision_id", id),
					slog.String("error", err.Error()))
			}
		}
	}
	return d, nil
}

// List returns the most recent decisions, newest first.
func (s *DecisionService) List(ctx context.Context, limit int) ([]decision.Decision, error) {
	return s.store.ListDecisions(ctx, limit)
}

// History returns all recorded consensus rounds for a decision in round order.
func (s *DecisionService) History(ctx context.Context, id string) ([]history.Round, error) {
	if _, err := s.store.GetDecision(ctx, id); err != nil {
		return nil, fmt.Errorf("get decision: %w", err)
	}
	return s.history.LoadByDecision(ctx, id)
}

func terminal(st decision.Status) bool {
	switch st {
	case decision.StatusAccepted, decision.StatusUnresolved, decision.StatusVetoed:
		return true
	default:
		return false
	}
}
