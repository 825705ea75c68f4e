package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/Consilium/internal/domain/consensus"
	"github.com/Strob0t/Consilium/internal/port/history"
)

// HistoryStore implements history.Store using PostgreSQL. Round outcomes are
// stored as JSONB and never rewritten after insert.
type HistoryStore struct {
	pool *pgxpool.Pool
}

// NewHistoryStore creates a new HistoryStore backed by the given pool.
func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

func (s *HistoryStore) Append(ctx context.Context, decisionID string, round int, out *consensus.Outcome) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO decision_rounds (decision_id, round, outcome) VALUES ($1, $2, $3)`,
		decisionID, round, data)
	if err != nil {
		return fmt.Errorf("append round %d for decision %s: %w", round, decisionID, err)
	}
	return nil
}

func (s *HistoryStore) LoadByDecision(ctx context.Context, decisionID string) ([]history.Round, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT decision_id, round, outcome, created_at
		 FROM decision_rounds WHERE decision_id = $1 ORDER BY round`, decisionID)
	if err != nil {
		return nil, fmt.Errorf("load rounds for decision %s: %w", decisionID, err)
	}
	defer rows.Close()

	var rounds []history.Round
	for rows.Next() {
		var (
			r    history.Round
			data []byte
		)
		if err := rows.Scan(&r.DecisionID, &r.Round, &data, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &r.Outcome); err != nil {
			return nil, fmt.Errorf("unmarshal round %d outcome: %w", r.Round, err)
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}
