package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/Consilium/internal/domain"
	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/panel"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// pgTextArray converts a string slice to a pgx-compatible text array.
// nil slices become empty arrays to avoid SQL NULL.
func pgTextArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- Panel members ---

const memberColumns = `id, name, role, domain_priorities, veto_rights, active, created_at, updated_at`

func scanMember(row scannable) (panel.Member, error) {
	var (
		m          panel.Member
		priorities []byte
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Role, &priorities, &m.VetoRights, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return panel.Member{}, err
	}
	if len(priorities) > 0 {
		if err := json.Unmarshal(priorities, &m.DomainPriorities); err != nil {
			return panel.Member{}, fmt.Errorf("unmarshal domain priorities: %w", err)
		}
	}
	return m, nil
}

func (s *Store) listMembers(ctx context.Context, query string) ([]panel.Member, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []panel.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) ListMembers(ctx context.Context) ([]panel.Member, error) {
	return s.listMembers(ctx,
		`SELECT `+memberColumns+` FROM panel_members ORDER BY name`)
}

func (s *Store) ListActiveMembers(ctx context.Context) ([]panel.Member, error) {
	return s.listMembers(ctx,
		`SELECT `+memberColumns+` FROM panel_members WHERE active ORDER BY name`)
}

func (s *Store) GetMember(ctx context.Context, id string) (*panel.Member, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM panel_members WHERE id = $1`, id)

	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get member %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get member %s: %w", id, err)
	}
	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, req panel.CreateRequest) (*panel.Member, error) {
	priorities, err := json.Marshal(req.DomainPriorities)
	if err != nil {
		return nil, fmt.Errorf("marshal domain priorities: %w", err)
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO panel_members (name, role, domain_priorities, veto_rights)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+memberColumns,
		req.Name, req.Role, priorities, pgTextArray(req.VetoRights))

	m, err := scanMember(row)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return &m, nil
}

func (s *Store) SetMemberActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE panel_members SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set member %s active: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set member %s active: %w", id, domain.ErrNotFound)
	}
	return nil
}

// --- Decisions ---

const decisionColumns = `id, query, request, status, rounds, escalated, veto, lead_id, participants, recommendation, consensus, created_at, updated_at`

func scanDecision(row scannable) (decision.Decision, error) {
	var (
		d                    decision.Decision
		request              []byte
		veto, rec, consensus []byte
	)
	if err := row.Scan(&d.ID, &d.Query, &request, &d.Status, &d.Rounds, &d.Escalated,
		&veto, &d.Lead, &d.Participants, &rec, &consensus, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return decision.Decision{}, err
	}
	if err := json.Unmarshal(request, &d.Request); err != nil {
		return decision.Decision{}, fmt.Errorf("unmarshal request: %w", err)
	}
	if len(veto) > 0 {
		if err := json.Unmarshal(veto, &d.Veto); err != nil {
			return decision.Decision{}, fmt.Errorf("unmarshal veto: %w", err)
		}
	}
	if len(rec) > 0 {
		if err := json.Unmarshal(rec, &d.Recommendation); err != nil {
			return decision.Decision{}, fmt.Errorf("unmarshal recommendation: %w", err)
		}
	}
	if len(consensus) > 0 {
		if err := json.Unmarshal(consensus, &d.Consensus); err != nil {
			return decision.Decision{}, fmt.Errorf("unmarshal consensus: %w", err)
		}
	}
	return d, nil
}

func (s *Store) CreateDecision(ctx context.Context, d *decision.Decision) error {
	request, err := json.Marshal(d.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO decisions (id, query, request, status, rounds, escalated, lead_id, participants, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.Query, request, d.Status, d.Rounds, d.Escalated, d.Lead,
		pgTextArray(d.Participants), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create decision %s: %w", d.ID, err)
	}
	return nil
}

func (s *Store) UpdateDecision(ctx context.Context, d *decision.Decision) error {
	var veto, rec, consensus []byte
	var err error
	if d.Veto != nil {
		if veto, err = json.Marshal(d.Veto); err != nil {
			return fmt.Errorf("marshal veto: %w", err)
		}
	}
	if d.Recommendation != nil {
		if rec, err = json.Marshal(d.Recommendation); err != nil {
			return fmt.Errorf("marshal recommendation: %w", err)
		}
	}
	if d.Consensus != nil {
		if consensus, err = json.Marshal(d.Consensus); err != nil {
			return fmt.Errorf("marshal consensus: %w", err)
		}
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE decisions
		 SET status = $2, rounds = $3, escalated = $4, veto = $5, recommendation = $6, consensus = $7, updated_at = $8
		 WHERE id = $1`,
		d.ID, d.Status, d.Rounds, d.Escalated, veto, rec, consensus, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update decision %s: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update decision %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) GetDecision(ctx context.Context, id string) (*decision.Decision, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE id = $1`, id)

	d, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get decision %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get decision %s: %w", id, err)
	}
	return &d, nil
}

func (s *Store) ListDecisions(ctx context.Context, limit int) ([]decision.Decision, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+decisionColumns+` FROM decisions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []decision.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
