package heuristic

import (
	"context"
	"sync"
	"time"

	"github.com/Strob0t/Consilium/internal/port/database"
	"github.com/Strob0t/Consilium/internal/port/evaluator"
)

const lookupTimeout = 5 * time.Second

// StoreDirectory resolves evaluators against current panel membership.
// Evaluators are built lazily per member and cached; a member's disposition
// depends only on its ID, so cached entries never go stale.
type StoreDirectory struct {
	store database.Store

	mu    sync.Mutex
	cache map[string]evaluator.Evaluator
}

func NewStoreDirectory(store database.Store) *StoreDirectory {
	return &StoreDirectory{
		store: store,
		cache: make(map[string]evaluator.Evaluator),
	}
}

func (d *StoreDirectory) Lookup(memberID string) (evaluator.Evaluator, bool) {
	d.mu.Lock()
	if ev, ok := d.cache[memberID]; ok {
		d.mu.Unlock()
		return ev, true
	}
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	m, err := d.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, false
	}

	ev := NewEvaluator(*m)
	d.mu.Lock()
	d.cache[memberID] = ev
	d.mu.Unlock()
	return ev, true
}
