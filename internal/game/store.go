package game

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ResultStore archives finished games. SaveResult must be idempotent per ID.
type ResultStore interface {
	SaveResult(ctx context.Context, g *Game) error
}

// MemoryStore is an in-process archive used when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]Game
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]Game)}
}

func (s *MemoryStore) SaveResult(ctx context.Context, g *Game) error {
	if g == nil {
		return errors.New("nil game")
	}
	cp := *g
	cp.MovesUCI = append([]string(nil), g.MovesUCI...)
	cp.MovesSAN = append([]string(nil), g.MovesSAN...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = cp
	return nil
}

// Get returns a copy of an archived game.
func (s *MemoryStore) Get(id string) (Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// IDs lists archived game IDs in order.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
