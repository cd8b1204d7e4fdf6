// Package inmemory provides an in-memory chunk store used for tests and
// ephemeral runs.
package inmemory

import (
	"context"
	"sync"

	"github.com/openkisan/kisanq/pkg/docstore"
)

// Store implements docstore.Store backed by a map.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]docstore.Chunk
	order  []string
}

// NewStore creates an empty in-memory chunk store.
func NewStore() *Store {
	return &Store{
		chunks: make(map[string]docstore.Chunk),
	}
}

func (s *Store) Put(_ context.Context, chunks []docstore.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		if _, exists := s.chunks[c.ID]; !exists {
			s.order = append(s.order, c.ID)
		}
		s.chunks[c.ID] = c
	}
	return nil
}

func (s *Store) Get(_ context.Context, ids []string) ([]docstore.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docstore.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) List(_ context.Context) ([]docstore.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docstore.Chunk, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chunks[id])
	}
	return out, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chunks), nil
}

func (s *Store) Close() error {
	return nil
}

var _ docstore.Store = (*Store)(nil)
