package refset

import (
	"context"
	"slices"
	"sync"

	"github.com/hupe1980/signmatch/model"
)

// MemoryStore is an in-memory Store implementation.
//
// It exists for tests and for standalone deployments without a remote
// backend. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]model.Entry
	order   []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]model.Entry),
	}
}

// List implements Store. Entries are returned in insertion order.
func (m *MemoryStore) List(_ context.Context) ([]model.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Entry, 0, len(m.order))
	for _, id := range m.order {
		e := m.entries[id]
		e.Features = slices.Clone(e.Features)
		out = append(out, e)
	}
	return out, nil
}

// Put implements Store. Same-ID entries are replaced in place.
func (m *MemoryStore) Put(_ context.Context, entries []model.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		e.Features = slices.Clone(e.Features)
		if _, ok := m.entries[e.ID]; !ok {
			m.order = append(m.order, e.ID)
		}
		m.entries[e.ID] = e
	}
	return nil
}
