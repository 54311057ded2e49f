// Package memstore provides an in-memory implementation of store.SnippetStore.
// This implementation is designed for fast unit testing and does not persist data.
package memstore

import (
	"sort"
	"sync"

	"github.com/yiblet/sipp/internal/store"
)

// MemoryStore is an in-memory implementation of store.SnippetStore.
// It is thread-safe via a mutex. Identities are never reused.
type MemoryStore struct {
	mu       sync.RWMutex
	snippets map[string]*store.Snippet
	nextID   int64

	// newShortID is replaceable in tests to force collisions.
	newShortID func() (string, error)
}

var _ store.SnippetStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store for testing.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snippets:   make(map[string]*store.Snippet),
		nextID:     1,
		newShortID: store.GenerateShortID,
	}
}

// Create stores a new snippet.
func (m *MemoryStore) Create(name, content string) (*store.Snippet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for attempt := 0; attempt < store.MaxShortIDAttempts; attempt++ {
		shortID, err := m.newShortID()
		if err != nil {
			return nil, err
		}
		if _, taken := m.snippets[shortID]; taken {
			continue
		}

		s := &store.Snippet{
			ID:      m.nextID,
			ShortID: shortID,
			Name:    name,
			Content: content,
		}
		m.nextID++
		m.snippets[shortID] = s

		copied := *s
		return &copied, nil
	}
	return nil, errShortIDExhausted
}

// GetByShortID retrieves a snippet.
func (m *MemoryStore) GetByShortID(shortID string) (*store.Snippet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snippets[shortID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

// List returns all snippets, newest first.
func (m *MemoryStore) List() ([]*store.Snippet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*store.Snippet, 0, len(m.snippets))
	for _, s := range m.snippets {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// DeleteByShortID removes a snippet.
func (m *MemoryStore) DeleteByShortID(shortID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snippets[shortID]; !ok {
		return false, nil
	}
	delete(m.snippets, shortID)
	return true, nil
}

// UpdateByShortID replaces a snippet's name and content.
func (m *MemoryStore) UpdateByShortID(shortID, name, content string) (*store.Snippet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.snippets[shortID]
	if !ok {
		return nil, store.ErrNotFound
	}
	s.Name = name
	s.Content = content

	copied := *s
	return &copied, nil
}

// Close releases resources (no-op for memory store).
func (m *MemoryStore) Close() error {
	return nil
}
