package session

import (
	"context"
	"sync"
	"time"

	"github.com/arcticauto/booking-gateway/internal/booking"
)

// SelectionStore is the contract handlers use to persist selection state.
type SelectionStore interface {
	Save(ctx context.Context, sessionID string, st *booking.State) error
	Load(ctx context.Context, sessionID string) (*booking.State, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process SelectionStore for development and tests,
// used when no redis address is configured. Entries expire lazily on Load.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	state     *booking.State
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory selection store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, sessionID string, st *booking.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	m.entries[sessionID] = memoryEntry{state: &cp, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*booking.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok || m.now().After(entry.expiresAt) {
		delete(m.entries, sessionID)
		return nil, ErrNotFound
	}
	cp := *entry.state
	return &cp, nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
