package session

import (
	"context"
	"sync"
	"time"

	"github.com/sells-group/gta-evmap/internal/dashboard"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	sel       dashboard.Selection
	updatedAt time.Time
}

// NewMemory creates a MemoryStore. A non-positive ttl never expires sessions.
func NewMemory(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(e.updatedAt) > m.ttl
}

func (m *MemoryStore) Get(_ context.Context, id string) (dashboard.Selection, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || m.expired(e) {
		return dashboard.Selection{}, false, nil
	}
	return e.sel, true, nil
}

func (m *MemoryStore) Put(_ context.Context, id string, sel dashboard.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{sel: sel, updatedAt: m.now()}
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Migrate(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
