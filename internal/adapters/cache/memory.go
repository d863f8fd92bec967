package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory cache.
const DefaultMaxEntries = 4096

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process-local Cache.
type Memory struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	generations map[string]int64
	maxEntries  int
	now         func() time.Time
}

// NewMemory creates an in-memory cache holding at most maxEntries entries.
// PRE: none (maxEntries <= 0 selects DefaultMaxEntries)
// POST: returns an empty cache
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:     make(map[string]memoryEntry),
		generations: make(map[string]int64),
		maxEntries:  maxEntries,
		now:         time.Now,
	}
}

// Get returns a live entry.
// POST: expired entries are removed and reported as misses
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value until ttl elapses.
// When full, expired entries are swept first; if none expired the cache is reset.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
		if len(m.entries) >= m.maxEntries {
			m.entries = make(map[string]memoryEntry)
		}
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// Generation returns the current generation of resource.
func (m *Memory) Generation(_ context.Context, resource string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[resource], nil
}

// Bump invalidates every entry of resource.
// INVARIANT: generations only increase
func (m *Memory) Bump(_ context.Context, resource string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[resource]++
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
