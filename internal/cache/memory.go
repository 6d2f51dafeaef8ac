package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process cache. Values are stored encoded, so callers that
// mutate what Get returned never change the cached copy. With zero capacity
// and zero TTL it never evicts, which only suits short-lived processes.
type Memory struct {
	mu       sync.Mutex
	items    map[string]memoryEntry
	order    []string
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory creates a cache holding at most capacity entries for at most ttl.
// Zero disables the corresponding bound.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{
		items:    make(map[string]memoryEntry),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, value any) error {
	m.mu.Lock()
	entry, ok := m.items[key]
	if ok && entry.expired(m.now()) {
		m.removeLocked(key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(entry.data, value); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[key]; exists {
		m.removeLocked(key)
	}
	// Oldest insert goes first.
	for m.capacity > 0 && len(m.order) >= m.capacity {
		m.removeLocked(m.order[0])
	}
	m.items[key] = entry
	m.order = append(m.order, key)
	return nil
}

// Len returns the number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory) removeLocked(key string) {
	delete(m.items, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
