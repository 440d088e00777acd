package cachestore

import (
	"sync"

	"github.com/assetforge/forge/internal/metrics"
)

// MemoryStore is a process-local cache for tests and one-shot builds.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns the cached value for key. The returned slice is a copy.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	out := make([]byte, len(value))
	copy(out, value)
	return out, true
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	s.entries[key] = stored
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
