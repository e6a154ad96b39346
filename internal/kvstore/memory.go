package kvstore

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory KeyValueStore, used in tests and as a
// zero-dependency backend for local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
	}
}

// Get returns the stored value and whether the key exists.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Set stores the value under key, overwriting any previous value.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.records[key] = cp
	return nil
}

// ListKeysWithPrefix returns all keys starting with prefix.
func (s *MemoryStore) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.records {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
