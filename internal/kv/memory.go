package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. A positive maxValueBytes makes
// Set fail with ErrQuotaExceeded for larger values.
type MemoryStore struct {
	mu            sync.RWMutex
	values        map[string][]byte
	maxValueBytes int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(maxValueBytes int) *MemoryStore {
	return &MemoryStore{
		values:        make(map[string][]byte),
		maxValueBytes: maxValueBytes,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if s.maxValueBytes > 0 && len(value) > s.maxValueBytes {
		return ErrQuotaExceeded
	}

	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
