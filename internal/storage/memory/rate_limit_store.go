package memory

import (
	"context"
	"sync"
	"time"

	"skillion-sdi/internal/storage"
)

// RateLimitStore is an in-memory implementation of storage.RateLimitStore.
// State is lost on restart; use the postgres store when running more than
// one instance.
type RateLimitStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewRateLimitStore creates a new in-memory rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		last: make(map[string]time.Time),
	}
}

// Acquire records now for key unless the previous call is younger than window.
func (s *RateLimitStore) Acquire(_ context.Context, key string, now time.Time, window time.Duration) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.last[key]; ok && now.Sub(prev) < window {
		return storage.ErrRateLimited
	}
	s.last[key] = now
	return nil
}

var _ storage.RateLimitStore = (*RateLimitStore)(nil)
