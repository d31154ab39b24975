package postgres

import (
	"context"
	"fmt"
	"time"

	"skillion-sdi/internal/storage"
)

// RateLimitStore implements storage.RateLimitStore using PostgreSQL.
// Shared by every server instance pointing at the same database.
type RateLimitStore struct {
	pool *Pool
}

// NewRateLimitStore creates a new RateLimitStore.
func NewRateLimitStore(pool *Pool) *RateLimitStore {
	return &RateLimitStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RateLimitStore = (*RateLimitStore)(nil)

// Acquire records now for key unless the previous accepted call is younger than window.
// The conditional upsert returns no row when the window has not elapsed.
func (s *RateLimitStore) Acquire(ctx context.Context, key string, now time.Time, window time.Duration) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO sync_rate_limits (key, last_at)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET last_at = EXCLUDED.last_at
		WHERE sync_rate_limits.last_at <= $3
		RETURNING key
	`

	var got string
	err := s.pool.QueryRow(ctx, query, key, now, now.Add(-window)).Scan(&got)
	if err != nil {
		if isNotFoundError(err) {
			return storage.ErrRateLimited
		}
		return fmt.Errorf("acquire rate limit: %w", err)
	}
	return nil
}
