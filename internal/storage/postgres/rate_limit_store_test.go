package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillion-sdi/internal/storage"
)

func TestRateLimitStore_Window(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRateLimitStore(pool)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Acquire(ctx, "acc-001", now, time.Minute))
	assert.ErrorIs(t, store.Acquire(ctx, "acc-001", now.Add(30*time.Second), time.Minute), storage.ErrRateLimited)
	assert.NoError(t, store.Acquire(ctx, "acc-002", now.Add(30*time.Second), time.Minute))
	assert.NoError(t, store.Acquire(ctx, "acc-001", now.Add(time.Minute), time.Minute))
}

func TestRateLimitStore_ConcurrentSingleWinner(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRateLimitStore(pool)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Acquire(ctx, "acc-001", now, time.Minute) == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
}
