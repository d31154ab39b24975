package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

func TestAccountStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	a := &domain.Account{
		AccountID: "acc-001",
		Email:     "trader@example.com",
		SyncToken: "0123456789abcdef",
		CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, a))

	got, err := store.GetByID(ctx, "acc-001")
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, a.SyncToken, got.SyncToken)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

	byToken, err := store.GetBySyncToken(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "acc-001", byToken.AccountID)
}

func TestAccountStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	require.NoError(t, store.Insert(ctx, &domain.Account{AccountID: "acc-001", SyncToken: "tok-1234567890"}))

	err := store.Insert(ctx, &domain.Account{AccountID: "acc-001"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	err = store.Insert(ctx, &domain.Account{AccountID: "acc-002", SyncToken: "tok-1234567890"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestAccountStore_EmptyTokensDoNotCollide(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	require.NoError(t, store.Insert(ctx, &domain.Account{AccountID: "acc-001"}))
	require.NoError(t, store.Insert(ctx, &domain.Account{AccountID: "acc-002"}))

	got, err := store.GetByID(ctx, "acc-002")
	require.NoError(t, err)
	assert.Empty(t, got.SyncToken)

	_, err = store.GetBySyncToken(ctx, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountStore_SetSyncToken(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)
	createTestAccount(t, ctx, pool, "acc-001")
	createTestAccount(t, ctx, pool, "acc-002")

	require.NoError(t, store.SetSyncToken(ctx, "acc-001", "rotated-token-001"))

	_, err := store.GetBySyncToken(ctx, "token-acc-001")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := store.GetBySyncToken(ctx, "rotated-token-001")
	require.NoError(t, err)
	assert.Equal(t, "acc-001", got.AccountID)

	assert.ErrorIs(t, store.SetSyncToken(ctx, "acc-001", "token-acc-002"), storage.ErrDuplicateKey)
	assert.ErrorIs(t, store.SetSyncToken(ctx, "missing", "whatever-token-1"), storage.ErrNotFound)
}

func TestAccountStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
