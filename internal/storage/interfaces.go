package storage

import (
	"context"
	"time"

	"skillion-sdi/internal/domain"
)

// AccountStore provides access to accounts storage.
type AccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey if account_id or sync_token exists.
	Insert(ctx context.Context, a *domain.Account) error

	// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetBySyncToken retrieves the account owning token. Returns ErrNotFound if not exists.
	GetBySyncToken(ctx context.Context, token string) (*domain.Account, error)

	// SetSyncToken replaces the account's sync token. Returns ErrNotFound if
	// the account does not exist, ErrDuplicateKey if another account holds token.
	SetSyncToken(ctx context.Context, accountID, token string) error
}

// TradeStore provides access to trades storage, keyed by (account_id, ticket).
type TradeStore interface {
	// UpsertBulk inserts trades for an account, skipping tickets already stored.
	// Returns the number of newly inserted trades.
	UpsertBulk(ctx context.Context, accountID string, trades []domain.Trade, meta domain.SyncMeta) (int, error)

	// GetByAccount retrieves the complete trade history of an account,
	// ordered by close_time ASC, ticket ASC.
	GetByAccount(ctx context.Context, accountID string) ([]domain.Trade, error)

	// CountByAccount returns the number of stored trades for an account.
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

// ScoreStore holds the latest score per account.
type ScoreStore interface {
	// Upsert stores r as the account's current score, replacing any previous one.
	Upsert(ctx context.Context, r *domain.ScoreRecord) error

	// GetByAccount retrieves the current score. Returns ErrNotFound if none.
	GetByAccount(ctx context.Context, accountID string) (*domain.ScoreRecord, error)
}

// ScoreHistoryStore is an append-only log of every computed score.
type ScoreHistoryStore interface {
	// Insert appends a snapshot.
	Insert(ctx context.Context, r *domain.ScoreRecord) error

	// GetByAccount retrieves all snapshots for an account, ordered by computed_at ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.ScoreRecord, error)
}

// RateLimitStore tracks the last accepted call per key.
type RateLimitStore interface {
	// Acquire records now for key if the previous accepted call is at least
	// window old (or absent). Returns ErrRateLimited otherwise.
	// Check and update are atomic.
	Acquire(ctx context.Context, key string, now time.Time, window time.Duration) error
}
