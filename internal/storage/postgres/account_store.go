package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Insert adds a new account. Returns ErrDuplicateKey if account_id or sync_token exists.
func (s *AccountStore) Insert(ctx context.Context, a *domain.Account) error {
	if a == nil || a.AccountID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO accounts (account_id, email, sync_token, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, a.AccountID, a.Email, nullableToken(a.SyncToken), a.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, email, COALESCE(sync_token, ''), created_at
		FROM accounts
		WHERE account_id = $1
	`

	a, err := scanAccount(s.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetBySyncToken retrieves the account owning token. Returns ErrNotFound if not exists.
func (s *AccountStore) GetBySyncToken(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}

	query := `
		SELECT account_id, email, COALESCE(sync_token, ''), created_at
		FROM accounts
		WHERE sync_token = $1
	`

	a, err := scanAccount(s.pool.QueryRow(ctx, query, token))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by sync token: %w", err)
	}
	return a, nil
}

// SetSyncToken replaces the account's sync token.
func (s *AccountStore) SetSyncToken(ctx context.Context, accountID, token string) error {
	if token == "" {
		return storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx, `UPDATE accounts SET sync_token = $2 WHERE account_id = $1`, accountID, token)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("set sync token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// nullableToken maps an unissued token to NULL so the unique index ignores it.
func nullableToken(token string) *string {
	if token == "" {
		return nil
	}
	return &token
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.AccountID, &a.Email, &a.SyncToken, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
