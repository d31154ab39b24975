package accountsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// Tokens issues and rotates per-account sync tokens.
type Tokens struct {
	accounts storage.AccountStore
	newID    func() string
	now      func() time.Time
}

// NewTokens creates a Tokens issuer backed by accounts.
func NewTokens(accounts storage.AccountStore) *Tokens {
	return &Tokens{
		accounts: accounts,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Register creates an account for email with a fresh sync token.
func (t *Tokens) Register(ctx context.Context, email string) (*domain.Account, error) {
	a := &domain.Account{
		AccountID: t.newID(),
		Email:     email,
		SyncToken: t.newID(),
		CreatedAt: t.now().UTC(),
	}
	if err := t.accounts.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	return a, nil
}

// GetOrCreate returns the account's token, issuing one if none exists.
func (t *Tokens) GetOrCreate(ctx context.Context, accountID string) (string, error) {
	a, err := t.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}
	if a.SyncToken != "" {
		return a.SyncToken, nil
	}
	return t.Rotate(ctx, accountID)
}

// Rotate issues a new token, revoking the previous one.
func (t *Tokens) Rotate(ctx context.Context, accountID string) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		token := t.newID()
		err := t.accounts.SetSyncToken(ctx, accountID, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, storage.ErrDuplicateKey) {
			return "", fmt.Errorf("set sync token: %w", err)
		}
	}
	return "", fmt.Errorf("set sync token: %w", storage.ErrDuplicateKey)
}
