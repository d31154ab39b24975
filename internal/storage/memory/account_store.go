package memory

import (
	"context"
	"sync"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu      sync.RWMutex
	data    map[string]*domain.Account // keyed by account_id
	byToken map[string]string          // sync_token -> account_id
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		data:    make(map[string]*domain.Account),
		byToken: make(map[string]string),
	}
}

// Insert adds a new account. Returns ErrDuplicateKey if account_id or sync_token exists.
func (s *AccountStore) Insert(_ context.Context, a *domain.Account) error {
	if a == nil || a.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.AccountID]; exists {
		return storage.ErrDuplicateKey
	}
	if a.SyncToken != "" {
		if _, exists := s.byToken[a.SyncToken]; exists {
			return storage.ErrDuplicateKey
		}
		s.byToken[a.SyncToken] = a.AccountID
	}

	accountCopy := *a
	s.data[a.AccountID] = &accountCopy
	return nil
}

// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[accountID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	accountCopy := *a
	return &accountCopy, nil
}

// GetBySyncToken retrieves the account owning token. Returns ErrNotFound if not exists.
func (s *AccountStore) GetBySyncToken(_ context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byToken[token]
	if !exists {
		return nil, storage.ErrNotFound
	}

	accountCopy := *s.data[id]
	return &accountCopy, nil
}

// SetSyncToken replaces the account's sync token.
func (s *AccountStore) SetSyncToken(_ context.Context, accountID, token string) error {
	if token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists {
		return storage.ErrNotFound
	}
	if owner, taken := s.byToken[token]; taken && owner != accountID {
		return storage.ErrDuplicateKey
	}

	if a.SyncToken != "" {
		delete(s.byToken, a.SyncToken)
	}
	a.SyncToken = token
	s.byToken[token] = accountID
	return nil
}

var _ storage.AccountStore = (*AccountStore)(nil)
