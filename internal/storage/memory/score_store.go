package memory

import (
	"context"
	"sort"
	"sync"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoreRecord // keyed by account_id
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		data: make(map[string]*domain.ScoreRecord),
	}
}

// Upsert stores r as the account's current score.
func (s *ScoreStore) Upsert(_ context.Context, r *domain.ScoreRecord) error {
	if r == nil || r.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[r.AccountID] = cloneRecord(r)
	return nil
}

// GetByAccount retrieves the current score. Returns ErrNotFound if none.
func (s *ScoreStore) GetByAccount(_ context.Context, accountID string) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[accountID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return cloneRecord(r), nil
}

var _ storage.ScoreStore = (*ScoreStore)(nil)

// ScoreHistoryStore is an in-memory implementation of storage.ScoreHistoryStore.
type ScoreHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.ScoreRecord // keyed by account_id
}

// NewScoreHistoryStore creates a new in-memory score history store.
func NewScoreHistoryStore() *ScoreHistoryStore {
	return &ScoreHistoryStore{
		data: make(map[string][]*domain.ScoreRecord),
	}
}

// Insert appends a snapshot.
func (s *ScoreHistoryStore) Insert(_ context.Context, r *domain.ScoreRecord) error {
	if r == nil || r.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[r.AccountID] = append(s.data[r.AccountID], cloneRecord(r))
	return nil
}

// GetByAccount retrieves all snapshots for an account, ordered by computed_at ASC.
func (s *ScoreHistoryStore) GetByAccount(_ context.Context, accountID string) ([]*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.data[accountID]
	result := make([]*domain.ScoreRecord, len(records))
	for i, r := range records {
		result[i] = cloneRecord(r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ComputedAt.Before(result[j].ComputedAt)
	})

	return result, nil
}

var _ storage.ScoreHistoryStore = (*ScoreHistoryStore)(nil)

// cloneRecord deep-copies a record so callers cannot mutate stored state.
func cloneRecord(r *domain.ScoreRecord) *domain.ScoreRecord {
	recordCopy := *r
	recordCopy.Result.Breakdown = append([]domain.DimensionScore(nil), r.Result.Breakdown...)
	return &recordCopy
}
