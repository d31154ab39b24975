package memory

import (
	"context"
	"sort"
	"sync"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// tradeRow is a stored trade with the connector metadata it arrived with.
type tradeRow struct {
	trade domain.Trade
	meta  domain.SyncMeta
}

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]map[int64]tradeRow // account_id -> ticket -> row
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]map[int64]tradeRow),
	}
}

// UpsertBulk inserts trades, skipping tickets already stored for the account.
// Within one batch the first occurrence of a ticket wins.
func (s *TradeStore) UpsertBulk(_ context.Context, accountID string, trades []domain.Trade, meta domain.SyncMeta) (int, error) {
	if accountID == "" {
		return 0, storage.ErrInvalidInput
	}
	if len(trades) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.data[accountID]
	if !ok {
		rows = make(map[int64]tradeRow)
		s.data[accountID] = rows
	}

	inserted := 0
	for _, t := range trades {
		if _, exists := rows[t.Ticket]; exists {
			continue
		}
		rows[t.Ticket] = tradeRow{trade: cloneTrade(t), meta: meta}
		inserted++
	}

	return inserted, nil
}

// GetByAccount retrieves all trades for an account, ordered by close_time ASC, ticket ASC.
func (s *TradeStore) GetByAccount(_ context.Context, accountID string) ([]domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[accountID]
	result := make([]domain.Trade, 0, len(rows))
	for _, r := range rows {
		result = append(result, cloneTrade(r.trade))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CloseTime != result[j].CloseTime {
			return result[i].CloseTime < result[j].CloseTime
		}
		return result[i].Ticket < result[j].Ticket
	})

	return result, nil
}

// CountByAccount returns the number of stored trades for an account.
func (s *TradeStore) CountByAccount(_ context.Context, accountID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data[accountID]), nil
}

// cloneTrade copies t including its nullable fields.
func cloneTrade(t domain.Trade) domain.Trade {
	if t.OpenTime != nil {
		v := *t.OpenTime
		t.OpenTime = &v
	}
	if t.OpenPrice != nil {
		v := *t.OpenPrice
		t.OpenPrice = &v
	}
	if t.ClosePrice != nil {
		v := *t.ClosePrice
		t.ClosePrice = &v
	}
	return t
}

var _ storage.TradeStore = (*TradeStore)(nil)
