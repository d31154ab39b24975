package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// UpsertBulk inserts trades in one transaction, skipping tickets already stored.
// Returns ErrNotFound if the account does not exist.
func (s *TradeStore) UpsertBulk(ctx context.Context, accountID string, trades []domain.Trade, meta domain.SyncMeta) (int, error) {
	if accountID == "" {
		return 0, storage.ErrInvalidInput
	}
	if len(trades) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			account_id, ticket, symbol, direction, lots,
			open_time, close_time, open_price, close_price,
			profit, commission, swap,
			platform, broker, login, server, currency
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15, $16, $17
		)
		ON CONFLICT (account_id, ticket) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, t := range trades {
		batch.Queue(query,
			accountID, t.Ticket, t.Symbol, t.Direction, t.Lots,
			t.OpenTime, t.CloseTime, t.OpenPrice, t.ClosePrice,
			t.Profit, t.Commission, t.Swap,
			meta.Platform, meta.Broker, meta.Login, meta.Server, meta.Currency,
		)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range trades {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			if isForeignKeyError(err) {
				return 0, storage.ErrNotFound
			}
			return 0, fmt.Errorf("upsert trade in bulk: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return inserted, nil
}

// GetByAccount retrieves all trades for an account, ordered by close_time ASC, ticket ASC.
func (s *TradeStore) GetByAccount(ctx context.Context, accountID string) ([]domain.Trade, error) {
	query := `
		SELECT
			ticket, symbol, direction, lots,
			open_time, close_time, open_price, close_price,
			profit, commission, swap
		FROM trades
		WHERE account_id = $1
		ORDER BY close_time ASC, ticket ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get trades by account: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// CountByAccount returns the number of stored trades for an account.
func (s *TradeStore) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trades WHERE account_id = $1`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count trades by account: %w", err)
	}
	return n, nil
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]domain.Trade, error) {
	trades := make([]domain.Trade, 0)

	for rows.Next() {
		var t domain.Trade

		err := rows.Scan(
			&t.Ticket, &t.Symbol, &t.Direction, &t.Lots,
			&t.OpenTime, &t.CloseTime, &t.OpenPrice, &t.ClosePrice,
			&t.Profit, &t.Commission, &t.Swap,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
