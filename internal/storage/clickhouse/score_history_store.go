package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// ScoreHistoryStore implements storage.ScoreHistoryStore using ClickHouse.
// Rows are append-only; raw dimension columns are kept flat for analytics
// and the full result is stored as JSON for exact reads.
type ScoreHistoryStore struct {
	conn *Conn
}

// NewScoreHistoryStore creates a new ScoreHistoryStore.
func NewScoreHistoryStore(conn *Conn) *ScoreHistoryStore {
	return &ScoreHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreHistoryStore = (*ScoreHistoryStore)(nil)

// Insert appends a snapshot.
func (s *ScoreHistoryStore) Insert(ctx context.Context, r *domain.ScoreRecord) error {
	if r == nil || r.AccountID == "" {
		return storage.ErrInvalidInput
	}

	result, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("marshal score result: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO score_history (
			account_id, computed_at, input_hash, sdi, tier,
			sharpe, sortino, max_drawdown_pct, win_rate,
			z_score_consistency, profit_factor, data_coverage,
			total_trades, trading_days, net_profit, result,
			platform, version, broker, login, server, currency, balance
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	res, m := r.Result, r.Meta
	err = batch.Append(
		r.AccountID, r.ComputedAt, r.InputHash, uint16(res.Score), string(res.Tier),
		res.Sharpe, res.Sortino, res.MaxDrawdownPct, res.WinRate,
		res.ZScoreConsistency, res.ProfitFactor, res.DataCoverage,
		uint32(res.TotalTrades), uint32(res.TradingDays), res.NetProfit, string(result),
		m.Platform, m.Version, m.Broker, m.Login, m.Server, m.Currency, m.Balance,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves all snapshots for an account, ordered by computed_at ASC.
func (s *ScoreHistoryStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT
			account_id, computed_at, input_hash, result,
			platform, version, broker, login, server, currency, balance
		FROM score_history
		WHERE account_id = ?
		ORDER BY computed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.ScoreRecord, 0)
	for rows.Next() {
		var (
			r      domain.ScoreRecord
			result string
		)
		m := &r.Meta
		if err := rows.Scan(
			&r.AccountID, &r.ComputedAt, &r.InputHash, &result,
			&m.Platform, &m.Version, &m.Broker, &m.Login, &m.Server, &m.Currency, &m.Balance,
		); err != nil {
			return nil, fmt.Errorf("scan score history row: %w", err)
		}
		if err := json.Unmarshal([]byte(result), &r.Result); err != nil {
			return nil, fmt.Errorf("unmarshal score result: %w", err)
		}
		r.ComputedAt = r.ComputedAt.UTC()
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score history rows: %w", err)
	}

	return records, nil
}
