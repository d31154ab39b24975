package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

// Upsert stores r as the account's current score, replacing any previous one.
func (s *ScoreStore) Upsert(ctx context.Context, r *domain.ScoreRecord) error {
	if r == nil || r.AccountID == "" {
		return storage.ErrInvalidInput
	}

	result, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("marshal score result: %w", err)
	}

	query := `
		INSERT INTO scores (
			account_id, sdi, tier, computed_at, input_hash, result,
			platform, version, broker, login, server, currency, balance
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (account_id) DO UPDATE SET
			sdi = EXCLUDED.sdi,
			tier = EXCLUDED.tier,
			computed_at = EXCLUDED.computed_at,
			input_hash = EXCLUDED.input_hash,
			result = EXCLUDED.result,
			platform = EXCLUDED.platform,
			version = EXCLUDED.version,
			broker = EXCLUDED.broker,
			login = EXCLUDED.login,
			server = EXCLUDED.server,
			currency = EXCLUDED.currency,
			balance = EXCLUDED.balance
	`

	m := r.Meta
	_, err = s.pool.Exec(ctx, query,
		r.AccountID, r.Result.Score, string(r.Result.Tier), r.ComputedAt, r.InputHash, result,
		m.Platform, m.Version, m.Broker, m.Login, m.Server, m.Currency, m.Balance,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// GetByAccount retrieves the current score. Returns ErrNotFound if none.
func (s *ScoreStore) GetByAccount(ctx context.Context, accountID string) (*domain.ScoreRecord, error) {
	query := `
		SELECT
			account_id, computed_at, input_hash, result,
			platform, version, broker, login, server, currency, balance
		FROM scores
		WHERE account_id = $1
	`

	var (
		r      domain.ScoreRecord
		result []byte
	)
	m := &r.Meta
	err := s.pool.QueryRow(ctx, query, accountID).Scan(
		&r.AccountID, &r.ComputedAt, &r.InputHash, &result,
		&m.Platform, &m.Version, &m.Broker, &m.Login, &m.Server, &m.Currency, &m.Balance,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get score by account: %w", err)
	}

	if err := json.Unmarshal(result, &r.Result); err != nil {
		return nil, fmt.Errorf("unmarshal score result: %w", err)
	}
	r.ComputedAt = r.ComputedAt.UTC()

	return &r, nil
}
