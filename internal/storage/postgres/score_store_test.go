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

func createTestScoreRecord(accountID string, score int, at time.Time) *domain.ScoreRecord {
	return &domain.ScoreRecord{
		AccountID:  accountID,
		ComputedAt: at,
		InputHash:  "abc123",
		Result: domain.ScoreResult{
			Score:        score,
			Tier:         domain.TierForScore(score),
			Sharpe:       1.06,
			SharpeNorm:   0.5158,
			WinRate:      0.6,
			WinRateNorm:  0.6,
			ProfitFactor: 1.8,
			TotalTrades:  42,
			TradingDays:  12,
			NetProfit:    1234.56,
			Breakdown: []domain.DimensionScore{
				{Key: domain.DimensionSharpe, Name: "Sharpe Ratio", Weight: 0.2, Raw: 1.06, Normalized: 0.5158, Contribution: 103},
				{Key: domain.DimensionWinRate, Name: "Win Rate", Weight: 0.1, Raw: 0.6, Normalized: 0.6, Contribution: 60},
			},
		},
		Meta: testMeta,
	}
}

func TestScoreStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	accountID := createTestAccount(t, ctx, pool, "acc-001")
	store := NewScoreStore(pool)

	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, createTestScoreRecord(accountID, 640, at)))

	got, err := store.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 640, got.Result.Score)
	assert.Equal(t, domain.TierStrategist, got.Result.Tier)
	assert.True(t, at.Equal(got.ComputedAt))
	assert.Equal(t, "abc123", got.InputHash)
	assert.InDelta(t, 1234.56, got.Result.NetProfit, 0.001)
	assert.Equal(t, testMeta, got.Meta)
	require.Len(t, got.Result.Breakdown, 2)
	assert.Equal(t, 103, got.Result.Breakdown[0].Contribution)
}

func TestScoreStore_UpsertReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	accountID := createTestAccount(t, ctx, pool, "acc-001")
	store := NewScoreStore(pool)

	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, createTestScoreRecord(accountID, 640, at)))
	require.NoError(t, store.Upsert(ctx, createTestScoreRecord(accountID, 880, at.Add(time.Hour))))

	got, err := store.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 880, got.Result.Score)
	assert.Equal(t, domain.TierElite, got.Result.Tier)
}

func TestScoreStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScoreStore(pool)

	_, err := store.GetByAccount(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.Upsert(ctx, createTestScoreRecord("missing", 100, time.Now()))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
