package postgres

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/storage"
)

func createTestTrade(ticket, closeTime int64, profit float64) domain.Trade {
	return domain.Trade{
		Ticket:     ticket,
		Symbol:     "XAUUSD",
		Direction:  domain.DirectionSell,
		Lots:       0.5,
		OpenTime:   ptr(closeTime - 3600),
		CloseTime:  closeTime,
		OpenPrice:  ptr(2010.5),
		ClosePrice: ptr(2005.25),
		Profit:     profit,
		Commission: -3.5,
		Swap:       -0.4,
	}
}

var testMeta = domain.SyncMeta{
	Platform: "mt5",
	Version:  "1.2.0",
	Broker:   "Demo Broker",
	Login:    "123456",
	Server:   "Demo-Server",
	Currency: "USD",
	Balance:  10000,
}

func TestTradeStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	accountID := createTestAccount(t, ctx, pool, "acc-001")
	store := NewTradeStore(pool)

	trades := []domain.Trade{
		createTestTrade(2, 1704200000, -20),
		createTestTrade(1, 1704100000, 50),
	}
	trades[0].OpenTime = nil
	trades[0].OpenPrice = nil

	n, err := store.UpsertBulk(ctx, accountID, trades, testMeta)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].Ticket)
	assert.Equal(t, "XAUUSD", got[0].Symbol)
	assert.Equal(t, domain.DirectionSell, got[0].Direction)
	assert.InDelta(t, 50, got[0].Profit, 0.0001)
	assert.InDelta(t, -3.5, got[0].Commission, 0.0001)
	require.NotNil(t, got[0].OpenTime)
	assert.Equal(t, int64(1704096400), *got[0].OpenTime)

	assert.Equal(t, int64(2), got[1].Ticket)
	assert.Nil(t, got[1].OpenTime)
	assert.Nil(t, got[1].OpenPrice)
	require.NotNil(t, got[1].ClosePrice)
}

func TestTradeStore_UpsertSkipsExistingTickets(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	accountID := createTestAccount(t, ctx, pool, "acc-001")
	store := NewTradeStore(pool)

	_, err := store.UpsertBulk(ctx, accountID, []domain.Trade{createTestTrade(1, 1704100000, 50)}, testMeta)
	require.NoError(t, err)

	n, err := store.UpsertBulk(ctx, accountID, []domain.Trade{
		createTestTrade(1, 1704100000, 999),
		createTestTrade(2, 1704200000, 10),
	}, testMeta)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := store.CountByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := store.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.InDelta(t, 50, got[0].Profit, 0.0001)
}

func TestTradeStore_NonFiniteCostsRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	accountID := createTestAccount(t, ctx, pool, "acc-001")
	store := NewTradeStore(pool)

	tr := createTestTrade(1, 1704100000, 50)
	tr.Commission = math.NaN()
	_, err := store.UpsertBulk(ctx, accountID, []domain.Trade{tr}, testMeta)
	require.NoError(t, err)

	got, err := store.GetByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0].Commission))
	assert.InDelta(t, 49.6, got[0].NetPnL(), 0.0001)
}

func TestTradeStore_UnknownAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTradeStore(pool)

	_, err := store.UpsertBulk(ctx, "missing", []domain.Trade{createTestTrade(1, 1704100000, 50)}, testMeta)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := store.GetByAccount(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
