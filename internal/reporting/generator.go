package reporting

import (
	"context"
	"fmt"
	"time"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/idhash"
	"skillion-sdi/internal/scoring"
	"skillion-sdi/internal/storage"
)

// Generator produces reports from stored scores.
type Generator struct {
	scores  storage.ScoreStore
	history storage.ScoreHistoryStore
	now     func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. history may be nil.
func NewGenerator(scores storage.ScoreStore, history storage.ScoreHistoryStore) *Generator {
	return &Generator{
		scores:  scores,
		history: history,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report from the account's latest stored score.
// Returns storage.ErrNotFound (wrapped) if the account was never scored.
func (g *Generator) Generate(ctx context.Context, accountID string) (*Report, error) {
	rec, err := g.scores.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load score: %w", err)
	}

	r := g.newReport(rec.Result)
	r.AccountID = rec.AccountID
	r.ComputedAt = rec.ComputedAt
	r.InputHash = rec.InputHash
	r.Meta = rec.Meta

	if g.history != nil {
		records, err := g.history.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("load score history: %w", err)
		}
		r.History = historyRows(records)
	}

	return r, nil
}

// FromTrades scores trades directly, without touching storage.
func (g *Generator) FromTrades(trades []domain.Trade) *Report {
	r := g.newReport(*scoring.Calculate(trades))
	r.ComputedAt = r.GeneratedAt
	r.InputHash = idhash.ComputeTradeSetHash(trades)
	return r
}

func (g *Generator) newReport(result domain.ScoreResult) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Result:      result,
	}
	if tier, needed, ok := domain.NextTier(result.Score); ok {
		r.NextTier = tier
		r.PointsNeeded = needed
	}
	return r
}

func historyRows(records []*domain.ScoreRecord) []HistoryRow {
	rows := make([]HistoryRow, len(records))
	for i, rec := range records {
		rows[i] = HistoryRow{
			ComputedAt: rec.ComputedAt,
			Score:      rec.Result.Score,
			Tier:       rec.Result.Tier,
			Trades:     rec.Result.TotalTrades,
		}
		if i > 0 {
			rows[i].Delta = rows[i].Score - rows[i-1].Score
		}
	}
	return rows
}
