package reporting

import (
	"time"

	"skillion-sdi/internal/domain"
)

// Report is a human-readable view of one account's score.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	AccountID   string // empty for offline reports
	ComputedAt  time.Time
	InputHash   string
	Meta        domain.SyncMeta

	Result domain.ScoreResult

	// Progress towards the next tier; NextTier is empty at elite.
	NextTier     domain.Tier
	PointsNeeded int

	// Score history, oldest first
	History []HistoryRow
}

// HistoryRow is one past score.
type HistoryRow struct {
	ComputedAt time.Time
	Score      int
	Tier       domain.Tier
	Trades     int
	Delta      int // change against the previous row, 0 for the first
}
