package scoring

import (
	"sort"

	"skillion-sdi/internal/domain"
)

const secondsPerDay = 86400

// MinDailySamples is the number of distinct trading days the ratio-based
// dimensions (Sharpe, Sortino, consistency) need before they score.
const MinDailySamples = 5

// utcDay returns the UTC calendar day number of a unix timestamp.
func utcDay(unix int64) int64 {
	day := unix / secondsPerDay
	if unix%secondsPerDay < 0 {
		day--
	}
	return day
}

// dailyPnL sums net P&L per UTC close day and returns one value per
// distinct day, ordered by day ASC. trades and pnls are index-aligned.
func dailyPnL(trades []domain.Trade, pnls []float64) []float64 {
	byDay := make(map[int64]float64)
	for i, t := range trades {
		byDay[utcDay(t.CloseTime)] += pnls[i]
	}

	days := make([]int64, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	series := make([]float64, len(days))
	for i, d := range days {
		series[i] = byDay[d]
	}
	return series
}

// countTradingDays returns the number of distinct UTC days with a close.
func countTradingDays(trades []domain.Trade) int {
	seen := make(map[int64]struct{})
	for _, t := range trades {
		seen[utcDay(t.CloseTime)] = struct{}{}
	}
	return len(seen)
}
