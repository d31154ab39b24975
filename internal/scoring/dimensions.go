package scoring

import (
	"math"

	"skillion-sdi/internal/domain"
)

// tradingDaysPerYear annualizes daily ratios.
const tradingDaysPerYear = 252

// Sentinels for degenerate inputs.
const (
	sortinoCeiling      = 3.0  // no losing days and positive mean
	profitFactorCeiling = 10.0 // gross loss is zero and gross profit positive
)

// Normalization curve parameters.
const (
	drawdownFloor      = 0.50 // drawdown fraction that scores 0
	consistencyCVFloor = 3.0  // coefficient of variation that scores 0
	coverageActiveFrac = 0.40 // share of calendar days that scores 1
)

// dimension is a raw statistic paired with its [0,1] normalized value.
type dimension struct {
	raw        float64
	normalized float64
}

// computeSharpe annualizes mean/stddev of daily P&L.
// Normalization maps [-1, 3] onto [0, 1].
func computeSharpe(daily []float64) dimension {
	if len(daily) < MinDailySamples {
		return dimension{}
	}

	m, sd := mean(daily), stddev(daily)
	if sd == 0 || !finite(m, sd) {
		return dimension{}
	}

	sharpe := m / sd * math.Sqrt(tradingDaysPerYear)
	if !finite(sharpe) {
		return dimension{}
	}
	return dimension{
		raw:        round2(sharpe),
		normalized: clamp((sharpe+1)/4, 0, 1),
	}
}

// computeSortino annualizes mean daily P&L over the deviation of losing days.
// Normalization maps [-1, 4] onto [0, 1].
func computeSortino(daily []float64) dimension {
	if len(daily) < MinDailySamples {
		return dimension{}
	}

	m := mean(daily)
	if !finite(m) {
		return dimension{}
	}

	var downside []float64
	for _, v := range daily {
		if v < 0 {
			downside = append(downside, v)
		}
	}
	downsideDev := 0.0
	if len(downside) > 1 {
		downsideDev = stddev(downside)
	}

	if !finite(downsideDev) {
		return dimension{}
	}
	if downsideDev == 0 {
		if m > 0 {
			return dimension{raw: sortinoCeiling, normalized: 1}
		}
		return dimension{}
	}

	sortino := m / downsideDev * math.Sqrt(tradingDaysPerYear)
	if !finite(sortino) {
		return dimension{}
	}
	return dimension{
		raw:        round2(sortino),
		normalized: clamp((sortino+1)/5, 0, 1),
	}
}

// computeMaxDrawdown walks the equity curve of chronologically ordered net
// P&L and tracks the worst (peak - equity) / peak. Points where the peak is
// not positive contribute 0. Raw is a percentage.
func computeMaxDrawdown(pnls []float64) dimension {
	equity := 0.0
	peak := 0.0
	maxDD := 0.0

	for _, p := range pnls {
		equity += p
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}

	if !finite(maxDD) {
		return dimension{}
	}
	return dimension{
		raw:        round2(maxDD * 100),
		normalized: clamp(1-maxDD/drawdownFloor, 0, 1),
	}
}

// computeWinRate is the share of trades with positive net P&L.
func computeWinRate(pnls []float64) dimension {
	if len(pnls) == 0 {
		return dimension{}
	}
	wins := 0
	for _, p := range pnls {
		if p > 0 {
			wins++
		}
	}
	rate := float64(wins) / float64(len(pnls))
	return dimension{raw: rate, normalized: clamp(rate, 0, 1)}
}

// computeConsistency scores the coefficient of variation of daily P&L.
// Lower dispersion relative to the mean scores higher; cv >= 3 scores 0.
func computeConsistency(daily []float64) dimension {
	if len(daily) < MinDailySamples {
		return dimension{}
	}

	m := mean(daily)
	if m == 0 || !finite(m) {
		return dimension{}
	}

	cv := stddev(daily) / math.Abs(m)
	if !finite(cv) {
		return dimension{}
	}
	return dimension{
		raw:        round2(cv),
		normalized: clamp(1-cv/consistencyCVFloor, 0, 1),
	}
}

// computeProfitFactor divides gross profit by gross loss (both >= 0).
// Normalization maps [0.5, 2.5] onto [0, 1].
func computeProfitFactor(grossProfit, grossLoss float64) dimension {
	var pf float64
	switch {
	case grossLoss > 0:
		pf = round2(grossProfit / grossLoss)
	case grossProfit > 0:
		pf = profitFactorCeiling
	default:
		pf = 0
	}
	if !finite(pf) {
		pf = 0
	}
	return dimension{raw: pf, normalized: clamp((pf-0.5)/2, 0, 1)}
}

// computeDataCoverage relates active trading days to the calendar span
// between the first and last close. Being active on 40% of calendar days
// scores 1. trades must be sorted by CloseTime.
func computeDataCoverage(trades []domain.Trade) dimension {
	if len(trades) < 2 {
		return dimension{}
	}

	span := trades[len(trades)-1].CloseTime - trades[0].CloseTime
	calendarDays := float64(span) / secondsPerDay
	if calendarDays <= 0 {
		return dimension{}
	}

	tradingDays := float64(countTradingDays(trades))
	coverage := round2(clamp(tradingDays/(calendarDays*coverageActiveFrac), 0, 1))
	return dimension{raw: coverage, normalized: coverage}
}
