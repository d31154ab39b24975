package scoring

import (
	"math"

	"github.com/shopspring/decimal"
)

// summary holds money aggregates over net P&L.
type summary struct {
	netProfit   decimal.Decimal
	grossProfit decimal.Decimal // sum of positive net P&L
	grossLoss   decimal.Decimal // |sum of negative net P&L|
	avgWin      decimal.Decimal
	avgLoss     decimal.Decimal // negative or zero
}

// summarize aggregates pnls in decimal arithmetic so totals do not carry
// float drift into stored and displayed values.
func summarize(pnls []float64) summary {
	var s summary
	sumWins := decimal.Zero
	sumLosses := decimal.Zero
	wins, losses := 0, 0

	for _, p := range pnls {
		if math.IsInf(p, 0) || math.IsNaN(p) {
			continue
		}
		d := decimal.NewFromFloat(p)
		s.netProfit = s.netProfit.Add(d)
		switch {
		case d.IsPositive():
			sumWins = sumWins.Add(d)
			wins++
		case d.IsNegative():
			sumLosses = sumLosses.Add(d)
			losses++
		}
	}

	s.grossProfit = sumWins
	s.grossLoss = sumLosses.Abs()
	if wins > 0 {
		s.avgWin = sumWins.Div(decimal.NewFromInt(int64(wins)))
	}
	if losses > 0 {
		s.avgLoss = sumLosses.Div(decimal.NewFromInt(int64(losses)))
	}
	return s
}

// cents rounds a decimal to 2 places and converts it to float64,
// saturating at ±MaxFloat64.
func cents(d decimal.Decimal) float64 {
	f := d.Round(2).InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}
