package scoring

import (
	"sort"

	"skillion-sdi/internal/domain"
)

// MinTrades is the minimum number of eligible trades for a non-zero score.
const MinTrades = 5

// eligibleTrades drops open trades and trades with a non-finite profit, and
// returns the rest as a new slice sorted by CloseTime ASC, Ticket ASC, net
// P&L ASC. The input slice is left untouched.
func eligibleTrades(trades []domain.Trade) []domain.Trade {
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Eligible() {
			out = append(out, t)
		}
	}

	// Total order so that shuffled input always yields the same sequence.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CloseTime != out[j].CloseTime {
			return out[i].CloseTime < out[j].CloseTime
		}
		if out[i].Ticket != out[j].Ticket {
			return out[i].Ticket < out[j].Ticket
		}
		return out[i].NetPnL() < out[j].NetPnL()
	})

	return out
}

// netPnLs maps trades to their net P&L, preserving order.
func netPnLs(trades []domain.Trade) []float64 {
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.NetPnL()
	}
	return pnls
}
