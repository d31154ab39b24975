package domain

import "math"

// Trade represents one closed position reported by a trading-platform connector.
// Only CloseTime, Profit, Commission and Swap take part in scoring; the rest is
// carried for storage and display.
type Trade struct {
	Ticket    int64   // platform ticket, unique per account
	Symbol    string  // instrument
	Direction string  // "buy" | "sell"
	Lots      float64 // position size

	OpenTime   *int64   // unix seconds (nullable)
	CloseTime  int64    // unix seconds, 0 if still open
	OpenPrice  *float64 // nullable
	ClosePrice *float64 // nullable

	Profit     float64 // gross trade result
	Commission float64 // broker commission (usually negative)
	Swap       float64 // financing cost
}

// Direction constants
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)

// NetPnL returns profit + commission + swap.
// A non-finite commission or swap counts as 0.
func (t Trade) NetPnL() float64 {
	return t.Profit + finiteOrZero(t.Commission) + finiteOrZero(t.Swap)
}

// Eligible reports whether the trade is closed and carries a finite profit.
func (t Trade) Eligible() bool {
	return t.CloseTime > 0 && !math.IsNaN(t.Profit) && !math.IsInf(t.Profit, 0)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
