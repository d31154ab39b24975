package domain

import (
	"math"
	"testing"
)

func TestTradeNetPnL(t *testing.T) {
	tr := Trade{Profit: 100, Commission: -7, Swap: -3}
	if got := tr.NetPnL(); got != 90 {
		t.Errorf("NetPnL = %f, want 90", got)
	}
}

func TestTradeNetPnL_NonFiniteCosts(t *testing.T) {
	tr := Trade{Profit: 50, Commission: math.NaN(), Swap: math.Inf(-1)}
	if got := tr.NetPnL(); got != 50 {
		t.Errorf("NetPnL = %f, want 50", got)
	}
}

func TestTradeEligible(t *testing.T) {
	tests := []struct {
		name  string
		trade Trade
		want  bool
	}{
		{"closed finite", Trade{CloseTime: 1700000000, Profit: 10}, true},
		{"closed zero profit", Trade{CloseTime: 1700000000}, true},
		{"open", Trade{CloseTime: 0, Profit: 10}, false},
		{"negative close time", Trade{CloseTime: -5, Profit: 10}, false},
		{"NaN profit", Trade{CloseTime: 1700000000, Profit: math.NaN()}, false},
		{"Inf profit", Trade{CloseTime: 1700000000, Profit: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trade.Eligible(); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
