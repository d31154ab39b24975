package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"skillion-sdi/internal/domain"
)

// ComputeTradeSetHash computes a deterministic fingerprint of the trades that
// take part in scoring. Formula: SHA256 over "ticket|close_time|profit|commission|swap\n"
// lines of eligible trades sorted by (close_time, ticket).
// Returns hex-encoded hash (64 characters). Input order does not matter.
func ComputeTradeSetHash(trades []domain.Trade) string {
	eligible := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Eligible() {
			eligible = append(eligible, t)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].CloseTime != eligible[j].CloseTime {
			return eligible[i].CloseTime < eligible[j].CloseTime
		}
		if eligible[i].Ticket != eligible[j].Ticket {
			return eligible[i].Ticket < eligible[j].Ticket
		}
		return eligible[i].NetPnL() < eligible[j].NetPnL()
	})

	h := sha256.New()
	for _, t := range eligible {
		fmt.Fprintf(h, "%d|%d|%g|%g|%g\n", t.Ticket, t.CloseTime, t.Profit, t.Commission, t.Swap)
	}
	return hex.EncodeToString(h.Sum(nil))
}
