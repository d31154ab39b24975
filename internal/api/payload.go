package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"skillion-sdi/internal/domain"
)

// looseString accepts a JSON string or number. Connectors disagree on
// whether account logins are numeric.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = looseString(n.String())
	return nil
}

// tradePayload is one trade as sent by a connector.
type tradePayload struct {
	Ticket     int64    `json:"ticket"`
	Symbol     string   `json:"symbol"`
	Type       string   `json:"type"`
	Lots       float64  `json:"lots"`
	OpenTime   *int64   `json:"openTime"`
	CloseTime  *int64   `json:"closeTime"`
	OpenPrice  *float64 `json:"openPrice"`
	ClosePrice *float64 `json:"closePrice"`
	Profit     float64  `json:"profit"`
	Commission float64  `json:"commission"`
	Swap       float64  `json:"swap"`
}

// syncPayload is the body of POST /api/v1/sync.
type syncPayload struct {
	Platform   string         `json:"platform"`
	Version    string         `json:"version"`
	Broker     string         `json:"broker"`
	Login      looseString    `json:"login"`
	Server     string         `json:"server"`
	Currency   string         `json:"currency"`
	Balance    float64        `json:"balance"`
	TradeCount int            `json:"tradeCount"`
	Trades     []tradePayload `json:"trades"`
}

// scorePayload is the body of POST /api/v1/score.
type scorePayload struct {
	Trades []tradePayload `json:"trades"`
}

// toDomain applies connector defaults: unknown symbol, buy side, and an
// absent close time meaning the position is still open.
func (p tradePayload) toDomain() domain.Trade {
	t := domain.Trade{
		Ticket:     p.Ticket,
		Symbol:     p.Symbol,
		Direction:  p.Type,
		Lots:       p.Lots,
		OpenTime:   positive(p.OpenTime),
		OpenPrice:  p.OpenPrice,
		ClosePrice: p.ClosePrice,
		Profit:     p.Profit,
		Commission: p.Commission,
		Swap:       p.Swap,
	}
	if t.Symbol == "" {
		t.Symbol = "UNKNOWN"
	}
	if t.Direction == "" {
		t.Direction = domain.DirectionBuy
	}
	if p.CloseTime != nil && *p.CloseTime > 0 {
		t.CloseTime = *p.CloseTime
	}
	return t
}

func positive(v *int64) *int64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func toDomainTrades(in []tradePayload) []domain.Trade {
	out := make([]domain.Trade, len(in))
	for i, p := range in {
		out[i] = p.toDomain()
	}
	return out
}

// DecodeTrades reads connector trades from r. It accepts a bare JSON array
// of trades or an object with a "trades" field, as sent to /api/v1/sync.
func DecodeTrades(r io.Reader) ([]domain.Trade, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}
	data = bytes.TrimSpace(data)

	var payloads []tradePayload
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &payloads)
	} else {
		var body scorePayload
		err = json.Unmarshal(data, &body)
		payloads = body.Trades
	}
	if err != nil {
		return nil, fmt.Errorf("decode trades: %w", err)
	}
	return toDomainTrades(payloads), nil
}

// meta builds SyncMeta; the platform header wins over the body field.
func (p syncPayload) meta(headerPlatform string) domain.SyncMeta {
	platform := headerPlatform
	if platform == "" {
		platform = p.Platform
	}
	balance := p.Balance
	if math.IsNaN(balance) || math.IsInf(balance, 0) {
		balance = 0
	}
	return domain.SyncMeta{
		Platform: platform,
		Version:  p.Version,
		Broker:   p.Broker,
		Login:    string(p.Login),
		Server:   p.Server,
		Currency: p.Currency,
		Balance:  balance,
	}
}

// syncResponse is returned to connectors.
type syncResponse struct {
	Success bool   `json:"success"`
	SDI     int    `json:"sdi"`
	Tier    string `json:"tier,omitempty"`
	Trades  int    `json:"trades"`
	New     int    `json:"new"`
	Message string `json:"message"`
}

// nextTier describes progress towards the next tier.
type nextTier struct {
	Tier         domain.Tier `json:"tier"`
	PointsNeeded int         `json:"pointsNeeded"`
}

// scoreResponse is returned by GET /api/v1/score/{accountID}.
type scoreResponse struct {
	AccountID  string             `json:"accountId"`
	ComputedAt string             `json:"computedAt"`
	InputHash  string             `json:"inputHash"`
	Platform   string             `json:"platform,omitempty"`
	Broker     string             `json:"broker,omitempty"`
	Result     domain.ScoreResult `json:"result"`
	Next       *nextTier          `json:"next,omitempty"`
}

// historyPoint is one entry of GET /api/v1/score/{accountID}/history.
type historyPoint struct {
	ComputedAt string      `json:"computedAt"`
	SDI        int         `json:"sdi"`
	Tier       domain.Tier `json:"tier"`
	Trades     int         `json:"trades"`
}

func newScoreResponse(r *domain.ScoreRecord) scoreResponse {
	resp := scoreResponse{
		AccountID:  r.AccountID,
		ComputedAt: formatTime(r),
		InputHash:  r.InputHash,
		Platform:   r.Meta.Platform,
		Broker:     r.Meta.Broker,
		Result:     r.Result,
	}
	if tier, needed, ok := domain.NextTier(r.Result.Score); ok {
		resp.Next = &nextTier{Tier: tier, PointsNeeded: needed}
	}
	return resp
}

func formatTime(r *domain.ScoreRecord) string {
	return r.ComputedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
