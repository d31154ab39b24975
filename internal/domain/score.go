package domain

import "time"

// Dimension keys, stable identifiers for the seven score components.
const (
	DimensionSharpe       = "sharpe"
	DimensionSortino      = "sortino"
	DimensionMaxDrawdown  = "max_drawdown"
	DimensionWinRate      = "win_rate"
	DimensionConsistency  = "z_score_consistency"
	DimensionProfitFactor = "profit_factor"
	DimensionDataCoverage = "data_coverage"
)

// DimensionScore is one row of the score breakdown.
type DimensionScore struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Raw          float64 `json:"raw"`
	Normalized   float64 `json:"normalized"`   // 0..1
	Contribution int     `json:"contribution"` // round(normalized * weight * 1000)
}

// ScoreResult is the output of one scoring run over a trader's full history.
type ScoreResult struct {
	Score int  `json:"sdi"` // 0..1000
	Tier  Tier `json:"tier"`

	// Raw dimension values
	Sharpe            float64 `json:"sharpe"`
	Sortino           float64 `json:"sortino"`
	MaxDrawdownPct    float64 `json:"maxDrawdownPct"`
	WinRate           float64 `json:"winRate"`
	ZScoreConsistency float64 `json:"zScoreConsistency"`
	ProfitFactor      float64 `json:"profitFactor"`
	DataCoverage      float64 `json:"dataCoverage"`

	// Normalized dimension values (0..1)
	SharpeNorm       float64 `json:"sharpeNorm"`
	SortinoNorm      float64 `json:"sortinoNorm"`
	MaxDrawdownNorm  float64 `json:"maxDrawdownNorm"`
	WinRateNorm      float64 `json:"winRateNorm"`
	ConsistencyNorm  float64 `json:"consistencyNorm"`
	ProfitFactorNorm float64 `json:"profitFactorNorm"`
	DataCoverageNorm float64 `json:"dataCoverageNorm"`

	// Summary
	TotalTrades int     `json:"totalTrades"`
	TradingDays int     `json:"tradingDays"`
	NetProfit   float64 `json:"netProfit"`
	GrossProfit float64 `json:"grossProfit"`
	GrossLoss   float64 `json:"grossLoss"`
	AvgWin      float64 `json:"avgProfit"`
	AvgLoss     float64 `json:"avgLoss"`

	Breakdown []DimensionScore `json:"breakdown"`
}

// Dimension returns the breakdown row for key, or false if absent.
func (r *ScoreResult) Dimension(key string) (DimensionScore, bool) {
	for _, d := range r.Breakdown {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionScore{}, false
}

// SyncMeta describes the connector and trading account a batch came from.
type SyncMeta struct {
	Platform string
	Version  string
	Broker   string
	Login    string
	Server   string
	Currency string
	Balance  float64
}

// ScoreRecord is a persisted score for an account.
// Corresponds to the scores table (latest) and score_history (append-only).
type ScoreRecord struct {
	AccountID  string
	ComputedAt time.Time
	InputHash  string // fingerprint of the trade set that produced Result
	Result     ScoreResult
	Meta       SyncMeta
}
