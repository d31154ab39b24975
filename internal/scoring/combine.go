package scoring

import (
	"math"

	"skillion-sdi/internal/domain"
)

// MaxScore is the top of the score scale.
const MaxScore = 1000

// Weight is the fixed share of one dimension in the final score.
type Weight struct {
	Key    string
	Name   string
	Weight float64
}

// Weights lists the seven dimensions in breakdown order. They sum to 1.0.
var Weights = []Weight{
	{domain.DimensionSharpe, "Sharpe Ratio", 0.20},
	{domain.DimensionSortino, "Sortino Ratio", 0.20},
	{domain.DimensionMaxDrawdown, "Max Drawdown", 0.20},
	{domain.DimensionWinRate, "Win Rate", 0.10},
	{domain.DimensionConsistency, "Z-Score Consistency", 0.15},
	{domain.DimensionProfitFactor, "Profit Factor", 0.10},
	{domain.DimensionDataCoverage, "Data Coverage", 0.05},
}

// combine applies Weights to dims (keyed by dimension key) and returns the
// final score and the breakdown rows. Each contribution is rounded on its
// own, so contributions may differ from the score by a few points.
func combine(dims map[string]dimension) (int, []domain.DimensionScore) {
	total := 0.0
	breakdown := make([]domain.DimensionScore, len(Weights))

	for i, w := range Weights {
		d := dims[w.Key]
		total += d.normalized * w.Weight
		breakdown[i] = domain.DimensionScore{
			Key:          w.Key,
			Name:         w.Name,
			Weight:       w.Weight,
			Raw:          d.raw,
			Normalized:   d.normalized,
			Contribution: int(math.Round(d.normalized * w.Weight * MaxScore)),
		}
	}

	score := int(math.Round(clamp(total, 0, 1) * MaxScore))
	return score, breakdown
}
