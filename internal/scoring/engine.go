package scoring

import "skillion-sdi/internal/domain"

// Calculate scores a trader's complete closed-trade history.
//
// Ineligible trades (open, or non-finite profit) are dropped silently. With
// fewer than MinTrades eligible trades the zero result is returned, carrying
// the eligible count. Input order does not matter.
func Calculate(trades []domain.Trade) *domain.ScoreResult {
	closed := eligibleTrades(trades)
	if len(closed) < MinTrades {
		return zeroResult(len(closed))
	}

	pnls := netPnLs(closed)
	daily := dailyPnL(closed, pnls)
	sum := summarize(pnls)

	dims := map[string]dimension{
		domain.DimensionSharpe:       computeSharpe(daily),
		domain.DimensionSortino:      computeSortino(daily),
		domain.DimensionMaxDrawdown:  computeMaxDrawdown(pnls),
		domain.DimensionWinRate:      computeWinRate(pnls),
		domain.DimensionConsistency:  computeConsistency(daily),
		domain.DimensionProfitFactor: computeProfitFactor(sum.grossProfit.InexactFloat64(), sum.grossLoss.InexactFloat64()),
		domain.DimensionDataCoverage: computeDataCoverage(closed),
	}

	score, breakdown := combine(dims)

	return &domain.ScoreResult{
		Score: score,
		Tier:  domain.TierForScore(score),

		Sharpe:            dims[domain.DimensionSharpe].raw,
		Sortino:           dims[domain.DimensionSortino].raw,
		MaxDrawdownPct:    dims[domain.DimensionMaxDrawdown].raw,
		WinRate:           dims[domain.DimensionWinRate].raw,
		ZScoreConsistency: dims[domain.DimensionConsistency].raw,
		ProfitFactor:      dims[domain.DimensionProfitFactor].raw,
		DataCoverage:      dims[domain.DimensionDataCoverage].raw,

		SharpeNorm:       dims[domain.DimensionSharpe].normalized,
		SortinoNorm:      dims[domain.DimensionSortino].normalized,
		MaxDrawdownNorm:  dims[domain.DimensionMaxDrawdown].normalized,
		WinRateNorm:      dims[domain.DimensionWinRate].normalized,
		ConsistencyNorm:  dims[domain.DimensionConsistency].normalized,
		ProfitFactorNorm: dims[domain.DimensionProfitFactor].normalized,
		DataCoverageNorm: dims[domain.DimensionDataCoverage].normalized,

		TotalTrades: len(closed),
		TradingDays: countTradingDays(closed),
		NetProfit:   cents(sum.netProfit),
		GrossProfit: cents(sum.grossProfit),
		GrossLoss:   cents(sum.grossLoss),
		AvgWin:      cents(sum.avgWin),
		AvgLoss:     cents(sum.avgLoss),

		Breakdown: breakdown,
	}
}

// zeroResult is returned when there is too little data to score.
// The breakdown still lists every dimension, all at zero.
func zeroResult(eligible int) *domain.ScoreResult {
	_, breakdown := combine(nil)
	return &domain.ScoreResult{
		Score:       0,
		Tier:        domain.TierExplorer,
		TotalTrades: eligible,
		Breakdown:   breakdown,
	}
}
