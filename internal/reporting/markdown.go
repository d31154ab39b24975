package reporting

import (
	"fmt"
	"strings"
	"time"

	"skillion-sdi/internal/scoring"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	res := r.Result

	// Header
	sb.WriteString("# SDI Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.AccountID != "" {
		sb.WriteString(fmt.Sprintf("Account: %s\n\n", r.AccountID))
	}
	if r.Meta.Platform != "" || r.Meta.Broker != "" {
		sb.WriteString(fmt.Sprintf("Source: %s | %s | %s\n\n", r.Meta.Platform, r.Meta.Broker, r.Meta.Login))
	}

	// Score
	sb.WriteString("## Score\n\n")
	sb.WriteString(fmt.Sprintf("**SDI %d / 1000** | Tier: %s\n\n", res.Score, displayTier(string(res.Tier))))
	if r.NextTier != "" {
		sb.WriteString(fmt.Sprintf("%d points to %s.\n\n", r.PointsNeeded, displayTier(string(r.NextTier))))
	} else {
		sb.WriteString("Top tier reached.\n\n")
	}
	if r.InputHash != "" {
		sb.WriteString(fmt.Sprintf("Input hash: `%s`\n\n", r.InputHash))
	}

	// Summary
	sb.WriteString("## Trading Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", res.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Trading Days | %d |\n", res.TradingDays))
	sb.WriteString(fmt.Sprintf("| Net Profit | %.2f |\n", res.NetProfit))
	sb.WriteString(fmt.Sprintf("| Gross Profit | %.2f |\n", res.GrossProfit))
	sb.WriteString(fmt.Sprintf("| Gross Loss | %.2f |\n", res.GrossLoss))
	sb.WriteString(fmt.Sprintf("| Avg Win | %.2f |\n", res.AvgWin))
	sb.WriteString(fmt.Sprintf("| Avg Loss | %.2f |\n", res.AvgLoss))
	sb.WriteString("\n")

	// Breakdown
	sb.WriteString("## Breakdown\n\n")
	if res.TotalTrades < scoring.MinTrades {
		sb.WriteString(fmt.Sprintf("Fewer than %d closed trades: every dimension scores 0.\n\n", scoring.MinTrades))
	}
	sb.WriteString("| Dimension | Weight | Raw | Normalized | Points |\n")
	sb.WriteString("|-----------|--------|-----|------------|--------|\n")
	for _, d := range res.Breakdown {
		sb.WriteString(fmt.Sprintf("| %s | %.0f%% | %.4f | %.4f | %d |\n",
			d.Name, d.Weight*100, d.Raw, d.Normalized, d.Contribution))
	}
	sb.WriteString("\n")

	// History
	if len(r.History) > 0 {
		sb.WriteString("## History\n\n")
		sb.WriteString("| Computed At | SDI | Change | Tier | Trades |\n")
		sb.WriteString("|-------------|-----|--------|------|--------|\n")
		for _, h := range r.History {
			sb.WriteString(fmt.Sprintf("| %s | %d | %+d | %s | %d |\n",
				h.ComputedAt.UTC().Format(time.RFC3339), h.Score, h.Delta, h.Tier, h.Trades))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func displayTier(tier string) string {
	if tier == "" {
		return "-"
	}
	return strings.ToUpper(tier[:1]) + tier[1:]
}
