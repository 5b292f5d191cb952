package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trading Variables Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.FilterQuery != "" {
		sb.WriteString(fmt.Sprintf("Filter: `%s`\n\n", r.FilterQuery))
	}

	// Overall stats
	sb.WriteString("## Overall\n\n")
	if r.Overall != nil {
		o := r.Overall
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", o.TotalTrades))
		sb.WriteString(fmt.Sprintf("| Wins / Losses | %d / %d |\n", o.Wins, o.Losses))
		sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", o.WinRate))
		sb.WriteString(fmt.Sprintf("| Total PnL | %.2f |\n", o.TotalPnL))
		sb.WriteString(fmt.Sprintf("| Avg Win | %.2f |\n", o.AvgWin))
		sb.WriteString(fmt.Sprintf("| Avg Loss | %.2f |\n", o.AvgLoss))
		sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatRatio(o.ProfitFactor)))
		sb.WriteString(fmt.Sprintf("| Win/Loss Ratio | %s |\n", formatRatio(o.WinLossRatio)))
		sb.WriteString(fmt.Sprintf("| Expectancy | %.2f |\n", o.Expectancy))
		sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.2f |\n", o.SharpeRatio))
		sb.WriteString(fmt.Sprintf("| Sortino Ratio | %.2f |\n", o.SortinoRatio))
		sb.WriteString(fmt.Sprintf("| Kelly %% | %.2f |\n", o.KellyPct))
		sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f |\n", o.MaxDrawdown))
		sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", o.MaxConsLosses))
	} else {
		sb.WriteString("No overall stats available.\n")
	}
	sb.WriteString("\n")

	// Variables
	sb.WriteString("## Variables\n\n")
	if len(r.Variables) > 0 {
		sb.WriteString("| Variable | Value | Trades | WinRate | PnL | AvgRR | PF | Expectancy | MaxDD |\n")
		sb.WriteString("|----------|-------|--------|---------|-----|-------|----|-----------|-------|\n")
		for _, v := range r.Variables {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.2f | %.2f | %.2f | %s | %.2f | %.2f |\n",
				v.Name, v.Value, v.Trades, v.WinRate, v.PnL, v.AvgRR,
				formatRatio(v.ProfitFactor), v.Expectancy, v.MaxDrawdown))
		}
	} else {
		sb.WriteString("No variable data available.\n")
	}
	sb.WriteString("\n")

	// Combinations
	sb.WriteString("## Combinations\n\n")
	if len(r.Combinations) > 0 {
		sb.WriteString("| Combination | Trades | WinRate | PnL | AvgRR | PF | Expectancy | MaxDD |\n")
		sb.WriteString("|-------------|--------|---------|-----|-------|----|-----------|-------|\n")
		for _, c := range r.Combinations {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %s | %.2f | %.2f |\n",
				c.Label, c.Trades, c.WinRate, c.PnL, c.AvgRR,
				formatRatio(c.ProfitFactor), c.Expectancy, c.MaxDrawdown))
		}
	} else {
		sb.WriteString("No combination data available.\n")
	}
	sb.WriteString("\n")

	// Aggregate summary
	s := r.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Profitable Combinations | %d (%.2f%%) |\n", s.ProfitableCount, s.ProfitablePct))
	sb.WriteString(fmt.Sprintf("| Unprofitable Combinations | %d |\n", s.UnprofitableCount))
	sb.WriteString(fmt.Sprintf("| Avg Expectancy | %.2f |\n", s.AvgExpectancy))
	sb.WriteString(fmt.Sprintf("| Avg Max Drawdown | %.2f |\n", s.AvgMaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Sharpe-like Ratio | %.2f |\n", s.SharpeLike))
	sb.WriteString(fmt.Sprintf("| Annualized Volatility | %.2f |\n", s.AnnualizedVolatility))
	sb.WriteString(fmt.Sprintf("| Consistency Score | %.2f |\n", s.ConsistencyScore))
	if s.Best != nil {
		sb.WriteString(fmt.Sprintf("| Best Combination | %s (%.2f) |\n", s.Best.Label, s.Best.PnL))
	}
	if s.Worst != nil {
		sb.WriteString(fmt.Sprintf("| Worst Combination | %s (%.2f) |\n", s.Worst.Label, s.Worst.PnL))
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatRatio renders a possibly-undefined ratio. Undefined means the trade
// set had no losses, shown as N/A rather than a number.
func formatRatio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
