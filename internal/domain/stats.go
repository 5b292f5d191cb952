package domain

// StatsSummary is the flat object of summary metrics served by
// GET /journal/stats/all and recomputed locally for snapshot reports.
//
// ProfitFactor and WinLossRatio are pointers because they are legitimately
// undefined when a trade set has no losing trades; renderers display them
// as "N/A" or an infinity marker rather than a number.
type StatsSummary struct {
	TotalTrades   int      `json:"total_trades"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	WinRate       float64  `json:"win_rate"` // 0-100
	TotalPnL      float64  `json:"total_pnl"`
	AvgWin        float64  `json:"avg_win"`
	AvgLoss       float64  `json:"avg_loss"` // <= 0
	ProfitFactor  *float64 `json:"profit_factor"`
	WinLossRatio  *float64 `json:"win_loss_ratio"`
	Expectancy    float64  `json:"expectancy"`
	SharpeRatio   float64  `json:"sharpe_ratio"`
	SortinoRatio  float64  `json:"sortino_ratio"`
	KellyPct      float64  `json:"kelly_pct"`
	MaxDrawdown   float64  `json:"max_drawdown"` // <= 0
	MaxConsLosses int      `json:"max_consecutive_losses"`
}
