package domain

// AnalysisSnapshot is the header row for one captured fetch+compute cycle.
// Snapshots are the only state this service persists; the journal backend
// remains the source of truth for trades.
type AnalysisSnapshot struct {
	SnapshotID       string  `json:"snapshot_id"` // deterministic hash of (captured_at, filter_query)
	CapturedAt       int64   `json:"captured_at"` // Unix ms
	FilterQuery      string  `json:"filter_query"`
	VariableCount    int     `json:"variable_count"`
	CombinationCount int     `json:"combination_count"`
	ProfitablePct    float64 `json:"profitable_pct"`
	AvgExpectancy    float64 `json:"avg_expectancy"`
	AvgMaxDrawdown   float64 `json:"avg_max_drawdown"` // <= 0
	SharpeLike       float64 `json:"sharpe_like"`
	AnnualizedVol    float64 `json:"annualized_vol"`
	BestCombination  string  `json:"best_combination"`
	WorstCombination string  `json:"worst_combination"`
}

// CombinationHistoryRow is one per-combination metric row captured at
// snapshot time, appended to the analytics store for trend queries.
type CombinationHistoryRow struct {
	SnapshotID            string   `json:"snapshot_id"`
	CapturedAt            int64    `json:"captured_at"` // Unix ms
	Combination           string   `json:"combination"`
	CombinationWithValues string   `json:"combination_with_values"`
	Trades                int      `json:"trades"`
	WinRate               float64  `json:"win_rate"`
	PnL                   float64  `json:"pnl"`
	AvgRR                 float64  `json:"avg_rr"`
	ProfitFactor          *float64 `json:"profit_factor"`
	Expectancy            float64  `json:"expectancy"`
	MaxDrawdown           float64  `json:"max_drawdown"`
}
