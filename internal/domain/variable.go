package domain

// VariablePair is one parsed name/value element of a combination label.
type VariablePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariableRecord holds backend-aggregated statistics for a single variable
// value across all trades matching the active filter.
// Invariants: Trades >= 0, WinRate in [0,100].
type VariableRecord struct {
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	Trades       int       `json:"trades"`
	WinRate      float64   `json:"win_rate"` // 0-100
	PnL          float64   `json:"pnl"`
	AvgRR        float64   `json:"avg_rr"`
	ProfitFactor *float64  `json:"profit_factor"` // nil when undefined (no losses)
	Expectancy   float64   `json:"expectancy"`
	MaxDrawdown  float64   `json:"max_drawdown"`
	Returns      []float64 `json:"returns,omitempty"` // optional per-trade return series
}

// CombinationRecord holds backend-aggregated statistics for a co-occurring
// set of 2-4 variable-value pairs analyzed jointly.
//
// Combination carries the bare variable names ("Setup+Session"), while
// CombinationWithValues carries name:value pairs in one of the three
// recognized delimiter conventions. Both are decoded by the combo package.
type CombinationRecord struct {
	Combination           string    `json:"combination"`
	CombinationWithValues string    `json:"combination_with_values"`
	Trades                int       `json:"trades"`
	WinRate               float64   `json:"win_rate"` // 0-100
	PnL                   float64   `json:"pnl"`
	AvgRR                 float64   `json:"avg_rr"`
	ProfitFactor          *float64  `json:"profit_factor"`
	Expectancy            float64   `json:"expectancy"`
	MaxDrawdown           float64   `json:"max_drawdown"`
	Returns               []float64 `json:"returns,omitempty"`
}

// Label returns the most specific textual encoding available for the record.
func (c CombinationRecord) Label() string {
	if c.CombinationWithValues != "" {
		return c.CombinationWithValues
	}
	return c.Combination
}

// SymbolRecord holds backend-aggregated statistics for a single symbol.
type SymbolRecord struct {
	Symbol       string   `json:"symbol"`
	Trades       int      `json:"trades"`
	WinRate      float64  `json:"win_rate"`
	PnL          float64  `json:"pnl"`
	AvgRR        float64  `json:"avg_rr"`
	ProfitFactor *float64 `json:"profit_factor"`
}
