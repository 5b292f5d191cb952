package reporting

import (
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
)

// Report is one rendered snapshot of variable and combination performance.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	FilterQuery string

	// Overall account metrics from the journal backend.
	Overall *domain.StatsSummary

	// Per-variable rows, sorted by (name, value).
	Variables []VariableRow

	// Per-combination rows, sorted by label.
	Combinations []CombinationRow

	// Aggregate view across all combinations.
	Summary analytics.Summary
}

// VariableRow is one row in the variables table.
type VariableRow struct {
	Name         string
	Value        string
	Trades       int
	WinRate      float64
	PnL          float64
	AvgRR        float64
	ProfitFactor *float64 // nil renders as N/A
	Expectancy   float64
	MaxDrawdown  float64
}

// CombinationRow is one row in the combinations table.
type CombinationRow struct {
	Label        string
	Trades       int
	WinRate      float64
	PnL          float64
	AvgRR        float64
	ProfitFactor *float64
	Expectancy   float64
	MaxDrawdown  float64
}
