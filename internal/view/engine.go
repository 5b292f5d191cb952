// Package view filters and sorts fetched analytics records for display.
// Everything here operates on in-memory slices already fetched from the
// backend; no I/O happens in this package.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"trade-journal-lab/internal/domain"
)

// Sortable columns.
const (
	ColumnVariable     = "variable"
	ColumnSymbol       = "symbol"
	ColumnTrades       = "trades"
	ColumnPnL          = "pnl"
	ColumnWinRate      = "win_rate"
	ColumnAvgRR        = "avg_rr"
	ColumnProfitFactor = "profit_factor"
	ColumnMaxDrawdown  = "max_drawdown"
	ColumnExpectancy   = "expectancy"
)

// Direction of a sort.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the current sort selection. Transitions happen only through
// Toggle: clicking the active column reverses direction, selecting a new
// column resets to descending.
type SortState struct {
	Column    string
	Direction Direction
}

// Toggle applies a column-header click to the state.
func (s *SortState) Toggle(column string) {
	if s.Column == column {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Column = column
	s.Direction = Descending
}

// CombinationFilter selects which combination records are displayed.
type CombinationFilter struct {
	// MinTrades drops records with fewer trades.
	MinTrades int
	// Include requires every pair to appear in the record's encoding.
	Include []domain.VariablePair
	// Exclude drops records containing any of the pairs.
	Exclude []domain.VariablePair
}

// FilterCombinations returns the subset of records passing the filter,
// preserving input order. The input slice is not modified.
func FilterCombinations(records []domain.CombinationRecord, f CombinationFilter) []domain.CombinationRecord {
	out := make([]domain.CombinationRecord, 0, len(records))

	for _, r := range records {
		if r.Trades < f.MinTrades {
			continue
		}
		label := r.Label()
		if !containsAll(label, f.Include) {
			continue
		}
		if containsAny(label, f.Exclude) {
			continue
		}
		out = append(out, r)
	}

	return out
}

// VariableFilter selects which single-variable records are displayed.
type VariableFilter struct {
	MinTrades int
	// NameContains is a case-insensitive substring match on the variable name.
	NameContains string
}

// FilterVariables returns the subset of records passing the filter,
// preserving input order.
func FilterVariables(records []domain.VariableRecord, f VariableFilter) []domain.VariableRecord {
	needle := strings.ToLower(f.NameContains)
	out := make([]domain.VariableRecord, 0, len(records))

	for _, r := range records {
		if r.Trades < f.MinTrades {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		out = append(out, r)
	}

	return out
}

// containsAll reports whether the encoding contains every pair.
// Matching is string containment on the "name:value" form, mirroring how
// the backend encodes combination labels.
func containsAll(label string, pairs []domain.VariablePair) bool {
	for _, p := range pairs {
		if !strings.Contains(label, p.Name+":"+p.Value) {
			return false
		}
	}
	return true
}

// containsAny reports whether the encoding contains at least one pair.
func containsAny(label string, pairs []domain.VariablePair) bool {
	for _, p := range pairs {
		if strings.Contains(label, p.Name+":"+p.Value) {
			return true
		}
	}
	return false
}

// SortCombinations returns a sorted copy of records. Lexicographic columns
// use locale collation; numeric columns sort by value with undefined values
// (nil profit factor) last regardless of direction. The sort is stable, so
// re-sorting an already sorted slice is a no-op.
func SortCombinations(records []domain.CombinationRecord, state SortState) []domain.CombinationRecord {
	out := make([]domain.CombinationRecord, len(records))
	copy(out, records)

	if state.Column == "" {
		return out
	}

	if state.Column == ColumnVariable || state.Column == ColumnSymbol {
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			cmp := c.CompareString(out[i].Label(), out[j].Label())
			if state.Direction == Ascending {
				return cmp < 0
			}
			return cmp > 0
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return numericLess(
			combinationKey(out[i], state.Column),
			combinationKey(out[j], state.Column),
			state.Direction,
		)
	})
	return out
}

// SortVariables returns a sorted copy of records using the same rules as
// SortCombinations, keyed on the variable name for lexicographic columns.
func SortVariables(records []domain.VariableRecord, state SortState) []domain.VariableRecord {
	out := make([]domain.VariableRecord, len(records))
	copy(out, records)

	if state.Column == "" {
		return out
	}

	if state.Column == ColumnVariable || state.Column == ColumnSymbol {
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			cmp := c.CompareString(out[i].Name, out[j].Name)
			if state.Direction == Ascending {
				return cmp < 0
			}
			return cmp > 0
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return numericLess(
			variableKey(out[i], state.Column),
			variableKey(out[j], state.Column),
			state.Direction,
		)
	})
	return out
}

// sortKey is a numeric sort key; ok=false means undefined.
type sortKey struct {
	value float64
	ok    bool
}

// numericLess orders defined values by direction and pushes undefined
// values to the end either way.
func numericLess(a, b sortKey, dir Direction) bool {
	if a.ok != b.ok {
		return a.ok
	}
	if !a.ok {
		return false
	}
	if dir == Ascending {
		return a.value < b.value
	}
	return a.value > b.value
}

func combinationKey(r domain.CombinationRecord, column string) sortKey {
	switch column {
	case ColumnTrades:
		return sortKey{float64(r.Trades), true}
	case ColumnPnL:
		return sortKey{r.PnL, true}
	case ColumnWinRate:
		return sortKey{r.WinRate, true}
	case ColumnAvgRR:
		return sortKey{r.AvgRR, true}
	case ColumnProfitFactor:
		if r.ProfitFactor == nil {
			return sortKey{}
		}
		return sortKey{*r.ProfitFactor, true}
	case ColumnMaxDrawdown:
		return sortKey{r.MaxDrawdown, true}
	case ColumnExpectancy:
		return sortKey{r.Expectancy, true}
	default:
		return sortKey{}
	}
}

func variableKey(r domain.VariableRecord, column string) sortKey {
	switch column {
	case ColumnTrades:
		return sortKey{float64(r.Trades), true}
	case ColumnPnL:
		return sortKey{r.PnL, true}
	case ColumnWinRate:
		return sortKey{r.WinRate, true}
	case ColumnAvgRR:
		return sortKey{r.AvgRR, true}
	case ColumnProfitFactor:
		if r.ProfitFactor == nil {
			return sortKey{}
		}
		return sortKey{*r.ProfitFactor, true}
	case ColumnMaxDrawdown:
		return sortKey{r.MaxDrawdown, true}
	case ColumnExpectancy:
		return sortKey{r.Expectancy, true}
	default:
		return sortKey{}
	}
}
