// Package query builds the canonical query-string representation of the
// journal backend's filter contract. Parameter names and encodings must
// match the backend exactly: comma-joined lists, a JSON-encoded variables
// object, and YYYY-MM-DD dates.
package query

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// DateFormat is the wire format for date parameters.
const DateFormat = "2006-01-02"

// Combination level bounds: combinations join 2-4 variables.
const (
	MinCombinationLevel = 2
	MaxCombinationLevel = 4
)

// FilterState is the current filter selection. The zero value means
// "no filters": Params returns an empty set for it.
//
// P&L and R:R bounds are pointers so an explicit zero survives encoding;
// nil means unset. Dates are time.Time values; the zero time means unset,
// and ParseDate coerces pre-formatted strings.
type FilterState struct {
	FromDate time.Time
	ToDate   time.Time

	Symbols    []string
	Directions []string
	Strategies []string
	Setups     []string
	BatchIDs   []string
	TimeOfDay  []string
	DayOfWeek  []string

	Month string
	Year  string

	MinPnL *float64
	MaxPnL *float64
	MinRR  *float64
	MaxRR  *float64

	// Variables maps variable name to the selected values.
	Variables map[string][]string

	// CombineVars requests joint combination analysis at CombinationLevel.
	CombineVars      bool
	CombinationLevel int

	// MinTrades excludes combinations below the threshold server-side.
	MinTrades int
}

// ParseDate coerces a pre-formatted YYYY-MM-DD string into a date value.
// Invalid dates are treated as unset (zero time).
func ParseDate(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Params encodes the non-empty, non-default fields into query parameters.
// Building parameters is pure: no I/O, no failure modes. An empty array
// omits its parameter entirely rather than emitting an empty string.
func (f FilterState) Params() url.Values {
	v := url.Values{}

	if !f.FromDate.IsZero() {
		v.Set("from_date", f.FromDate.Format(DateFormat))
	}
	if !f.ToDate.IsZero() {
		v.Set("to_date", f.ToDate.Format(DateFormat))
	}

	setList(v, "symbols", f.Symbols)
	setList(v, "directions", f.Directions)
	setList(v, "strategies", f.Strategies)
	setList(v, "setups", f.Setups)
	setList(v, "batch_ids", f.BatchIDs)
	setList(v, "time_of_day", f.TimeOfDay)
	setList(v, "day_of_week", f.DayOfWeek)

	if f.Month != "" {
		v.Set("month", f.Month)
	}
	if f.Year != "" {
		v.Set("year", f.Year)
	}

	setFloat(v, "min_pnl", f.MinPnL)
	setFloat(v, "max_pnl", f.MaxPnL)
	setFloat(v, "min_rr", f.MinRR)
	setFloat(v, "max_rr", f.MaxRR)

	if len(f.Variables) > 0 {
		// json.Marshal sorts map keys, so the encoding is deterministic.
		b, err := json.Marshal(f.Variables)
		if err == nil {
			v.Set("variables", string(b))
		}
	}

	if f.CombineVars {
		v.Set("combine_vars", "true")
		v.Set("combination_level", strconv.Itoa(f.clampedLevel()))
	}
	if f.MinTrades > 0 {
		v.Set("min_trades", strconv.Itoa(f.MinTrades))
	}

	return v
}

// Encode returns the canonical query string for the filter state.
func (f FilterState) Encode() string {
	return f.Params().Encode()
}

// clampedLevel bounds the combination level to [2,4], defaulting to 2.
func (f FilterState) clampedLevel() int {
	switch {
	case f.CombinationLevel < MinCombinationLevel:
		return MinCombinationLevel
	case f.CombinationLevel > MaxCombinationLevel:
		return MaxCombinationLevel
	default:
		return f.CombinationLevel
	}
}

// setList comma-joins values into a single parameter, skipping empty
// elements. An empty list emits nothing.
func setList(v url.Values, key string, values []string) {
	joined := ""
	for _, s := range values {
		if s == "" {
			continue
		}
		if joined != "" {
			joined += ","
		}
		joined += s
	}
	if joined != "" {
		v.Set(key, joined)
	}
}

// setFloat emits the bound when set, preserving an explicit zero.
func setFloat(v url.Values, key string, f *float64) {
	if f == nil {
		return
	}
	v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
}

// Float is a convenience for building bound fields in place.
func Float(f float64) *float64 {
	return &f
}
