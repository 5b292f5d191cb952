package query

import (
	"testing"
	"time"
)

func TestParams_EmptyStateProducesEmptyQuery(t *testing.T) {
	var f FilterState

	if got := f.Encode(); got != "" {
		t.Errorf("expected empty query string, got %q", got)
	}
}

func TestParams_SymbolsCommaJoined(t *testing.T) {
	f := FilterState{Symbols: []string{"EURUSD", "GBPUSD"}}
	v := f.Params()

	if got := v.Get("symbols"); got != "EURUSD,GBPUSD" {
		t.Errorf("symbols: got %q, want %q", got, "EURUSD,GBPUSD")
	}
	if len(v) != 1 {
		t.Errorf("expected exactly one parameter, got %v", v)
	}
}

func TestParams_EmptyArrayOmitsParameter(t *testing.T) {
	f := FilterState{Symbols: []string{}, Directions: []string{""}}
	v := f.Params()

	if _, ok := v["symbols"]; ok {
		t.Error("empty symbols array must omit the parameter")
	}
	if _, ok := v["directions"]; ok {
		t.Error("array of empty strings must omit the parameter")
	}
}

func TestParams_ExplicitZeroBoundPreserved(t *testing.T) {
	f := FilterState{MinPnL: Float(0)}
	v := f.Params()

	if got := v.Get("min_pnl"); got != "0" {
		t.Errorf("min_pnl: got %q, want %q", got, "0")
	}
}

func TestParams_UnsetBoundOmitted(t *testing.T) {
	var f FilterState
	if _, ok := f.Params()["min_pnl"]; ok {
		t.Error("nil MinPnL must omit min_pnl")
	}
}

func TestParams_DateFormatting(t *testing.T) {
	f := FilterState{
		FromDate: time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
	}
	if got := f.Params().Get("from_date"); got != "2026-03-05" {
		t.Errorf("from_date: got %q, want %q", got, "2026-03-05")
	}
}

func TestParseDate_InvalidTreatedAsUnset(t *testing.T) {
	if got := ParseDate("not-a-date"); !got.IsZero() {
		t.Errorf("expected zero time for invalid input, got %v", got)
	}
	if got := ParseDate("2026-02-10"); got.IsZero() {
		t.Error("expected valid date to parse")
	}
}

func TestParams_VariablesJSONEncoded(t *testing.T) {
	f := FilterState{
		Variables: map[string][]string{
			"Setup":   {"Breakout"},
			"Session": {"London", "NY"},
		},
	}
	got := f.Params().Get("variables")
	want := `{"Session":["London","NY"],"Setup":["Breakout"]}`
	if got != want {
		t.Errorf("variables: got %q, want %q", got, want)
	}
}

func TestParams_CombineVars(t *testing.T) {
	f := FilterState{CombineVars: true, CombinationLevel: 3, MinTrades: 5}
	v := f.Params()

	if got := v.Get("combine_vars"); got != "true" {
		t.Errorf("combine_vars: got %q", got)
	}
	if got := v.Get("combination_level"); got != "3" {
		t.Errorf("combination_level: got %q", got)
	}
	if got := v.Get("min_trades"); got != "5" {
		t.Errorf("min_trades: got %q", got)
	}
}

func TestParams_CombineVarsOmittedWhenFalse(t *testing.T) {
	f := FilterState{CombinationLevel: 3}
	v := f.Params()

	if _, ok := v["combine_vars"]; ok {
		t.Error("combine_vars must be omitted when not requested")
	}
	if _, ok := v["combination_level"]; ok {
		t.Error("combination_level must be omitted without combine_vars")
	}
}

func TestParams_CombinationLevelClamped(t *testing.T) {
	for _, tc := range []struct {
		level int
		want  string
	}{
		{0, "2"},
		{1, "2"},
		{4, "4"},
		{9, "4"},
	} {
		f := FilterState{CombineVars: true, CombinationLevel: tc.level}
		if got := f.Params().Get("combination_level"); got != tc.want {
			t.Errorf("level %d: got %q, want %q", tc.level, got, tc.want)
		}
	}
}
