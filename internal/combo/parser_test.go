package combo

import (
	"testing"

	"trade-journal-lab/internal/domain"
)

func pairsEqual(a, b []domain.VariablePair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParse_AmpersandWithValues(t *testing.T) {
	got := Parse("Setup:Breakout & Session:London")
	want := []domain.VariablePair{
		{Name: "Setup", Value: "Breakout"},
		{Name: "Session", Value: "London"},
	}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_PlusWithValues(t *testing.T) {
	got := Parse("a:1+b:2")
	want := []domain.VariablePair{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2"},
	}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_BarePlus(t *testing.T) {
	got := Parse("a+b")
	want := []domain.VariablePair{
		{Name: "a", Value: ValuePresent},
		{Name: "b", Value: ValuePresent},
	}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_SinglePairWithValue(t *testing.T) {
	got := Parse("Session:London")
	want := []domain.VariablePair{{Name: "Session", Value: "London"}}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_SingleBareName(t *testing.T) {
	got := Parse("Setup")
	want := []domain.VariablePair{{Name: "Setup", Value: ValuePresent}}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_MissingValueHalf(t *testing.T) {
	got := Parse("Setup:Breakout & Session:")
	want := []domain.VariablePair{
		{Name: "Setup", Value: "Breakout"},
		{Name: "Session", Value: ValueMissing},
	}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if got := Parse(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := Parse("   "); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}

func TestParse_TrimsParts(t *testing.T) {
	got := Parse("  Setup : Breakout  &  Session : NY ")
	want := []domain.VariablePair{
		{Name: "Setup", Value: "Breakout"},
		{Name: "Session", Value: "NY"},
	}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestParse_PrecedenceAmpersandBeforePlus(t *testing.T) {
	// A label containing both " & " and "+" with colons splits on " & " first.
	got := Parse("Setup:A+B & Session:London")
	want := []domain.VariablePair{
		{Name: "Setup", Value: "A+B"},
		{Name: "Session", Value: "London"},
	}
	if !pairsEqual(got, want) {
		t.Errorf("Parse mismatch: got %v, want %v", got, want)
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"Setup:Breakout & Session:London",
		"a:1+b:2",
		"a+b",
		"OnlyOne",
	}

	for _, in := range inputs {
		first := Parse(in)
		second := Parse(Format(first))
		if !pairsEqual(first, second) {
			t.Errorf("round trip mismatch for %q: first %v, second %v", in, first, second)
		}
	}
}
