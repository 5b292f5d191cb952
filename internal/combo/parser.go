// Package combo decodes the textual combination encodings used by the
// journal backend. Three delimiter conventions are recognized because the
// backend serializes combinations inconsistently across endpoints:
//
//	"Setup:Breakout & Session:London"  (ampersand with values)
//	"Setup:Breakout+Session:London"    (plus with values)
//	"Setup+Session"                    (bare names, no values)
//
// Parsing is deterministic and idempotent: re-parsing a reserialized list
// yields the same pairs in the same order.
package combo

import (
	"strings"

	"trade-journal-lab/internal/domain"
)

// Fallback values for parts without an explicit value half.
const (
	ValuePresent = "Present"
	ValueMissing = "N/A"
)

// Parse decodes a combination label into ordered variable pairs.
// Empty or whitespace-only input returns nil; callers treat an empty
// parse as "no constraints". Parse never fails.
func Parse(s string) []domain.VariablePair {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	hasColon := strings.Contains(s, ":")

	switch {
	case strings.Contains(s, " & ") && hasColon:
		return splitPairs(s, " & ")
	case strings.Contains(s, "+") && hasColon:
		return splitPairs(s, "+")
	case strings.Contains(s, "+"):
		// Bare variable names, no values recorded.
		parts := strings.Split(s, "+")
		pairs := make([]domain.VariablePair, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			pairs = append(pairs, domain.VariablePair{Name: p, Value: ValuePresent})
		}
		return pairs
	case hasColon:
		// Single pair with a value.
		return splitPairs(s, " & ")
	default:
		return []domain.VariablePair{{Name: s, Value: ValuePresent}}
	}
}

// splitPairs splits on sep, then splits each part on the first ":".
// A part missing its value half yields ValueMissing.
func splitPairs(s, sep string) []domain.VariablePair {
	parts := strings.Split(s, sep)
	pairs := make([]domain.VariablePair, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, found := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		if !found || value == "" {
			value = ValueMissing
		}
		pairs = append(pairs, domain.VariablePair{Name: name, Value: value})
	}

	return pairs
}

// Format serializes pairs back into the canonical ampersand convention.
// Format(Parse(s)) re-parses to the same pair list for any recognized input.
func Format(pairs []domain.VariablePair) string {
	if len(pairs) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString(" & ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(":")
		sb.WriteString(p.Value)
	}
	return sb.String()
}
