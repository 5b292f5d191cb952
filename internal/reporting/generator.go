package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/journalapi"
	"trade-journal-lab/internal/query"
)

// Fetcher is the subset of the journal API the generator needs.
// *journalapi.Client satisfies this.
type Fetcher interface {
	VariablesAnalysis(ctx context.Context, f query.FilterState) ([]domain.VariableRecord, error)
	CombinationsFilter(ctx context.Context, f query.FilterState) (*journalapi.CombinationsResult, error)
	Trades(ctx context.Context, f query.FilterState) ([]domain.TradeRecord, error)
	AllStats(ctx context.Context, f query.FilterState) (*domain.StatsSummary, error)
}

// Generator produces reports from live journal data.
type Generator struct {
	fetcher Fetcher
	now     func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(fetcher Fetcher) *Generator {
	return &Generator{
		fetcher: fetcher,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate fetches variables, combinations and overall stats for the given
// filter and assembles them into a report.
func (g *Generator) Generate(ctx context.Context, f query.FilterState) (*Report, error) {
	variables, err := g.fetcher.VariablesAnalysis(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch variables: %w", err)
	}

	combos, err := g.fetcher.CombinationsFilter(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch combinations: %w", err)
	}

	overall, err := g.overallStats(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch overall stats: %w", err)
	}

	report := &Report{
		GeneratedAt:  g.now(),
		FilterQuery:  f.Encode(),
		Overall:      overall,
		Variables:    buildVariableRows(variables),
		Combinations: buildCombinationRows(combos.Combinations),
		Summary:      analytics.Summarize(analytics.FromCombinations(combos.Combinations)),
	}

	return report, nil
}

// overallStats prefers recomputing the summary block from raw trades so
// the report and the backend aggregate cannot drift apart. Backends that
// do not serve raw trades fall back to their precomputed aggregate.
func (g *Generator) overallStats(ctx context.Context, f query.FilterState) (*domain.StatsSummary, error) {
	trades, err := g.fetcher.Trades(ctx, f)
	if err == nil && len(trades) > 0 {
		stats := analytics.ComputeTradeStats(trades)
		return &stats, nil
	}
	return g.fetcher.AllStats(ctx, f)
}

func buildVariableRows(records []domain.VariableRecord) []VariableRow {
	rows := make([]VariableRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, VariableRow{
			Name:         r.Name,
			Value:        r.Value,
			Trades:       r.Trades,
			WinRate:      r.WinRate,
			PnL:          r.PnL,
			AvgRR:        r.AvgRR,
			ProfitFactor: r.ProfitFactor,
			Expectancy:   r.Expectancy,
			MaxDrawdown:  r.MaxDrawdown,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Value < rows[j].Value
	})

	return rows
}

func buildCombinationRows(records []domain.CombinationRecord) []CombinationRow {
	rows := make([]CombinationRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, CombinationRow{
			Label:        r.Label(),
			Trades:       r.Trades,
			WinRate:      r.WinRate,
			PnL:          r.PnL,
			AvgRR:        r.AvgRR,
			ProfitFactor: r.ProfitFactor,
			Expectancy:   r.Expectancy,
			MaxDrawdown:  r.MaxDrawdown,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Label < rows[j].Label
	})

	return rows
}
