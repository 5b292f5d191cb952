package journalapi

import (
	"context"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/query"
)

// CombinationsResult is the response of GET /journal/combinations-filter.
type CombinationsResult struct {
	Combinations []domain.CombinationRecord `json:"combinations"`
	StatsSummary *domain.StatsSummary       `json:"stats_summary,omitempty"`
}

// ExitAnalysisPoint is one chart point of GET /journal/exit-analysis-summary.
type ExitAnalysisPoint struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Trades int     `json:"trades"`
}

// ExitAnalysisResult is the response of GET /journal/exit-analysis-summary.
type ExitAnalysisResult struct {
	ChartData    []ExitAnalysisPoint `json:"chart_data"`
	SummaryStats map[string]float64  `json:"summary_stats"`
}

// VariablesAnalysis fetches per-variable aggregated statistics for the
// filter. A missing variables field decodes to an empty slice.
func (c *Client) VariablesAnalysis(ctx context.Context, f query.FilterState) ([]domain.VariableRecord, error) {
	var result struct {
		Variables []domain.VariableRecord `json:"variables"`
	}
	if err := c.get(ctx, "/journal/variables-analysis", f.Params(), &result); err != nil {
		return nil, err
	}
	return result.Variables, nil
}

// CombinationsFilter fetches joint combination statistics. combine_vars is
// always requested; the level and min-trades threshold come from the
// filter state.
func (c *Client) CombinationsFilter(ctx context.Context, f query.FilterState) (*CombinationsResult, error) {
	f.CombineVars = true
	var result CombinationsResult
	if err := c.get(ctx, "/journal/combinations-filter", f.Params(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExitAnalysisSummary fetches exit-quality chart data for the filter.
func (c *Client) ExitAnalysisSummary(ctx context.Context, f query.FilterState) (*ExitAnalysisResult, error) {
	var result ExitAnalysisResult
	if err := c.get(ctx, "/journal/exit-analysis-summary", f.Params(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SymbolAnalysis fetches per-symbol aggregated statistics for the filter.
func (c *Client) SymbolAnalysis(ctx context.Context, f query.FilterState) ([]domain.SymbolRecord, error) {
	var result []domain.SymbolRecord
	if err := c.get(ctx, "/journal/symbol-analysis", f.Params(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Trades fetches the raw trade records matching the filter. A missing
// trades field decodes to an empty slice.
func (c *Client) Trades(ctx context.Context, f query.FilterState) ([]domain.TradeRecord, error) {
	var result struct {
		Trades []domain.TradeRecord `json:"trades"`
	}
	if err := c.get(ctx, "/journal/trades", f.Params(), &result); err != nil {
		return nil, err
	}
	return result.Trades, nil
}

// AllStats fetches the flat summary metrics object for the filter.
func (c *Client) AllStats(ctx context.Context, f query.FilterState) (*domain.StatsSummary, error) {
	var result domain.StatsSummary
	if err := c.get(ctx, "/journal/stats/all", f.Params(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FixProfileData asks the backend to repair inconsistent profile data.
// Maintenance endpoint, not part of the analytics flow.
func (c *Client) FixProfileData(ctx context.Context) error {
	return c.post(ctx, "/journal/fix-profile-data", nil, nil)
}

// GetChartPreferences fetches the stored chart preference values.
func (c *Client) GetChartPreferences(ctx context.Context) (map[string]string, error) {
	var result map[string]string
	if err := c.get(ctx, "/api/chart/preferences", nil, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = map[string]string{}
	}
	return result, nil
}

// PutChartPreferences persists chart preference values.
func (c *Client) PutChartPreferences(ctx context.Context, prefs map[string]string) error {
	return c.post(ctx, "/api/chart/preferences", prefs, nil)
}
