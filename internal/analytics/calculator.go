// Package analytics derives summary statistics from backend-aggregated
// variable and combination records, and recomputes full trade statistics
// for snapshot reports.
package analytics

import (
	"math"

	"trade-journal-lab/internal/domain"
)

// Tunables for return-series derived metrics. Synthetic or sparse return
// series can produce statistically meaningless extremes, so derived ratios
// are bounded to a plausible display range instead of showing infinities.
const (
	// TradingDaysPerYear is the annualization constant.
	TradingDaysPerYear = 252

	// AnnualRiskFreeRate is converted to a daily rate via (1+r)^(1/252)-1.
	AnnualRiskFreeRate = 0.05

	// DailyReturnCap bounds explicit per-trade returns to ±5% to suppress
	// outlier compounding artifacts.
	DailyReturnCap = 0.05

	// SyntheticBand scales synthesized returns into a ±1% daily band.
	SyntheticBand = 0.01

	// StddevFloor is the minimum standard deviation used in ratios.
	StddevFloor = 0.005

	// RatioBound clamps the Sharpe-like ratio to [-5, 5].
	RatioBound = 5.0

	// VolatilityCeiling caps annualized volatility at 200%.
	VolatilityCeiling = 2.0
)

// Record is the calculator's neutral input shape. Both variable and
// combination records reduce to it.
type Record struct {
	Label       string
	Trades      int
	WinRate     float64 // 0-100
	PnL         float64
	Expectancy  float64
	MaxDrawdown float64
	Returns     []float64 // optional explicit per-trade return series
}

// FromCombinations adapts combination records for Summarize.
func FromCombinations(records []domain.CombinationRecord) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{
			Label:       r.Label(),
			Trades:      r.Trades,
			WinRate:     r.WinRate,
			PnL:         r.PnL,
			Expectancy:  r.Expectancy,
			MaxDrawdown: r.MaxDrawdown,
			Returns:     r.Returns,
		}
	}
	return out
}

// FromVariables adapts single-variable records for Summarize.
func FromVariables(records []domain.VariableRecord) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{
			Label:       r.Name + ":" + r.Value,
			Trades:      r.Trades,
			WinRate:     r.WinRate,
			PnL:         r.PnL,
			Expectancy:  r.Expectancy,
			MaxDrawdown: r.MaxDrawdown,
			Returns:     r.Returns,
		}
	}
	return out
}

// Summary holds the derived statistics for one displayed record set.
type Summary struct {
	Best  *Record `json:"best,omitempty"`
	Worst *Record `json:"worst,omitempty"`

	ProfitableCount   int     `json:"profitable_count"`
	UnprofitableCount int     `json:"unprofitable_count"`
	ProfitablePct     float64 `json:"profitable_pct"`

	AvgExpectancy  float64 `json:"avg_expectancy"`
	AvgMaxDrawdown float64 `json:"avg_max_drawdown"` // always <= 0

	SharpeLike           float64 `json:"sharpe_like"`    // clamped to [-5, 5]
	AnnualizedVolatility float64 `json:"annualized_vol"` // capped at 2.0
	ConsistencyScore     float64 `json:"consistency_score"`
}

// Summarize derives summary statistics from the filtered record set.
// All divisions guard zero denominators; an empty input yields the zero
// Summary. Ties for best/worst break to the first-seen record.
func Summarize(records []Record) Summary {
	n := len(records)
	if n == 0 {
		return Summary{}
	}

	var s Summary
	var sumExpectancy, sumDrawdown, sumWinRate float64

	best, worst := 0, 0
	for i, r := range records {
		if r.PnL > records[best].PnL {
			best = i
		}
		if r.PnL < records[worst].PnL {
			worst = i
		}
		if r.PnL > 0 {
			s.ProfitableCount++
		} else {
			s.UnprofitableCount++
		}
		sumExpectancy += r.Expectancy
		// Some endpoints report drawdown as a positive magnitude; coerce
		// negative so the average is always <= 0.
		sumDrawdown += -math.Abs(r.MaxDrawdown)
		sumWinRate += r.WinRate
	}

	s.Best = &records[best]
	s.Worst = &records[worst]
	s.ProfitablePct = float64(s.ProfitableCount) / float64(n) * 100
	s.AvgExpectancy = sumExpectancy / float64(n)
	s.AvgMaxDrawdown = sumDrawdown / float64(n)

	returns := dailyReturns(records)
	s.SharpeLike, s.AnnualizedVolatility = sharpeAndVolatility(returns)

	avgWinRate := sumWinRate / float64(n)
	s.ConsistencyScore = s.ProfitablePct / 100 * avgWinRate

	return s
}

// dailyReturns builds the return series used for ratio and volatility
// estimates. Records with an explicit series contribute their returns
// capped to ±DailyReturnCap. Records without one contribute a synthetic
// return from pnl/trades, scaled so the largest magnitude sits at the
// edge of the ±SyntheticBand range.
func dailyReturns(records []Record) []float64 {
	var returns []float64
	var synthetic []float64

	for _, r := range records {
		if len(r.Returns) > 0 {
			for _, v := range r.Returns {
				returns = append(returns, clamp(v, -DailyReturnCap, DailyReturnCap))
			}
			continue
		}
		if r.Trades > 0 {
			synthetic = append(synthetic, r.PnL/float64(r.Trades))
		}
	}

	maxAbs := 0.0
	for _, v := range synthetic {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	for _, v := range synthetic {
		if maxAbs > 0 {
			returns = append(returns, SyntheticBand*v/maxAbs)
		} else {
			returns = append(returns, 0)
		}
	}

	return returns
}

// sharpeAndVolatility derives the clamped Sharpe-like ratio and capped
// annualized volatility from a daily return series.
func sharpeAndVolatility(returns []float64) (ratio, volatility float64) {
	if len(returns) == 0 {
		return 0, 0
	}

	mean := computeMean(returns)
	sd := computeStddev(returns, mean)
	if sd < StddevFloor {
		sd = StddevFloor
	}

	dailyRiskFree := math.Pow(1+AnnualRiskFreeRate, 1.0/TradingDaysPerYear) - 1
	annualization := math.Sqrt(TradingDaysPerYear)

	ratio = (mean - dailyRiskFree) / sd * annualization
	ratio = clamp(ratio, -RatioBound, RatioBound)

	volatility = sd * annualization
	if volatility > VolatilityCeiling {
		volatility = VolatilityCeiling
	}

	return ratio, volatility
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
