package analytics

import (
	"math"
	"sort"

	"trade-journal-lab/internal/domain"
)

// ComputeTradeStats recomputes the flat summary metrics from raw trades,
// mirroring the shape of GET /journal/stats/all for snapshot reports.
// Open trades are excluded. Trades are sorted by close time, then ID,
// before computing order-dependent metrics (max drawdown, loss streak).
func ComputeTradeStats(trades []domain.TradeRecord) domain.StatsSummary {
	closed := make([]domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if !t.Open {
			closed = append(closed, t)
		}
	}

	n := len(closed)
	if n == 0 {
		return domain.StatsSummary{}
	}

	sort.Slice(closed, func(i, j int) bool {
		if closed[i].ClosedAt != closed[j].ClosedAt {
			return closed[i].ClosedAt < closed[j].ClosedAt
		}
		return closed[i].ID < closed[j].ID
	})

	var s domain.StatsSummary
	s.TotalTrades = n

	var grossProfit, grossLoss float64
	pnls := make([]float64, n)
	for i, t := range closed {
		pnls[i] = t.PnL
		s.TotalPnL += t.PnL
		if t.PnL > 0 {
			s.Wins++
			grossProfit += t.PnL
		} else {
			s.Losses++
			grossLoss += -t.PnL
		}
	}

	winRate := float64(s.Wins) / float64(n)
	s.WinRate = winRate * 100

	if s.Wins > 0 {
		s.AvgWin = grossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = -grossLoss / float64(s.Losses)
	}

	// Profit factor and win/loss ratio are undefined with zero losses;
	// renderers show a sentinel rather than a number.
	if grossLoss > 0 {
		pf := grossProfit / grossLoss
		s.ProfitFactor = &pf
	}
	if s.AvgLoss < 0 {
		ratio := s.AvgWin / -s.AvgLoss
		s.WinLossRatio = &ratio
	}

	// Expectancy: win-rate-weighted mean P&L per trade. AvgLoss is
	// already negative.
	s.Expectancy = s.AvgWin*winRate + s.AvgLoss*(1-winRate)

	s.KellyPct = kellyPct(winRate, s.WinLossRatio)
	s.SharpeRatio = sharpeRatio(pnls)
	s.SortinoRatio = sortinoRatio(pnls)
	s.MaxDrawdown = -computeMaxDrawdown(pnls)
	s.MaxConsLosses = maxConsecutiveLosses(pnls)

	return s
}

// kellyPct is the theoretically optimal capital fraction per trade,
// W - (1-W)/R, as a percentage. As R grows without bound (no losses) the
// formula degenerates to W.
func kellyPct(winRate float64, winLossRatio *float64) float64 {
	if winLossRatio == nil {
		return winRate * 100
	}
	if *winLossRatio == 0 {
		return 0
	}
	return (winRate - (1-winRate) / *winLossRatio) * 100
}

// sharpeRatio annualizes mean/stddev of normalized per-trade returns.
// Returns 0 when volatility is zero.
func sharpeRatio(pnls []float64) float64 {
	returns := normalizeReturns(pnls)
	mean := computeMean(returns)
	sd := computeStddev(returns, mean)
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(TradingDaysPerYear)
}

// sortinoRatio is like sharpeRatio but penalizes only downside deviation.
// Returns 0 when there is no downside.
func sortinoRatio(pnls []float64) float64 {
	returns := normalizeReturns(pnls)
	mean := computeMean(returns)

	var sumSq float64
	downside := 0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			downside++
		}
	}
	if downside == 0 {
		return 0
	}
	dd := math.Sqrt(sumSq / float64(len(returns)))
	if dd == 0 {
		return 0
	}
	return mean / dd * math.Sqrt(TradingDaysPerYear)
}

// normalizeReturns scales P&L values by their mean absolute magnitude so
// ratio metrics are unit-free regardless of account size.
func normalizeReturns(pnls []float64) []float64 {
	var sumAbs float64
	for _, p := range pnls {
		sumAbs += math.Abs(p)
	}
	if sumAbs == 0 {
		return make([]float64, len(pnls))
	}
	meanAbs := sumAbs / float64(len(pnls))

	out := make([]float64, len(pnls))
	for i, p := range pnls {
		out[i] = p / meanAbs
	}
	return out
}

// computeMean is the arithmetic mean; 0 for an empty series.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev is the sample standard deviation (n-1 denominator);
// 0 for fewer than 2 samples.
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computeMaxDrawdown is the worst peak-to-trough decline of cumulative
// P&L, returned as a positive magnitude. Values must be in chronological
// order.
func computeMaxDrawdown(pnls []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDrawdown := 0.0

	for _, p := range pnls {
		cumulative += p
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

// maxConsecutiveLosses finds the longest streak of non-positive P&L.
func maxConsecutiveLosses(pnls []float64) int {
	maxStreak := 0
	streak := 0
	for _, p := range pnls {
		if p <= 0 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}
	return maxStreak
}
