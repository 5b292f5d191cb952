package reporting

import (
	"fmt"
	"strings"
)

// RenderCombinationsCSV renders combination rows as CSV string.
func RenderCombinationsCSV(rows []CombinationRow) string {
	var sb strings.Builder

	sb.WriteString("combination,trades,win_rate,pnl,avg_rr,profit_factor,expectancy,max_drawdown\n")

	for _, c := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%s,%.6f,%.6f\n",
			csvEscape(c.Label),
			c.Trades,
			c.WinRate,
			c.PnL,
			c.AvgRR,
			csvRatio(c.ProfitFactor),
			c.Expectancy,
			c.MaxDrawdown,
		))
	}

	return sb.String()
}

// RenderVariablesCSV renders variable rows as CSV string.
func RenderVariablesCSV(rows []VariableRow) string {
	var sb strings.Builder

	sb.WriteString("variable,value,trades,win_rate,pnl,avg_rr,profit_factor,expectancy,max_drawdown\n")

	for _, v := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%.6f,%.6f,%s,%.6f,%.6f\n",
			csvEscape(v.Name),
			csvEscape(v.Value),
			v.Trades,
			v.WinRate,
			v.PnL,
			v.AvgRR,
			csvRatio(v.ProfitFactor),
			v.Expectancy,
			v.MaxDrawdown,
		))
	}

	return sb.String()
}

func csvRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

// csvEscape quotes a field containing commas or quotes. Combination labels
// routinely contain " & " but user-defined variable values can hold anything.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
