package engine

import (
	"fmt"
	"strings"

	"github.com/anandhaas/insight/plan"
)

// ============================================================================
// SUMMARY — deterministic one-line description of the chart
// ============================================================================

var chartDescriptions = map[string]string{
	plan.ChartBar:  "comparison chart",
	plan.ChartPie:  "distribution chart",
	plan.ChartLine: "trend chart",
}

// Summarize renders "Created a {kind} showing {y} by {x}{filters}" from
// the normalized plan, with filter clauses in stored order.
func Summarize(p *plan.Plan) string {
	desc, ok := chartDescriptions[p.ChartType]
	if !ok {
		desc = "chart"
	}

	y := p.YAxis
	if p.DualMetrics {
		y = fmt.Sprintf("%s and %s", p.YAxis, p.YAxis2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Created a %s showing %s by %s", desc, y, p.XAxis)
	for _, f := range p.Filters {
		b.WriteString(filterClause(f))
	}
	return b.String()
}

// filterClause renders one filter. Only month filters read as "in";
// everything else, years included, is a plain "for" clause.
func filterClause(f plan.Filter) string {
	switch f.Kind {
	case plan.Month, plan.MonthIn:
		return " in " + f.DisplayValue()
	default:
		return " for " + f.DisplayValue()
	}
}
