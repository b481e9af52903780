package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// PLAN — Normalized Visualization Plan
// ============================================================================
// The plan is the contract between the LLM planner and the deterministic
// engine. Everything after normalization is closed: known chart kinds,
// known aggregations, a tagged filter union. The engine never sees raw
// LLM output.
// ============================================================================

// Chart kinds.
const (
	ChartBar     = "bar"
	ChartPie     = "pie"
	ChartLine    = "line"
	ChartDualBar = "dual_bar"
)

// Y-axis sentinels. YCount charts group sizes; YDual requests two metrics.
const (
	YCount = "count"
	YDual  = "dual"
)

// Aggregations.
const (
	AggSum   = "sum"
	AggMean  = "mean"
	AggCount = "count"
)

// FilterKind discriminates the Filter union.
type FilterKind int

const (
	Equals FilterKind = iota
	In
	Month
	MonthIn
	Year
	YearIn
	Date
	DateRange
)

// Filter is one plan constraint. Exactly the fields implied by Kind are
// set; the rest stay zero.
type Filter struct {
	Kind  FilterKind
	Field string

	Value  string
	Values []string

	Month  time.Month
	Months []time.Month

	Year  int
	Years []int

	Date  time.Time
	Start time.Time
	End   time.Time
}

// DisplayValue renders the filter's requested value for summaries and
// empty-result diagnostics.
func (f Filter) DisplayValue() string {
	switch f.Kind {
	case Equals:
		return f.Value
	case In:
		return strings.Join(f.Values, ", ")
	case Month:
		return f.Month.String()
	case MonthIn:
		names := make([]string, len(f.Months))
		for i, m := range f.Months {
			names[i] = m.String()
		}
		return strings.Join(names, ", ")
	case Year:
		return strconv.Itoa(f.Year)
	case YearIn:
		parts := make([]string, len(f.Years))
		for i, y := range f.Years {
			parts[i] = strconv.Itoa(y)
		}
		return strings.Join(parts, ", ")
	case Date:
		return f.Date.Format("2006-01-02")
	case DateRange:
		return fmt.Sprintf("%s to %s", f.Start.Format("2006-01-02"), f.End.Format("2006-01-02"))
	}
	return ""
}

// Plan is a fully normalized visualization request.
type Plan struct {
	ChartType string
	XAxis     string
	YAxis     string
	YAxis2    string
	Agg       string
	Agg2      string
	Filters   []Filter
	Limit     int
	Title     string

	DualMetrics bool
	Comparison  string // "" or "monthly"
}
