package plan

import (
	"strings"
	"time"
)

// ============================================================================
// NORMALIZE — raw LLM plan → closed Plan
// ============================================================================
// Normalization only defaults and discards, it never errors: a completely
// empty raw plan still yields a chartable plan (bar of Row Total by
// Branch Name). Filter construction order is fixed so that downstream
// behavior, including which filter an empty-result diagnostic blames, is
// deterministic.
// ============================================================================

// DefaultTitle is used when the model supplies none.
const DefaultTitle = "Anandhaas Revenue Analysis"

// Normalize converts a raw LLM plan into a Plan. now supplies the year
// for "MM-DD" date strings.
func Normalize(raw *RawPlan, now time.Time) *Plan {
	p := &Plan{
		ChartType: chartKind(raw.ChartType),
		XAxis:     axisField(raw.XAxis),
		YAxis:     strings.TrimSpace(raw.YAxis),
		YAxis2:    strings.TrimSpace(raw.YAxis2),
		Agg:       aggKind(raw.Agg),
		Agg2:      aggKind(raw.Agg2),
		Title:     strings.TrimSpace(raw.Title),
	}

	if p.XAxis == "" {
		p.XAxis = "Branch Name"
	}
	if p.YAxis == "" {
		p.YAxis = "Row Total"
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}

	// "dual" on the y-axis is shorthand for the dual-metrics flag.
	dual := raw.DualMetrics
	if p.YAxis == YDual {
		p.YAxis = "Row Total"
		dual = true
	}
	if dual {
		p.DualMetrics = true
		p.ChartType = ChartDualBar
		if p.YAxis2 == "" {
			p.YAxis2 = YCount
		}
	}

	if strings.EqualFold(strings.TrimSpace(raw.ComparisonType), "monthly") {
		p.Comparison = "monthly"
	}
	if raw.Limit > 0 {
		p.Limit = raw.Limit
	}

	// Fixed construction order: item, category, branch, group, customer,
	// subgroup, month, date, year.
	p.addValues("Item/Service Description", raw.ItemFilters)
	p.addValues("Category", raw.CategoryFilters)
	p.addValues("Branch Name", raw.BranchFilters)
	p.addValues("Group Name", raw.GroupFilters)
	p.addValues("Customer/Vendor Name", raw.CustomerFilters)
	p.addValues("SubGroup", raw.SubgroupFilters)
	p.addMonths(raw.MonthFilter)
	p.addDates(raw.DateFilter, now)
	p.addYears(raw.YearFilter)

	return p
}

func chartKind(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ChartPie:
		return ChartPie
	case ChartLine:
		return ChartLine
	case ChartDualBar:
		return ChartDualBar
	default:
		return ChartBar
	}
}

func aggKind(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case AggMean, "avg", "average":
		return AggMean
	case AggCount:
		return AggCount
	default:
		return AggSum
	}
}

// axisField canonicalizes axis names; "Posting Date" is the legacy alias
// for "Date".
func axisField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "Posting Date") {
		return "Date"
	}
	return s
}

// addValues maps one value to Equals even when it arrived as a
// single-element list, so it keeps the tiered fuzzy matching; only a
// multi-element list becomes an exact In filter.
func (p *Plan) addValues(field string, f FlexStrings) {
	switch {
	case len(f.Items) == 1:
		p.Filters = append(p.Filters, Filter{Kind: Equals, Field: field, Value: f.Items[0]})
	case len(f.Items) > 1:
		p.Filters = append(p.Filters, Filter{Kind: In, Field: field, Values: f.Items})
	}
}

func (p *Plan) addMonths(f FlexInts) {
	months := make([]time.Month, 0, len(f.Items))
	for _, n := range f.Items {
		if n >= 1 && n <= 12 {
			months = append(months, time.Month(n))
		}
	}
	switch {
	case len(months) == 1 && !f.List:
		p.Filters = append(p.Filters, Filter{Kind: Month, Field: "Month", Month: months[0]})
	case len(months) > 0:
		p.Filters = append(p.Filters, Filter{Kind: MonthIn, Field: "Month", Months: months})
	}
}

func (p *Plan) addDates(f FlexStrings, now time.Time) {
	dates := make([]time.Time, 0, len(f.Items))
	for _, s := range f.Items {
		if d, ok := parsePlanDate(s, now); ok {
			dates = append(dates, d)
		}
	}
	switch {
	case f.List && len(dates) == 2:
		p.Filters = append(p.Filters, Filter{Kind: DateRange, Field: "Date", Start: dates[0], End: dates[1]})
	case len(dates) == 1:
		p.Filters = append(p.Filters, Filter{Kind: Date, Field: "Date", Date: dates[0]})
	}
}

func (p *Plan) addYears(f FlexInts) {
	years := make([]int, 0, len(f.Items))
	for _, n := range f.Items {
		if n >= 1900 && n <= 2200 {
			years = append(years, n)
		}
	}
	switch {
	case len(years) == 1 && !f.List:
		p.Filters = append(p.Filters, Filter{Kind: Year, Field: "Date", Year: years[0]})
	case len(years) > 0:
		p.Filters = append(p.Filters, Filter{Kind: YearIn, Field: "Date", Years: years})
	}
}

// parsePlanDate accepts "2006-01-02" or "MM-DD"; the short form borrows
// the current year.
func parsePlanDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("01-02", s); err == nil {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
