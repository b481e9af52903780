package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/plan"
)

// ============================================================================
// AGGREGATOR — group → aggregate → sort → limit
// ============================================================================
// Grouping collects in first-seen order, then sorting decides the final
// presentation: value-descending for categorical axes, chronological for
// month and date axes. The limit truncates after sorting, so limited
// output is always a prefix of the unlimited output.
// ============================================================================

// point is one aggregated group before it becomes a Datum.
type point struct {
	label   string
	sortKey int
	value   float64
}

// Aggregate turns a filtered row set into chart data per the plan.
func Aggregate(rows []dataset.Row, p *plan.Plan) (*ChartData, error) {
	chart := &ChartData{
		ChartType: p.ChartType,
		Title:     p.Title,
		XAxis:     p.XAxis,
		YAxis:     p.YAxis,
	}

	switch {
	case p.Comparison == "monthly":
		data, err := monthlyComparison(rows, p)
		if err != nil {
			return nil, err
		}
		chart.Data = data
	case p.DualMetrics:
		data, err := dualSeries(rows, p)
		if err != nil {
			return nil, err
		}
		chart.Data = data
	default:
		points, err := series(rows, p.XAxis, p.YAxis, p.Agg, p.Limit)
		if err != nil {
			return nil, err
		}
		chart.Data = make([]Datum, len(points))
		for i, pt := range points {
			chart.Data[i] = Datum{Kind: Single, Name: pt.label, Value: pt.value}
		}
	}

	return chart, nil
}

// series runs the full group/aggregate/sort/limit pipeline for one metric.
func series(rows []dataset.Row, xAxis, measure, agg string, limit int) ([]point, error) {
	points, timeAxis, err := group(rows, xAxis, measure, agg)
	if err != nil {
		return nil, err
	}

	if timeAxis {
		sort.SliceStable(points, func(i, j int) bool { return points[i].sortKey < points[j].sortKey })
	} else {
		sort.SliceStable(points, func(i, j int) bool { return points[i].value > points[j].value })
	}

	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

// group aggregates rows by the x-axis in first-seen order. The second
// return reports whether the axis is temporal (month or date).
func group(rows []dataset.Row, xAxis, measure, agg string) ([]point, bool, error) {
	type acc struct {
		sum   float64
		count int
	}
	grouped := make(map[string]*acc)
	keys := make(map[string]int)
	var order []string

	timeAxis := xAxis == dataset.FieldMonth || xAxis == dataset.FieldDate

	for _, r := range rows {
		var label string
		var key int
		switch xAxis {
		case dataset.FieldMonth:
			label = r.Date.Format("January 2006")
			key = r.Date.Year()*100 + int(r.Date.Month())
		case dataset.FieldDate:
			label = r.Date.Format("2006-01-02")
			key = r.Date.Year()*10000 + int(r.Date.Month())*100 + r.Date.Day()
		default:
			v, ok := dataset.FieldValue(r, xAxis)
			if !ok {
				return nil, false, fmt.Errorf("unknown x_axis field %q", xAxis)
			}
			label = v
		}

		a, exists := grouped[label]
		if !exists {
			a = &acc{}
			grouped[label] = a
			keys[label] = key
			order = append(order, label)
		}
		a.sum += dataset.MeasureValue(r, measure)
		a.count++
	}

	points := make([]point, 0, len(order))
	for _, label := range order {
		a := grouped[label]
		var value float64
		switch {
		case measure == plan.YCount || agg == plan.AggCount:
			value = float64(a.count)
		case agg == plan.AggMean:
			value = a.sum / float64(a.count)
		default:
			value = a.sum
		}
		points = append(points, point{label: label, sortKey: keys[label], value: value})
	}
	return points, timeAxis, nil
}

// ── Dual metrics ──────────────────────────────────────────────────────────────

// dualSeries computes both metrics independently, then reconciles their
// categories by union: primary order first, secondary-only categories
// appended, missing values zero-filled.
func dualSeries(rows []dataset.Row, p *plan.Plan) ([]Datum, error) {
	primary, err := series(rows, p.XAxis, p.YAxis, p.Agg, p.Limit)
	if err != nil {
		return nil, err
	}
	secondary, err := series(rows, p.XAxis, p.YAxis2, p.Agg2, p.Limit)
	if err != nil {
		return nil, err
	}

	first := make(map[string]float64, len(primary))
	second := make(map[string]float64, len(secondary))
	var names []string
	for _, pt := range primary {
		first[pt.label] = pt.value
		names = append(names, pt.label)
	}
	for _, pt := range secondary {
		second[pt.label] = pt.value
		if _, ok := first[pt.label]; !ok {
			names = append(names, pt.label)
		}
	}

	data := make([]Datum, len(names))
	for i, name := range names {
		data[i] = Datum{
			Kind:        Dual,
			Name:        name,
			Metric1:     first[name],
			Metric2:     second[name],
			Metric1Name: p.YAxis,
			Metric2Name: p.YAxis2,
		}
	}
	return data, nil
}

// ── Monthly comparison ────────────────────────────────────────────────────────

// monthlyComparison builds a category × month table: the top categories
// by the primary metric, with one lowercase-month column per selected
// month, zero-filled where a category had no rows that month.
func monthlyComparison(rows []dataset.Row, p *plan.Plan) ([]Datum, error) {
	months := planMonths(p)
	if len(months) == 0 {
		months = observedMonths(rows)
	}

	top, err := series(rows, p.XAxis, p.YAxis, p.Agg, p.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]Datum, len(top))
	for i, pt := range top {
		cells := make([]MonthCell, len(months))
		for j, m := range months {
			var sub []dataset.Row
			for _, r := range rows {
				v, ok := dataset.FieldValue(r, p.XAxis)
				if ok && v == pt.label && r.Date.Month() == m {
					sub = append(sub, r)
				}
			}
			cells[j] = MonthCell{Key: strings.ToLower(m.String()), Value: aggregateValue(sub, p.YAxis, p.Agg)}
		}
		data[i] = Datum{Kind: Monthly, Name: pt.label, Months: cells}
	}
	return data, nil
}

// aggregateValue collapses a row subset to one number per the metric.
func aggregateValue(rows []dataset.Row, measure, agg string) float64 {
	if len(rows) == 0 {
		return 0
	}
	if measure == plan.YCount || agg == plan.AggCount {
		return float64(len(rows))
	}
	var sum float64
	for _, r := range rows {
		sum += dataset.MeasureValue(r, measure)
	}
	if agg == plan.AggMean {
		return sum / float64(len(rows))
	}
	return sum
}

func planMonths(p *plan.Plan) []time.Month {
	for _, f := range p.Filters {
		switch f.Kind {
		case plan.Month:
			return []time.Month{f.Month}
		case plan.MonthIn:
			return f.Months
		}
	}
	return nil
}

func observedMonths(rows []dataset.Row) []time.Month {
	seen := make(map[time.Month]bool)
	var out []time.Month
	for _, r := range rows {
		m := r.Date.Month()
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
