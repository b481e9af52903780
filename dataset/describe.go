package dataset

// ============================================================================
// DESCRIBE — schema summary for the planner prompt and the dashboard
// ============================================================================
// Distinct values are reported in first-seen (file) order so that prompt
// content and dashboard output are stable across runs.
// ============================================================================

// Stats summarizes a numeric column.
type Stats struct {
	Total float64 `json:"total"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
}

// DateRange is the inclusive posting-date span of the dataset.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary describes the loaded dataset: distinct categorical values,
// numeric stats, and the date span. Optional fields are omitted when the
// source file did not carry the column.
type Summary struct {
	TotalRecords  int       `json:"total_records"`
	Branches      []string  `json:"branches"`
	Groups        []string  `json:"groups"`
	Categories    []string  `json:"categories"`
	Items         []string  `json:"items,omitempty"`
	Customers     []string  `json:"customers,omitempty"`
	Subgroups     []string  `json:"subgroups,omitempty"`
	DateRange     DateRange `json:"date_range"`
	RevenueStats  Stats     `json:"revenue_stats"`
	QuantityStats *Stats    `json:"quantity_stats,omitempty"`
}

// Describe computes a Summary. A nil or empty dataset yields an empty
// summary rather than an error.
func Describe(ds *Dataset) *Summary {
	sum := &Summary{}
	if ds == nil || len(ds.Rows) == 0 {
		return sum
	}

	sum.TotalRecords = len(ds.Rows)
	sum.Branches = distinct(ds.Rows, func(r Row) string { return r.Branch })
	sum.Groups = distinct(ds.Rows, func(r Row) string { return r.Group })
	sum.Categories = distinct(ds.Rows, func(r Row) string { return r.Category })
	if ds.Caps.HasItem {
		sum.Items = distinct(ds.Rows, func(r Row) string { return r.Item })
	}
	if ds.Caps.HasCustomer {
		sum.Customers = distinct(ds.Rows, func(r Row) string { return r.Customer })
	}
	if ds.Caps.HasSubgroup {
		sum.Subgroups = distinct(ds.Rows, func(r Row) string { return r.Subgroup })
	}

	minDate, maxDate := ds.Rows[0].Date, ds.Rows[0].Date
	rev := newStats()
	qty := newStats()
	for _, r := range ds.Rows {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
		rev.add(r.Revenue)
		qty.add(r.Quantity)
	}
	sum.DateRange = DateRange{
		Start: minDate.Format("2006-01-02"),
		End:   maxDate.Format("2006-01-02"),
	}
	sum.RevenueStats = rev.finish()
	if ds.Caps.HasQuantity {
		s := qty.finish()
		sum.QuantityStats = &s
	}

	return sum
}

func distinct(rows []Row, get func(Row) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := get(r)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

type statsAcc struct {
	n        int
	total    float64
	min, max float64
}

func newStats() statsAcc {
	return statsAcc{}
}

func (a *statsAcc) add(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.total += v
	a.n++
}

func (a statsAcc) finish() Stats {
	if a.n == 0 {
		return Stats{}
	}
	return Stats{
		Total: a.total,
		Avg:   a.total / float64(a.n),
		Max:   a.max,
		Min:   a.min,
	}
}
