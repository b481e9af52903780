package plan

import (
	"encoding/json"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func decodeRaw(t *testing.T, src string) *RawPlan {
	t.Helper()
	var raw RawPlan
	if err := json.Unmarshal([]byte(src), &raw); err != nil {
		t.Fatalf("decode raw plan: %v", err)
	}
	return &raw
}

func TestNormalizeEmptyPlanDefaults(t *testing.T) {
	p := Normalize(&RawPlan{}, testNow)

	if p.ChartType != ChartBar {
		t.Errorf("chart = %q, want bar", p.ChartType)
	}
	if p.XAxis != "Branch Name" || p.YAxis != "Row Total" {
		t.Errorf("axes = %q/%q", p.XAxis, p.YAxis)
	}
	if p.Agg != AggSum {
		t.Errorf("agg = %q, want sum", p.Agg)
	}
	if p.Title != DefaultTitle {
		t.Errorf("title = %q", p.Title)
	}
	if len(p.Filters) != 0 {
		t.Errorf("expected no filters, got %v", p.Filters)
	}
}

func TestNormalizeSingularVsList(t *testing.T) {
	raw := decodeRaw(t, `{
		"branch_filters": "VV",
		"category_filters": ["Sweets", "Snacks"],
		"item_filters": ["Laddu"]
	}`)
	p := Normalize(raw, testNow)

	if len(p.Filters) != 3 {
		t.Fatalf("expected 3 filters, got %d", len(p.Filters))
	}
	// Construction order: item, category, branch. A single-element list
	// still maps to Equals so it keeps the tiered matching.
	if p.Filters[0].Field != "Item/Service Description" || p.Filters[0].Kind != Equals || p.Filters[0].Value != "Laddu" {
		t.Errorf("filter 0 = %+v, want item Equals filter", p.Filters[0])
	}
	if p.Filters[1].Kind != In || len(p.Filters[1].Values) != 2 {
		t.Errorf("filter 1 = %+v, want category In filter", p.Filters[1])
	}
	if p.Filters[2].Kind != Equals || p.Filters[2].Value != "VV" {
		t.Errorf("filter 2 = %+v, want branch Equals filter", p.Filters[2])
	}
}

func TestNormalizeSingleElementListIsEquals(t *testing.T) {
	raw := decodeRaw(t, `{"category_filters": ["roast"]}`)
	p := Normalize(raw, testNow)

	if len(p.Filters) != 1 {
		t.Fatalf("filters = %+v", p.Filters)
	}
	if p.Filters[0].Kind != Equals || p.Filters[0].Value != "roast" {
		t.Errorf("filter = %+v, want Equals(Category, roast)", p.Filters[0])
	}
}

func TestNormalizeDoesNotMutateRaw(t *testing.T) {
	raw := &RawPlan{YAxis: "dual"}
	Normalize(raw, testNow)
	if raw.DualMetrics {
		t.Error("Normalize must not write into the caller's raw plan")
	}
	if raw.YAxis != "dual" {
		t.Errorf("raw y_axis = %q, want unchanged", raw.YAxis)
	}
}

func TestNormalizeDualSentinel(t *testing.T) {
	p := Normalize(&RawPlan{YAxis: "dual"}, testNow)

	if !p.DualMetrics {
		t.Fatal("dual sentinel should set DualMetrics")
	}
	if p.ChartType != ChartDualBar {
		t.Errorf("chart = %q, want dual_bar", p.ChartType)
	}
	if p.YAxis != "Row Total" || p.YAxis2 != YCount {
		t.Errorf("axes = %q/%q, want Row Total/count", p.YAxis, p.YAxis2)
	}
}

func TestNormalizeShortDateGetsCurrentYear(t *testing.T) {
	raw := decodeRaw(t, `{"date_filter": "03-20"}`)
	p := Normalize(raw, testNow)

	if len(p.Filters) != 1 || p.Filters[0].Kind != Date {
		t.Fatalf("filters = %+v", p.Filters)
	}
	want := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	if !p.Filters[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", p.Filters[0].Date, want)
	}
}

func TestNormalizeDateRange(t *testing.T) {
	raw := decodeRaw(t, `{"date_filter": ["2025-01-01", "2025-01-31"]}`)
	p := Normalize(raw, testNow)

	if len(p.Filters) != 1 || p.Filters[0].Kind != DateRange {
		t.Fatalf("filters = %+v", p.Filters)
	}
	if p.Filters[0].Start.Day() != 1 || p.Filters[0].End.Day() != 31 {
		t.Errorf("range = %v..%v", p.Filters[0].Start, p.Filters[0].End)
	}
}

func TestNormalizeMonthAndYear(t *testing.T) {
	raw := decodeRaw(t, `{"month_filter": [2, 3], "year_filter": 2025}`)
	p := Normalize(raw, testNow)

	if len(p.Filters) != 2 {
		t.Fatalf("filters = %+v", p.Filters)
	}
	if p.Filters[0].Kind != MonthIn || len(p.Filters[0].Months) != 2 {
		t.Errorf("month filter = %+v", p.Filters[0])
	}
	if p.Filters[1].Kind != Year || p.Filters[1].Year != 2025 {
		t.Errorf("year filter = %+v", p.Filters[1])
	}
}

func TestNormalizeMalformedFieldsIgnored(t *testing.T) {
	raw := decodeRaw(t, `{
		"branch_filters": {"not": "a string"},
		"month_filter": "February",
		"date_filter": "soon",
		"chart_type": "hologram"
	}`)
	p := Normalize(raw, testNow)

	if len(p.Filters) != 0 {
		t.Errorf("malformed filters should be dropped, got %+v", p.Filters)
	}
	if p.ChartType != ChartBar {
		t.Errorf("unknown chart kind should fall back to bar, got %q", p.ChartType)
	}
}

func TestNormalizePostingDateAlias(t *testing.T) {
	p := Normalize(&RawPlan{XAxis: "Posting Date"}, testNow)
	if p.XAxis != "Date" {
		t.Errorf("x_axis = %q, want Date", p.XAxis)
	}
}
