package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/plan"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(branch, category, item string, date time.Time, revenue float64) dataset.Row {
	return dataset.Row{
		Branch:   branch,
		Category: category,
		Item:     item,
		Group:    "Food",
		Date:     date,
		Revenue:  revenue,
		Quantity: 1,
	}
}

var menuRows = []dataset.Row{
	row("VV", "Tiffin", "Roast", day(2025, time.January, 5), 80),
	row("VV", "Tiffin", "Rava Roast", day(2025, time.January, 6), 95),
	row("SPM", "Tiffin", "Chicken Roast", day(2025, time.February, 7), 140),
	row("SPM", "Sweets", "Laddu", day(2025, time.February, 8), 50),
	row("TCR", "Sweets", "Mysore Pak", day(2025, time.March, 9), 65),
}

func equals(field, value string) plan.Filter {
	return plan.Filter{Kind: plan.Equals, Field: field, Value: value}
}

// ── Categorical matching ──────────────────────────────────────────────────────

func TestEqualsExactBeatsFuzzy(t *testing.T) {
	got, err := Apply(menuRows, []plan.Filter{equals(dataset.FieldItem, "  roast ")})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	// Exact tier: only the row literally named "Roast"; "Rava Roast" and
	// "Chicken Roast" must not ride along.
	if len(got) != 1 || got[0].Item != "Roast" {
		t.Fatalf("got %d rows, want exactly the Roast row: %+v", len(got), got)
	}
}

func TestEqualsWordBoundaryExcludesConflicts(t *testing.T) {
	rows := []dataset.Row{
		row("VV", "Tiffin", "Ghee Roast Special", day(2025, time.January, 5), 110),
		row("VV", "Tiffin", "Rava Roast", day(2025, time.January, 6), 95),
		row("VV", "Tiffin", "Roastery Blend", day(2025, time.January, 7), 60),
	}
	got, err := Apply(rows, []plan.Filter{equals(dataset.FieldItem, "ghee roast")})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != 1 || got[0].Item != "Ghee Roast Special" {
		t.Fatalf("word-boundary match = %+v, want Ghee Roast Special only", got)
	}
}

func TestEqualsSubstringFallback(t *testing.T) {
	got, err := Apply(menuRows, []plan.Filter{equals(dataset.FieldItem, "ysore")})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	// No exact or word-boundary match for a mid-word fragment; the
	// substring tier still finds Mysore Pak.
	if len(got) != 1 || got[0].Item != "Mysore Pak" {
		t.Fatalf("substring fallback = %+v, want Mysore Pak", got)
	}
}

func TestInFilterIsExactOnly(t *testing.T) {
	got, err := Apply(menuRows, []plan.Filter{
		{Kind: plan.In, Field: dataset.FieldBranch, Values: []string{"VV", "SPM"}},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d rows, want 4", len(got))
	}

	// Case-sensitive: "vv" matches nothing, and no fuzzy rescue applies.
	_, err = Apply(menuRows, []plan.Filter{
		{Kind: plan.In, Field: dataset.FieldBranch, Values: []string{"vv"}},
	})
	var empty *EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResultError, got %v", err)
	}
}

// ── Temporal filters ──────────────────────────────────────────────────────────

func TestMonthAndYearFilters(t *testing.T) {
	got, err := Apply(menuRows, []plan.Filter{
		{Kind: plan.Month, Field: "Month", Month: time.February},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("February rows = %d, want 2", len(got))
	}

	got, err = Apply(menuRows, []plan.Filter{
		{Kind: plan.Year, Field: "Date", Year: 2025},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != len(menuRows) {
		t.Fatalf("2025 rows = %d, want all", len(got))
	}
}

func TestDateRangeInclusive(t *testing.T) {
	got, err := Apply(menuRows, []plan.Filter{
		{
			Kind:  plan.DateRange,
			Field: "Date",
			Start: day(2025, time.January, 6),
			End:   day(2025, time.February, 8),
		},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	// Both endpoints are in bounds.
	if len(got) != 3 {
		t.Fatalf("range rows = %d, want 3", len(got))
	}
}

// ── Empty-result diagnostics ──────────────────────────────────────────────────

func TestEmptyResultCarriesAvailableValues(t *testing.T) {
	_, err := Apply(menuRows, []plan.Filter{
		equals(dataset.FieldCategory, "Sweets"),
		equals(dataset.FieldBranch, "VV"),
	})
	var empty *EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResultError, got %v", err)
	}
	if empty.Field != dataset.FieldBranch || empty.Value != "VV" {
		t.Errorf("blamed %s=%q, want Branch Name=VV", empty.Field, empty.Value)
	}
	// Available values come from the rows *before* the offending filter:
	// Sweets rows live in SPM and TCR.
	want := map[string]bool{"SPM": true, "TCR": true}
	if len(empty.Available) != 2 || !want[empty.Available[0]] || !want[empty.Available[1]] {
		t.Errorf("available = %v, want SPM and TCR", empty.Available)
	}
}

func TestEmptyResultSampleCapped(t *testing.T) {
	rows := make([]dataset.Row, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, row("Branch"+string(rune('A'+i)), "Tiffin", "Idli", day(2025, time.January, 1+i%28), 10))
	}
	_, err := Apply(rows, []plan.Filter{equals(dataset.FieldBranch, "Nowhere")})
	var empty *EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResultError, got %v", err)
	}
	if len(empty.Available) != 10 {
		t.Errorf("available sample = %d values, want cap of 10", len(empty.Available))
	}
}
