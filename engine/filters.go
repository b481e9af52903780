package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/plan"
)

// ============================================================================
// FILTERS — three-tier conflict-aware matching
// ============================================================================
// Filters are AND-ed in plan order and only ever narrow the row set.
// Categorical Equals filters match in three tiers, taking the first tier
// that yields rows:
//   1. exact (case-insensitive, trimmed)
//   2. word-boundary match, with longer conflicting values excluded so
//      that "roast" never swallows "rava roast" or "chicken roast"
//   3. plain case-insensitive substring
// In filters are exact set membership only. Date, month and year filters
// compare date components structurally, no fuzziness.
// ============================================================================

const maxAvailableSample = 10

// EmptyResultError reports the filter that emptied the row set, with a
// sample of values that were actually available before it ran.
type EmptyResultError struct {
	Field     string
	Value     string
	Available []string
}

func (e *EmptyResultError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no data found for %s = %q", e.Field, e.Value)
	}
	return fmt.Sprintf("no data found for %s = %q; available: %s",
		e.Field, e.Value, strings.Join(e.Available, ", "))
}

// Apply filters rows in plan order. An empty final subset is an
// *EmptyResultError blaming the first filter that produced it.
func Apply(rows []dataset.Row, filters []plan.Filter) ([]dataset.Row, error) {
	for _, f := range filters {
		next := applyOne(rows, f)
		if len(next) == 0 {
			return nil, &EmptyResultError{
				Field:     f.Field,
				Value:     f.DisplayValue(),
				Available: availableSample(rows, f),
			}
		}
		rows = next
	}
	return rows, nil
}

func applyOne(rows []dataset.Row, f plan.Filter) []dataset.Row {
	switch f.Kind {
	case plan.Equals:
		return matchEquals(rows, f.Field, f.Value)
	case plan.In:
		return matchIn(rows, f.Field, f.Values)
	case plan.Month:
		return matchDate(rows, func(t time.Time) bool { return t.Month() == f.Month })
	case plan.MonthIn:
		set := make(map[time.Month]bool, len(f.Months))
		for _, m := range f.Months {
			set[m] = true
		}
		return matchDate(rows, func(t time.Time) bool { return set[t.Month()] })
	case plan.Year:
		return matchDate(rows, func(t time.Time) bool { return t.Year() == f.Year })
	case plan.YearIn:
		set := make(map[int]bool, len(f.Years))
		for _, y := range f.Years {
			set[y] = true
		}
		return matchDate(rows, func(t time.Time) bool { return set[t.Year()] })
	case plan.Date:
		return matchDate(rows, func(t time.Time) bool { return sameDay(t, f.Date) })
	case plan.DateRange:
		start, end := dayOf(f.Start), dayOf(f.End)
		return matchDate(rows, func(t time.Time) bool {
			d := dayOf(t)
			return !d.Before(start) && !d.After(end)
		})
	}
	return rows
}

// ── Categorical matching ──────────────────────────────────────────────────────

func matchEquals(rows []dataset.Row, field, value string) []dataset.Row {
	term := strings.ToLower(strings.TrimSpace(value))
	if term == "" {
		return rows
	}

	// Tier 1: exact.
	exact := filterRows(rows, field, func(v string) bool {
		return strings.ToLower(strings.TrimSpace(v)) == term
	})
	if len(exact) > 0 {
		return exact
	}

	// Tier 2: word boundary, excluding longer conflicting values. A
	// conflict is a distinct value that strictly contains the term and
	// has more words, e.g. "rava roast" for the term "roast".
	re := wordBoundaryPattern(term)
	conflicts := make(map[string]bool)
	for _, v := range distinctLower(rows, field) {
		if v != term && strings.Contains(v, term) &&
			len(strings.Fields(v)) > len(strings.Fields(term)) {
			conflicts[v] = true
		}
	}
	bounded := filterRows(rows, field, func(v string) bool {
		lv := strings.ToLower(strings.TrimSpace(v))
		return re.MatchString(lv) && !conflicts[lv]
	})
	if len(bounded) > 0 {
		return bounded
	}

	// Tier 3: substring fallback.
	return filterRows(rows, field, func(v string) bool {
		return strings.Contains(strings.ToLower(v), term)
	})
}

// matchIn is exact case-sensitive membership, no fuzziness: list filters
// come from vocabularies the planner saw verbatim.
func matchIn(rows []dataset.Row, field string, values []string) []dataset.Row {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return filterRows(rows, field, func(v string) bool { return set[v] })
}

func filterRows(rows []dataset.Row, field string, keep func(string) bool) []dataset.Row {
	var out []dataset.Row
	for _, r := range rows {
		if v, ok := dataset.FieldValue(r, field); ok && keep(v) {
			out = append(out, r)
		}
	}
	return out
}

func matchDate(rows []dataset.Row, keep func(time.Time) bool) []dataset.Row {
	var out []dataset.Row
	for _, r := range rows {
		if keep(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

func wordBoundaryPattern(term string) *regexp.Regexp {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func distinctLower(rows []dataset.Row, field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if v, ok := dataset.FieldValue(r, field); ok {
			lv := strings.ToLower(strings.TrimSpace(v))
			if lv != "" && !seen[lv] {
				seen[lv] = true
				out = append(out, lv)
			}
		}
	}
	return out
}

// availableSample describes what the offending filter could have matched:
// distinct field values for categorical filters, months/years/date span
// for temporal ones. Capped at maxAvailableSample entries.
func availableSample(rows []dataset.Row, f plan.Filter) []string {
	var out []string
	switch f.Kind {
	case plan.Equals, plan.In:
		seen := make(map[string]bool)
		for _, r := range rows {
			v, ok := dataset.FieldValue(r, f.Field)
			if !ok || v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
			if len(out) == maxAvailableSample {
				break
			}
		}
	case plan.Month, plan.MonthIn:
		seen := make(map[time.Month]bool)
		for _, r := range rows {
			m := r.Date.Month()
			if !seen[m] {
				seen[m] = true
				out = append(out, m.String())
			}
			if len(out) == maxAvailableSample {
				break
			}
		}
	case plan.Year, plan.YearIn:
		seen := make(map[int]bool)
		for _, r := range rows {
			y := r.Date.Year()
			if !seen[y] {
				seen[y] = true
				out = append(out, strconv.Itoa(y))
			}
			if len(out) == maxAvailableSample {
				break
			}
		}
	case plan.Date, plan.DateRange:
		if len(rows) > 0 {
			lo, hi := rows[0].Date, rows[0].Date
			for _, r := range rows {
				if r.Date.Before(lo) {
					lo = r.Date
				}
				if r.Date.After(hi) {
					hi = r.Date
				}
			}
			out = []string{lo.Format("2006-01-02") + " to " + hi.Format("2006-01-02")}
		}
	}
	return out
}
