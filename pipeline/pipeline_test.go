package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/engine"
	"github.com/anandhaas/insight/plan"
)

// ── Fixtures ──────────────────────────────────────────────────────────────────

var pipelineCSV = []byte(`Branch Name,Date,Group Name,Category,Item/Service Description,Row Total
VV,2025-01-05,Food,Parcel,Meals Parcel,250
VV,2025-01-06,Food,Parcel,Tiffin Parcel,120
VV,2025-01-07,Food,Dine In,Meals,300
SPM,2025-01-05,Food,Parcel,Meals Parcel,400
SPM,2025-01-08,Food,Dine In,Tiffin,90
`)

// stubPlanner returns a canned raw plan, or an error.
type stubPlanner struct {
	raw *plan.RawPlan
	err error

	gotQuery string
}

func (s *stubPlanner) Plan(ctx context.Context, query string, summary *dataset.Summary) (*plan.RawPlan, error) {
	s.gotQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

func newTestPipeline(t *testing.T, pl *stubPlanner) *Pipeline {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, pipelineCSV, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return New(dataset.NewStore(path), pl,
		WithClock(func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) }))
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestQueryParcelRevenueByBranch(t *testing.T) {
	pl := &stubPlanner{raw: &plan.RawPlan{
		ChartType: "bar",
		XAxis:     "Branch Name",
		YAxis:     "Row Total",
		Agg:       "sum",
		Title:     "Parcel Revenue by Branch",
	}}
	pl.raw.CategoryFilters.Items = []string{"Parcel"}

	p := newTestPipeline(t, pl)
	res, err := p.Query(context.Background(), "parcel sales by branch")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if res.OriginalQuery != "parcel sales by branch" || res.EnglishQuery != res.OriginalQuery {
		t.Errorf("queries = %q / %q", res.OriginalQuery, res.EnglishQuery)
	}
	if res.ChartType != plan.ChartBar || res.Title != "Parcel Revenue by Branch" {
		t.Errorf("chart = %q title = %q", res.ChartType, res.Title)
	}
	// SPM 400 beats VV 370.
	if len(res.Data) != 2 || res.Data[0].Name != "SPM" || res.Data[0].Value != 400 {
		t.Fatalf("data = %+v", res.Data)
	}
	if res.Data[1].Name != "VV" || res.Data[1].Value != 370 {
		t.Errorf("data[1] = %+v", res.Data[1])
	}
	if res.Insights != "Created a comparison chart showing Row Total by Branch Name for Parcel" {
		t.Errorf("insights = %q", res.Insights)
	}
	// No PDF collaborator wired: result degrades, query still succeeds.
	if res.PDFBase64 != "" || res.PDFFilename != "" {
		t.Errorf("unexpected PDF fields: %q %q", res.PDFBase64, res.PDFFilename)
	}
}

func TestQueryListShapedFilterKeepsFuzzyMatch(t *testing.T) {
	// The model often emits a one-element list; it must still reach the
	// tiered matcher, so lowercase "parcel" finds the "Parcel" category.
	pl := &stubPlanner{raw: &plan.RawPlan{}}
	pl.raw.CategoryFilters = plan.FlexStrings{Items: []string{"parcel"}, List: true}

	p := newTestPipeline(t, pl)
	res, err := p.Query(context.Background(), "parcel sales")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Data) != 2 || res.Data[0].Name != "SPM" || res.Data[0].Value != 400 {
		t.Fatalf("data = %+v", res.Data)
	}
}

func TestQueryEmptyText(t *testing.T) {
	p := newTestPipeline(t, &stubPlanner{raw: &plan.RawPlan{}})
	if _, err := p.Query(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestQueryMissingDataset(t *testing.T) {
	p := New(dataset.NewStore(filepath.Join(t.TempDir(), "missing.csv")), &stubPlanner{})
	if _, err := p.Query(context.Background(), "anything"); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if _, err := p.DashboardData(); !errors.Is(err, ErrNoData) {
		t.Fatalf("dashboard err = %v, want ErrNoData", err)
	}
}

func TestQueryEmptyResultPropagates(t *testing.T) {
	pl := &stubPlanner{raw: &plan.RawPlan{}}
	pl.raw.BranchFilters.Items = []string{"Nowhere"}

	p := newTestPipeline(t, pl)
	_, err := p.Query(context.Background(), "sales in Nowhere")
	var empty *engine.EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want EmptyResultError", err)
	}
	if empty.Field != "Branch Name" {
		t.Errorf("blamed field = %q", empty.Field)
	}
}

func TestQueryPlannerFailurePropagates(t *testing.T) {
	wantErr := errors.New("model unavailable")
	p := newTestPipeline(t, &stubPlanner{err: wantErr})
	if _, err := p.Query(context.Background(), "sales"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want planner error", err)
	}
}

func TestDashboardData(t *testing.T) {
	p := newTestPipeline(t, &stubPlanner{raw: &plan.RawPlan{}})
	sum, err := p.DashboardData()
	if err != nil {
		t.Fatalf("DashboardData failed: %v", err)
	}
	if sum.TotalRecords != 5 || len(sum.Branches) != 2 {
		t.Errorf("summary = %+v", sum)
	}
}
