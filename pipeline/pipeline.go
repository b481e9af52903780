// Package pipeline orchestrates a query from free text to chart data:
// translate → plan → normalize → filter → aggregate → summarize, with
// best-effort PDF generation at the end.
package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/engine"
	"github.com/anandhaas/insight/plan"
	"github.com/anandhaas/insight/planner"
	"github.com/anandhaas/insight/report"
	"github.com/anandhaas/insight/sarvam"
)

// Sentinel errors the HTTP layer maps to status codes.
var (
	ErrEmptyQuery = errors.New("query text is empty")
	ErrNoData     = errors.New("dataset unavailable")
)

// QueryResult is the full answer for one query.
type QueryResult struct {
	OriginalQuery string         `json:"original_query"`
	EnglishQuery  string         `json:"english_query"`
	ChartType     string         `json:"chart_type"`
	Title         string         `json:"title"`
	Data          []engine.Datum `json:"data"`
	XAxis         string         `json:"x_axis"`
	YAxis         string         `json:"y_axis"`
	Insights      string         `json:"insights"`
	PDFBase64     string         `json:"pdf_base64,omitempty"`
	PDFFilename   string         `json:"pdf_filename,omitempty"`
}

// ============================================================================
// OPTIONS
// ============================================================================

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithSpeech wires the Sarvam client for Tamil translation.
func WithSpeech(c *sarvam.Client) Option {
	return func(p *Pipeline) { p.speech = c }
}

// WithPDF wires PDF generation and the last-report store.
func WithPDF(b *report.PDFBuilder, s *report.Store) Option {
	return func(p *Pipeline) {
		p.pdf = b
		p.reports = s
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// ============================================================================
// PIPELINE
// ============================================================================

// Pipeline runs queries against the dataset.
type Pipeline struct {
	data    *dataset.Store
	planner planner.Planner
	speech  *sarvam.Client
	pdf     *report.PDFBuilder
	reports *report.Store
	now     func() time.Time
}

// New creates a Pipeline. The dataset store and planner are required;
// speech and PDF are optional collaborators.
func New(data *dataset.Store, pl planner.Planner, opts ...Option) *Pipeline {
	p := &Pipeline{
		data:    data,
		planner: pl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reports exposes the last-report store, nil when PDF is not wired.
func (p *Pipeline) Reports() *report.Store { return p.reports }

// DashboardData returns the dataset summary.
func (p *Pipeline) DashboardData() (*dataset.Summary, error) {
	ds, err := p.data.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	return dataset.Describe(ds), nil
}

// Query answers one free-text question.
func (p *Pipeline) Query(ctx context.Context, text string) (*QueryResult, error) {
	original := strings.TrimSpace(text)
	if original == "" {
		return nil, ErrEmptyQuery
	}

	ds, err := p.data.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	english := original
	if sarvam.DetectLanguage(original) == "ta-IN" && p.speech != nil {
		english = p.speech.TranslateToEnglish(ctx, original)
		log.Printf("🔄 pipeline: translated %q → %q", truncate(original, 60), truncate(english, 60))
	}

	summary := dataset.Describe(ds)
	raw, err := p.planner.Plan(ctx, english, summary)
	if err != nil {
		return nil, err
	}

	pl := plan.Normalize(raw, p.now())

	rows, err := engine.Apply(ds.Rows, pl.Filters)
	if err != nil {
		return nil, err
	}

	chart, err := engine.Aggregate(rows, pl)
	if err != nil {
		return nil, err
	}
	insights := engine.Summarize(pl)

	result := &QueryResult{
		OriginalQuery: original,
		EnglishQuery:  english,
		ChartType:     chart.ChartType,
		Title:         chart.Title,
		Data:          chart.Data,
		XAxis:         chart.XAxis,
		YAxis:         chart.YAxis,
		Insights:      insights,
	}

	p.attachPDF(chart, insights, result)

	log.Printf("✅ pipeline: %q → %s with %d points", truncate(english, 60), chart.ChartType, len(chart.Data))
	return result, nil
}

// attachPDF renders and caches the report. Failures degrade the result,
// never the query.
func (p *Pipeline) attachPDF(chart *engine.ChartData, insights string, result *QueryResult) {
	if p.pdf == nil || p.reports == nil {
		return
	}
	pdfBytes, err := p.pdf.Build(chart, insights)
	if err != nil {
		log.Printf("⚠️  pipeline: PDF generation failed: %v", err)
		return
	}
	rep := report.NewReport(chart.Title, insights, pdfBytes, p.now())
	p.reports.Put(rep)
	result.PDFBase64 = base64.StdEncoding.EncodeToString(pdfBytes)
	result.PDFFilename = rep.Filename
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
