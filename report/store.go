package report

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// STORE — single-slot last-report cache
// ============================================================================
// The dashboard's "send to Slack" button resends whatever report was
// generated last, process-wide. Last-write-wins is the intended
// semantics for a single-operator dashboard; the RWMutex makes it safe,
// and per-report IDs keep a future keyed store a small change.
// ============================================================================

// Report is one generated PDF with its metadata.
type Report struct {
	ID        string
	Title     string
	Insights  string
	Filename  string
	PDF       []byte
	CreatedAt time.Time
}

// NewReport mints a report with a fresh ID and derived filename.
func NewReport(title, insights string, pdf []byte, now time.Time) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Title:     title,
		Insights:  insights,
		Filename:  Filename(title),
		PDF:       pdf,
		CreatedAt: now,
	}
}

// Filename derives a safe PDF filename from a chart title.
func Filename(title string) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if name == "" {
		name = "report"
	}
	return name + "_report.pdf"
}

// Store holds the most recent report.
type Store struct {
	mu   sync.RWMutex
	last *Report
}

// NewStore creates an empty store.
func NewStore() *Store { return &Store{} }

// Put replaces the cached report.
func (s *Store) Put(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = r
}

// Last returns the cached report, or nil when none has been generated.
func (s *Store) Last() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
