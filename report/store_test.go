package report

import (
	"testing"
	"time"
)

func TestStoreLastWriteWins(t *testing.T) {
	s := NewStore()
	if s.Last() != nil {
		t.Fatal("fresh store should be empty")
	}

	now := time.Now()
	first := NewReport("Revenue by Branch", "insights", []byte("pdf-a"), now)
	second := NewReport("Top Items", "insights", []byte("pdf-b"), now)
	s.Put(first)
	s.Put(second)

	got := s.Last()
	if got == nil || got.Title != "Top Items" {
		t.Fatalf("last = %+v, want the second report", got)
	}
	if got.ID == first.ID {
		t.Error("reports should get distinct IDs")
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Revenue by Branch", "Revenue_by_Branch_report.pdf"},
		{"  Sweets  ", "Sweets_report.pdf"},
		{"", "report_report.pdf"},
	}
	for _, tc := range cases {
		if got := Filename(tc.title); got != tc.want {
			t.Errorf("Filename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
