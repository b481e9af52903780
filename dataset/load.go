package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// LOADERS — CSV and XLSX ingestion with drop-bad-rows semantics
// ============================================================================
// A loaded dataset never contains a zero date or an unparseable revenue:
// such rows are dropped (and counted) rather than poisoning aggregations.
// ============================================================================

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// LoadFile loads a dataset from path, dispatching on extension.
func LoadFile(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads a sales CSV. The header row is required; "Posting Date"
// is accepted as an alias for "Date".
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	rows := make([][]string, 0, 1024)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rec)
	}

	return fromTable(header, rows)
}

// LoadXLSX reads the first sheet of a spreadsheet export.
func LoadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	return fromTable(all[0], all[1:])
}

// fromTable builds a Dataset from a header row plus data rows.
func fromTable(header []string, raw [][]string) (*Dataset, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	dateCol, ok := cols[FieldDate]
	if !ok {
		dateCol, ok = cols["Posting Date"]
	}
	if !ok {
		return nil, fmt.Errorf("missing required column %q", FieldDate)
	}
	for _, req := range []string{FieldBranch, FieldGroup, FieldCategory, MeasureRevenue} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("missing required column %q", req)
		}
	}

	caps := Capabilities{}
	itemCol, hasItem := cols[FieldItem]
	custCol, hasCust := cols[FieldCustomer]
	subCol, hasSub := cols[FieldSubgroup]
	qtyCol, hasQty := cols[MeasureQuantity]
	caps.HasItem = hasItem
	caps.HasCustomer = hasCust
	caps.HasSubgroup = hasSub
	caps.HasQuantity = hasQty

	cell := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	rows := make([]Row, 0, len(raw))
	dropped := 0
	for _, rec := range raw {
		date, ok := parseDate(cell(rec, dateCol))
		if !ok {
			dropped++
			continue
		}
		rev, ok := parseNumber(cell(rec, cols[MeasureRevenue]))
		if !ok {
			dropped++
			continue
		}

		row := Row{
			Branch:   cell(rec, cols[FieldBranch]),
			Date:     date,
			Group:    cell(rec, cols[FieldGroup]),
			Category: cell(rec, cols[FieldCategory]),
			Revenue:  rev,
			Quantity: 1,
		}
		if hasItem {
			row.Item = cell(rec, itemCol)
		}
		if hasCust {
			row.Customer = cell(rec, custCol)
		}
		if hasSub {
			row.Subgroup = cell(rec, subCol)
		}
		if hasQty {
			if q, ok := parseNumber(cell(rec, qtyCol)); ok {
				row.Quantity = q
			}
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		log.Printf("⚠️  dataset: dropped %d rows with bad date/revenue", dropped)
	}

	return &Dataset{Rows: rows, Caps: caps}, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ============================================================================
// STORE — lazy, process-lifetime dataset cache
// ============================================================================

// Store loads the dataset on first access and caches it. A failed load is
// not cached: the next access retries, so a fixed file is picked up
// without a restart.
type Store struct {
	mu   sync.Mutex
	path string
	ds   *Dataset
}

// NewStore returns a Store that will read path on first Get.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the loaded dataset, loading it on first call.
func (s *Store) Get() (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ds != nil {
		return s.ds, nil
	}

	ds, err := LoadFile(s.path)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ dataset: loaded %d rows from %s", len(ds.Rows), s.path)
	s.ds = ds
	return s.ds, nil
}
