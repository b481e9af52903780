package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ============================================================================
// CHART DATA — the wire contract consumed by the dashboard and the PDF
// ============================================================================
// A datum marshals to exactly one of three shapes:
//   single   {"name": ..., "value": ...}
//   dual     {"name": ..., "metric1": ..., "metric2": ...,
//             "metric1_name": ..., "metric2_name": ...}
//   monthly  {"name": ..., "january": ..., "february": ..., ...}
// Monthly JSON is built by hand so month columns keep their plan order;
// a map would shuffle them.
// ============================================================================

// DatumKind selects the wire shape of a Datum.
type DatumKind int

const (
	Single DatumKind = iota
	Dual
	Monthly
)

// MonthCell is one month column of a monthly-comparison datum.
type MonthCell struct {
	Key   string
	Value float64
}

// Datum is one chart data point.
type Datum struct {
	Kind DatumKind
	Name string

	Value float64

	Metric1     float64
	Metric2     float64
	Metric1Name string
	Metric2Name string

	Months []MonthCell
}

// MarshalJSON emits the shape selected by Kind.
func (d Datum) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case Dual:
		return json.Marshal(struct {
			Name        string  `json:"name"`
			Metric1     float64 `json:"metric1"`
			Metric2     float64 `json:"metric2"`
			Metric1Name string  `json:"metric1_name"`
			Metric2Name string  `json:"metric2_name"`
		}{d.Name, d.Metric1, d.Metric2, d.Metric1Name, d.Metric2Name})
	case Monthly:
		var buf bytes.Buffer
		buf.WriteByte('{')
		name, err := json.Marshal(d.Name)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `"name":%s`, name)
		for _, cell := range d.Months {
			key, err := json.Marshal(cell.Key)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(cell.Value)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, `,%s:%s`, key, val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return json.Marshal(struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		}{d.Name, d.Value})
	}
}

// ChartData is the full chart payload of a query result.
type ChartData struct {
	ChartType string  `json:"chart_type"`
	Title     string  `json:"title"`
	XAxis     string  `json:"x_axis"`
	YAxis     string  `json:"y_axis"`
	Data      []Datum `json:"data"`
}
