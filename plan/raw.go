package plan

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ============================================================================
// RAW PLAN — LLM wire contract
// ============================================================================
// The model is asked for JSON but is not trusted to produce clean types:
// filter fields may arrive as a scalar or a list, numbers as strings, and
// whole fields may be garbage. Flex types absorb the scalar-vs-list
// ambiguity; anything malformed decodes to an empty value instead of
// failing the whole plan.
// ============================================================================

// FlexStrings decodes either a JSON string or a list of strings. List
// records whether the source was a list, which decides Equals vs In
// during normalization.
type FlexStrings struct {
	Items []string
	List  bool
}

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one != "" {
			f.Items = []string{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		f.List = true
		for _, s := range many {
			if s != "" {
				f.Items = append(f.Items, s)
			}
		}
		return nil
	}
	// Malformed field: ignore, never fail the plan.
	return nil
}

// FlexInts decodes a JSON number, numeric string, or list of either.
type FlexInts struct {
	Items []int
	List  bool
}

func (f *FlexInts) UnmarshalJSON(data []byte) error {
	if n, ok := decodeInt(data); ok {
		f.Items = []int{n}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		f.List = true
		for _, el := range raw {
			if n, ok := decodeInt(el); ok {
				f.Items = append(f.Items, n)
			}
		}
		return nil
	}
	return nil
}

func decodeInt(data []byte) (int, bool) {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, true
	}
	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		return int(fl), true
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// RawPlan mirrors the JSON the planner prompt asks the model for.
type RawPlan struct {
	ChartType string `json:"chart_type"`
	XAxis     string `json:"x_axis"`
	YAxis     string `json:"y_axis"`
	YAxis2    string `json:"y_axis_secondary"`
	Agg       string `json:"aggregation"`
	Agg2      string `json:"aggregation_secondary"`

	CategoryFilters FlexStrings `json:"category_filters"`
	ItemFilters     FlexStrings `json:"item_filters"`
	BranchFilters   FlexStrings `json:"branch_filters"`
	GroupFilters    FlexStrings `json:"group_filters"`
	CustomerFilters FlexStrings `json:"customer_filters"`
	SubgroupFilters FlexStrings `json:"subgroup_filters"`

	MonthFilter FlexInts    `json:"month_filter"`
	DateFilter  FlexStrings `json:"date_filter"`
	YearFilter  FlexInts    `json:"year_filter"`

	Limit          int    `json:"limit"`
	Title          string `json:"title"`
	DualMetrics    bool   `json:"dual_metrics"`
	ComparisonType string `json:"comparison_type"`
}
