package dataset

import "time"

// ============================================================================
// DATASET — Fixed Anandhaas Sales Row Model
// ============================================================================
// The dataset has a known shape: five required columns plus four optional
// ones. Optional columns are detected once at load time and recorded in
// Capabilities; nothing downstream re-checks column presence per row.
// ============================================================================

// Canonical field names as they appear on the wire and in plans.
const (
	FieldBranch   = "Branch Name"
	FieldGroup    = "Group Name"
	FieldCategory = "Category"
	FieldItem     = "Item/Service Description"
	FieldCustomer = "Customer/Vendor Name"
	FieldSubgroup = "SubGroup"
	FieldMonth    = "Month"
	FieldDate     = "Date"

	MeasureRevenue  = "Row Total"
	MeasureQuantity = "Quantity"
)

// Row is one sales record. Date and Revenue are always valid: rows that
// fail to parse either are dropped by the loaders. Quantity is 1 when the
// source has no Quantity column, so sum(Quantity) degrades to row count.
type Row struct {
	Branch   string
	Date     time.Time
	Group    string
	Category string
	Revenue  float64

	Item     string
	Customer string
	Subgroup string
	Quantity float64
}

// Capabilities records which optional columns the loaded file carried.
type Capabilities struct {
	HasItem     bool
	HasCustomer bool
	HasSubgroup bool
	HasQuantity bool
}

// Dataset is an immutable, fully loaded table of sales rows.
type Dataset struct {
	Rows []Row
	Caps Capabilities
}

// FieldValue returns the categorical value of a named field, or false for
// fields that are not categorical (Date is handled structurally by the
// filter engine, not as a string).
func FieldValue(r Row, field string) (string, bool) {
	switch field {
	case FieldBranch:
		return r.Branch, true
	case FieldGroup:
		return r.Group, true
	case FieldCategory:
		return r.Category, true
	case FieldItem:
		return r.Item, true
	case FieldCustomer:
		return r.Customer, true
	case FieldSubgroup:
		return r.Subgroup, true
	}
	return "", false
}

// MeasureValue returns the numeric value of a named measure. Unknown
// measures resolve to Revenue, matching the plan normalizer's default.
func MeasureValue(r Row, measure string) float64 {
	if measure == MeasureQuantity {
		return r.Quantity
	}
	return r.Revenue
}

// HasField reports whether a categorical field is populated in this
// dataset, consulting Capabilities for the optional columns.
func (d *Dataset) HasField(field string) bool {
	switch field {
	case FieldBranch, FieldGroup, FieldCategory, FieldMonth, FieldDate:
		return true
	case FieldItem:
		return d.Caps.HasItem
	case FieldCustomer:
		return d.Caps.HasCustomer
	case FieldSubgroup:
		return d.Caps.HasSubgroup
	}
	return false
}
