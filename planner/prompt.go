package planner

import (
	"fmt"
	"strings"

	"github.com/anandhaas/insight/dataset"
)

// ============================================================================
// PROMPT BUILDER — schema-driven plan prompt
// ============================================================================
// The model sees vocabularies and stats, never raw rows. Item and
// customer lists are capped so huge menus don't blow the context.
// ============================================================================

const (
	maxPromptItems     = 50
	maxPromptCustomers = 20
)

// BuildPrompt renders the planning prompt for one query.
func BuildPrompt(query string, summary *dataset.Summary) string {
	var b strings.Builder

	b.WriteString("You are a data visualization planner for a restaurant sales dataset.\n")
	b.WriteString("Convert the user's question into a JSON visualization plan.\n\n")

	b.WriteString("DATASET:\n")
	if summary != nil {
		fmt.Fprintf(&b, "- %d records from %s to %s\n",
			summary.TotalRecords, summary.DateRange.Start, summary.DateRange.End)
		fmt.Fprintf(&b, "- Branches: %s\n", strings.Join(summary.Branches, ", "))
		fmt.Fprintf(&b, "- Groups: %s\n", strings.Join(summary.Groups, ", "))
		fmt.Fprintf(&b, "- Categories: %s\n", strings.Join(summary.Categories, ", "))
		if len(summary.Items) > 0 {
			fmt.Fprintf(&b, "- Items (sample): %s\n", strings.Join(capList(summary.Items, maxPromptItems), ", "))
		}
		if len(summary.Customers) > 0 {
			fmt.Fprintf(&b, "- Customers (sample): %s\n", strings.Join(capList(summary.Customers, maxPromptCustomers), ", "))
		}
		if len(summary.Subgroups) > 0 {
			fmt.Fprintf(&b, "- SubGroups: %s\n", strings.Join(summary.Subgroups, ", "))
		}
	}

	b.WriteString(`
COLUMNS: "Branch Name", "Group Name", "Category", "Item/Service Description",
"Customer/Vendor Name", "SubGroup", "Month", "Date", "Row Total", "Quantity".

RULES:
1. chart_type: "bar" for comparisons, "pie" for share/distribution,
   "line" for trends over time, "dual_bar" when two metrics are asked for.
2. x_axis: the column to group by. Use "Month" for monthly trends and
   "Date" for daily trends.
3. y_axis: "Row Total" for revenue, "Quantity" for units, "count" for
   number of transactions, "dual" when the user wants revenue AND count.
4. aggregation: "sum", "mean", or "count".
5. Filters: put mentioned branches in branch_filters, categories in
   category_filters, items in item_filters, groups in group_filters,
   customers in customer_filters, subgroups in subgroup_filters. Use a
   plain string for one value, a JSON list for several. Copy values from
   the vocabularies above when they match.
6. month_filter: month numbers 1-12 (single number or list).
   year_filter: four-digit years. date_filter: "YYYY-MM-DD", or a
   two-element list [start, end] for a range.
7. limit: top-N when the user says "top 5", "best 3" and so on.
8. dual_metrics: true with y_axis_secondary and aggregation_secondary
   when two metrics are wanted.
9. comparison_type: "monthly" when the user compares across months
   (month-wise breakup per category).
10. title: a short chart title.

Respond with a single JSON object, no commentary:
{"chart_type": "...", "x_axis": "...", "y_axis": "...", "aggregation": "...",
 "category_filters": null, "item_filters": null, "branch_filters": null,
 "group_filters": null, "customer_filters": null, "subgroup_filters": null,
 "month_filter": null, "date_filter": null, "year_filter": null,
 "limit": 0, "title": "...", "dual_metrics": false,
 "y_axis_secondary": "", "aggregation_secondary": "", "comparison_type": ""}

USER QUERY: ` + query + "\n\nRespond with valid JSON only:")

	return b.String()
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
