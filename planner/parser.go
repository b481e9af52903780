package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anandhaas/insight/plan"
)

// ============================================================================
// RESPONSE PARSER — model text → RawPlan
// ============================================================================
// Models wrap JSON in markdown fences or chat around it. The parser
// strips fences, cuts out the outermost JSON object, and decodes it.
// Anything without a JSON object is a typed parse failure.
// ============================================================================

// ParseResponse extracts a RawPlan from raw model output.
func ParseResponse(text string) (*plan.RawPlan, error) {
	cleaned := stripFences(text)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response: %q", truncate(cleaned, 120))
	}

	var raw plan.RawPlan
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode plan JSON: %w", err)
	}
	return &raw, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
