// Package planner turns an English question plus a dataset summary into
// a raw visualization plan by calling a hosted LLM. Nothing downstream
// trusts its output: the plan normalizer owns defaulting and validation.
package planner

import (
	"context"
	"fmt"

	"github.com/anandhaas/insight/dataset"
	"github.com/anandhaas/insight/plan"
)

// Planner produces a raw plan for an English query. Implementations make
// exactly one attempt; retries are nobody's business in this pipeline.
type Planner interface {
	Plan(ctx context.Context, query string, summary *dataset.Summary) (*plan.RawPlan, error)
}

// PlanError wraps a planning failure. The cause is logged server-side,
// never leaked to API clients.
type PlanError struct {
	Stage string // "request", "response", "parse"
	Err   error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan %s failed: %v", e.Stage, e.Err)
}

func (e *PlanError) Unwrap() error { return e.Err }
