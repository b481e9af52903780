// Package insight is a natural-language analytics service for the
// Anandhaas restaurant sales dataset.
//
// A free-text question (English or Tamil) is translated by a hosted LLM
// into a visualization plan; the plan is normalized, applied to the
// in-memory dataset, and the result is returned as chart-ready data plus
// a one-line summary, with PDF export and Slack delivery of the last
// generated report.
//
// The computation pipeline is fully deterministic: given the same Plan
// and dataset, the engine produces the same chart data and summary. Only
// the planner, translation, and speech collaborators call external
// services; the engine and normalizer never do.
package insight
