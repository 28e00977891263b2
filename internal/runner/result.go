package runner

import (
	"libgov/internal/hook"
	"libgov/internal/semantic"
)

// Result is the aggregated verdict of one conformance run: the outcomes of
// all three gates plus timing. It is immutable after construction and is the
// shared contract between the runner, the conformance history store, and the
// drift detector.
type Result struct {
	RunID            string           `json:"run_id"`
	LibraryName      string           `json:"library_name"`
	LibraryVersion   string           `json:"library_version"`
	SpecVersion      string           `json:"spec_version"`
	SchemaPassed     bool             `json:"schema_passed"`
	SemanticPassed   bool             `json:"semantic_passed"`
	SchemaErrors     []string         `json:"schema_errors,omitempty"`
	SemanticErrors   []semantic.Issue `json:"semantic_errors,omitempty"`
	SemanticWarnings []semantic.Issue `json:"semantic_warnings,omitempty"`
	HookResults      []hook.Result    `json:"hook_results,omitempty"`
	TotalDurationMS  int64            `json:"total_duration_ms"`
}

// HooksPassed reports whether every executed hook passed. Vacuously true
// when no hooks were declared.
func (r *Result) HooksPassed() bool {
	for _, hr := range r.HookResults {
		if !hr.Passed {
			return false
		}
	}
	return true
}

// AllPassed reports the single pass/fail verdict: both validator gates plus
// every hook.
func (r *Result) AllPassed() bool {
	return r.SchemaPassed && r.SemanticPassed && r.HooksPassed()
}
