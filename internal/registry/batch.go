// Package registry runs the conformance pipeline across a whole directory
// of library documents. Each document's pipeline is failure-isolated: one
// fault is recorded against its item and the batch continues, so partial
// results are always available.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"libgov/internal/runner"
)

// Item is the outcome for one document in the batch: a result, or the
// fault that prevented one.
type Item struct {
	Path   string         `json:"path"`
	Result *runner.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Summary aggregates a batch run.
type Summary struct {
	Pattern string `json:"pattern"`
	Total   int    `json:"total"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Faulted int    `json:"faulted"`
	Items   []Item `json:"items"`
}

// RunAll runs conformance over every document matching the glob pattern
// (doublestar syntax, e.g. "registry/**/*.yaml"). Matching no files is an
// error; anything after that is partial results.
func RunAll(ctx context.Context, r *runner.Runner, pattern string) (*Summary, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("registry: invalid pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("registry: no documents match %q", pattern)
	}
	sort.Strings(matches)

	summary := &Summary{
		Pattern: pattern,
		Total:   len(matches),
	}

	for _, path := range matches {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		item := Item{Path: path}
		res, err := r.RunFile(ctx, path)
		if err != nil {
			item.Error = err.Error()
			summary.Faulted++
		} else {
			item.Result = res
			if res.AllPassed() {
				summary.Passed++
			} else {
				summary.Failed++
			}
		}
		summary.Items = append(summary.Items, item)
	}

	return summary, nil
}
