// Package runner orchestrates the three-gate executable spec: structural
// schema validation, semantic validation, then declared hook execution.
// Later gates only run if earlier gates pass; hook failures are isolated
// from one another and from the caller.
package runner

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"libgov/internal/hook"
	"libgov/internal/library"
	"libgov/internal/schema"
	"libgov/internal/semantic"
)

// Runner executes the conformance pipeline against library documents.
type Runner struct {
	executor hook.Executor
}

// New creates a Runner whose hooks run in workDir by default.
func New(workDir string) *Runner {
	return &Runner{executor: hook.Executor{WorkDir: workDir}}
}

// RunFile resolves, parses, and runs a library document from disk. Errors
// are input-resolution faults only (missing file, unparseable YAML): a
// document that parses always produces a Result, however invalid.
func (r *Runner) RunFile(ctx context.Context, path string) (*Result, error) {
	data, err := library.Read(path)
	if err != nil {
		return nil, err
	}

	tree, err := library.ParseTree(data)
	if err != nil {
		return nil, err
	}

	if r.executor.WorkDir == "" {
		// Relative hook commands resolve against the document's directory.
		return r.runTree(ctx, tree, data, filepath.Dir(path), true), nil
	}
	return r.runTree(ctx, tree, data, r.executor.WorkDir, true), nil
}

// ValidateFile runs the two validator gates only. Declared hooks are never
// executed, so the verdict covers structure and semantics alone.
func (r *Runner) ValidateFile(ctx context.Context, path string) (*Result, error) {
	data, err := library.Read(path)
	if err != nil {
		return nil, err
	}

	tree, err := library.ParseTree(data)
	if err != nil {
		return nil, err
	}

	return r.runTree(ctx, tree, data, "", false), nil
}

// Run executes the pipeline over an already-parsed document tree.
func (r *Runner) Run(ctx context.Context, tree map[string]any, data []byte) *Result {
	return r.runTree(ctx, tree, data, r.executor.WorkDir, true)
}

func (r *Runner) runTree(ctx context.Context, tree map[string]any, data []byte, workDir string, runHooks bool) *Result {
	start := time.Now()
	name, version, specVersion := library.TreeManifest(tree)
	res := &Result{
		RunID:          uuid.NewString(),
		LibraryName:    name,
		LibraryVersion: version,
		SpecVersion:    specVersion,
	}

	// Gate 1: structure. Failure short-circuits; the semantic verdict stays
	// at its false default and no hooks run.
	res.SchemaErrors = schema.Validate(tree)
	res.SchemaPassed = len(res.SchemaErrors) == 0
	if !res.SchemaPassed {
		res.TotalDurationMS = time.Since(start).Milliseconds()
		return res
	}

	doc, err := library.Decode(data)
	if err != nil {
		// A tree that passed the schema gate decodes cleanly; anything else
		// is reported as a structural failure rather than raised.
		res.SchemaPassed = false
		res.SchemaErrors = []string{err.Error()}
		res.TotalDurationMS = time.Since(start).Milliseconds()
		return res
	}

	// Gate 2: semantics.
	sem := semantic.Validate(doc)
	res.SemanticErrors = sem.Errors()
	res.SemanticWarnings = sem.Warnings()
	res.SemanticPassed = sem.Passed()
	if !res.SemanticPassed || !runHooks {
		res.TotalDurationMS = time.Since(start).Milliseconds()
		return res
	}

	// Gate 3: hooks. Each runs independently; one failure does not stop the
	// rest.
	executor := hook.Executor{WorkDir: workDir}
	for _, v := range doc.Validation {
		if v.Hook == nil {
			continue
		}
		res.HookResults = append(res.HookResults, executor.Run(ctx, v.Description, v.Hook))
	}

	res.TotalDurationMS = time.Since(start).Milliseconds()
	return res
}
