package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"libgov/internal/library"
)

const (
	// DefaultCommandTimeout bounds command hooks unless the hook overrides it.
	DefaultCommandTimeout = 60 * time.Second
	// AssertionTimeout is fixed for assertion hooks.
	AssertionTimeout = 30 * time.Second
)

// Executor runs declared hooks in a working directory.
type Executor struct {
	// WorkDir is the default working directory for hooks that do not declare
	// their own. Empty means the process working directory.
	WorkDir string
}

// Run executes one declared hook and returns its result. The result is
// always usable; a hook that cannot run at all comes back failed with an
// explanatory error rather than an exception.
func (e *Executor) Run(ctx context.Context, description string, spec *library.Hook) Result {
	res := Result{
		Description: description,
		HookType:    spec.Type,
	}

	typ, err := ParseType(spec.Type)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if spec.Command == "" {
		res.Error = "hook declares no command"
		return res
	}

	timeout := DefaultCommandTimeout
	expectedExit := spec.ExpectedExitCode
	switch typ {
	case TypeCommand:
		if spec.TimeoutSeconds > 0 {
			timeout = time.Duration(spec.TimeoutSeconds) * time.Second
		}
	case TypeAssertion:
		timeout = AssertionTimeout
		expectedExit = 0
	}

	workDir := spec.WorkingDir
	if workDir == "" {
		workDir = e.WorkDir
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(runCtx, "sh", "-c", spec.Command)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res.DurationMS = time.Since(start).Milliseconds()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if runCtx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		res.Error = fmt.Sprintf("timed out after %s", timeout)
		return res
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Error = fmt.Sprintf("failed to start: %v", runErr)
			return res
		}
	}

	if res.ExitCode == expectedExit {
		res.Passed = true
	} else {
		res.Error = fmt.Sprintf("exit code %d, expected %d", res.ExitCode, expectedExit)
	}
	return res
}
