// Package hook executes the runnable checks declared by a library's
// validation entries: gate 3 of the executable spec. Every failure mode
// (unknown type, missing command, exit mismatch, timeout) becomes a failed
// Result with a descriptive error; nothing here raises past the caller.
package hook

import "fmt"

// Type is the closed set of supported hook kinds.
type Type string

const (
	// TypeCommand spawns a shell command with a configurable timeout and
	// expected exit code.
	TypeCommand Type = "command"
	// TypeAssertion is a command whose only contract is "exits zero iff
	// true": fixed 30s timeout, expected exit 0, overrides ignored.
	TypeAssertion Type = "assertion"
)

// ParseType maps a declared hook type string onto the closed enum.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeCommand:
		return TypeCommand, nil
	case TypeAssertion:
		return TypeAssertion, nil
	}
	return "", fmt.Errorf("unsupported hook type %q (expected command or assertion)", s)
}

// Result captures one hook execution.
type Result struct {
	Description string `json:"description"`
	HookType    string `json:"hook_type"`
	Passed      bool   `json:"passed"`
	ExitCode    int    `json:"exit_code"`
	Stdout      string `json:"stdout,omitempty"`
	Stderr      string `json:"stderr,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}
