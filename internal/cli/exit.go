package cli

import "fmt"

// exitError carries a specific process exit code through cobra's error path.
// Verdict failures use code 1; input-resolution faults and load errors take
// the default fault code instead.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func verdictFailed(msg string) error {
	return &exitError{code: 1, msg: msg}
}
