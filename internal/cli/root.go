// Package cli wires the libgov core into cobra commands. Commands are thin:
// they load inputs, call the core, and print its contracts as text or JSON
// without transforming pass/fail semantics.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// defaultStateDir is the repo-local directory for ledgers and history.
const defaultStateDir = ".libgov"

var rootCmd = &cobra.Command{
	Use:   "libgov",
	Short: "Executable-spec governance for agentic libraries",
	Long: "Validates agentic library documents through a three-gate executable spec\n" +
		"(schema, semantics, runnable hooks), evaluates application policy, and\n" +
		"tracks provenance and drift of applied libraries.",
	SilenceUsage: true,
}

// Execute runs the root command. Failed verdicts exit 1, input-resolution
// faults and load errors exit 2, require_approval decisions exit 3.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(2)
	}
}

func defaultLedgerPath() string {
	return defaultStateDir + "/provenance.jsonl"
}

func defaultHistoryPath() string {
	return defaultStateDir + "/history.db"
}
