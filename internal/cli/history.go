package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"libgov/internal/history"
)

var (
	histDB      string
	histLibrary string
	histFormat  string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&histDB, "db", defaultHistoryPath(), "Path to the conformance history database")
	historyCmd.Flags().StringVar(&histLibrary, "library", "", "Library whose runs to list (required)")
	historyCmd.Flags().StringVarP(&histFormat, "format", "f", "text", "Output format (text|json)")
	historyCmd.MarkFlagRequired("library")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conformance runs for a library",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(histDB)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.History(histLibrary)
		if err != nil {
			return err
		}

		if histFormat == "json" {
			return printJSON(entries)
		}
		for _, e := range entries {
			fmt.Printf("%s  %s %s  schema=%s semantic=%s hooks=%s  %dms\n",
				e.RanAt, e.LibraryName, e.LibraryVersion,
				passFail(e.SchemaPassed), passFail(e.SemanticPassed), passFail(e.HooksPassed),
				e.DurationMS)
		}
		return nil
	},
}
