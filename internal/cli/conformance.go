package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"libgov/internal/history"
	"libgov/internal/registry"
	"libgov/internal/runner"
)

var (
	confWorkDir string
	confGlob    string
	confRecord  bool
	confHistory string
	confFormat  string
)

func init() {
	rootCmd.AddCommand(conformanceCmd)
	conformanceCmd.Flags().StringVar(&confWorkDir, "workdir", "", "Working directory for hook execution (default: document directory)")
	conformanceCmd.Flags().StringVar(&confGlob, "glob", "", "Run every document matching a glob pattern instead of a single path")
	conformanceCmd.Flags().BoolVar(&confRecord, "record", false, "Record the run in the conformance history store")
	conformanceCmd.Flags().StringVar(&confHistory, "history", defaultHistoryPath(), "Path to the conformance history database")
	conformanceCmd.Flags().StringVarP(&confFormat, "format", "f", "text", "Output format (text|json)")
}

var conformanceCmd = &cobra.Command{
	Use:   "conformance [library.yaml]",
	Short: "Run the full three-gate conformance pipeline",
	Long: "Runs schema validation, the semantic battery, and every declared\n" +
		"validation hook, producing a single pass/fail verdict with evidence.\n\n" +
		"With --glob, runs every matching document; one document's fault is\n" +
		"recorded and the batch continues.\n\n" +
		"Exit code 0 if everything passes, 1 otherwise.",
	Args: cobra.MaximumNArgs(1),
	RunE: runConformance,
}

func runConformance(cmd *cobra.Command, args []string) error {
	r := runner.New(confWorkDir)

	if confGlob != "" {
		return runConformanceBatch(cmd, r)
	}
	if len(args) != 1 {
		return fmt.Errorf("either a document path or --glob is required")
	}

	res, err := r.RunFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if confRecord {
		store, err := history.Open(confHistory)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.RecordRun(res); err != nil {
			return err
		}
	}

	if confFormat == "json" {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printRunnerText(res)
	}

	if !res.AllPassed() {
		return verdictFailed("conformance failed")
	}
	return nil
}

func runConformanceBatch(cmd *cobra.Command, r *runner.Runner) error {
	summary, err := registry.RunAll(cmd.Context(), r, confGlob)
	if err != nil {
		return err
	}

	if confRecord {
		store, err := history.Open(confHistory)
		if err != nil {
			return err
		}
		defer store.Close()
		for _, item := range summary.Items {
			if item.Result == nil {
				continue
			}
			if _, err := store.RecordRun(item.Result); err != nil {
				return err
			}
		}
	}

	if confFormat == "json" {
		if err := printJSON(summary); err != nil {
			return err
		}
	} else {
		for _, item := range summary.Items {
			switch {
			case item.Error != "":
				fmt.Printf("FAULT %s: %s\n", item.Path, item.Error)
			case item.Result.AllPassed():
				fmt.Printf("PASS  %s\n", item.Path)
			default:
				fmt.Printf("FAIL  %s\n", item.Path)
			}
		}
		fmt.Printf("%d total, %d passed, %d failed, %d faulted\n",
			summary.Total, summary.Passed, summary.Failed, summary.Faulted)
	}

	if summary.Failed > 0 || summary.Faulted > 0 {
		return verdictFailed("conformance failed")
	}
	return nil
}

func printRunnerText(res *runner.Result) {
	fmt.Printf("library:  %s %s\n", res.LibraryName, res.LibraryVersion)
	fmt.Printf("schema:   %s\n", passFail(res.SchemaPassed))
	for _, e := range res.SchemaErrors {
		fmt.Printf("  error: %s\n", e)
	}
	if !res.SchemaPassed {
		return
	}
	fmt.Printf("semantic: %s\n", passFail(res.SemanticPassed))
	for _, issue := range res.SemanticErrors {
		fmt.Printf("  %s [%s] %s (%s)\n", issue.Severity, issue.Code, issue.Message, issue.Path)
	}
	for _, issue := range res.SemanticWarnings {
		fmt.Printf("  %s [%s] %s (%s)\n", issue.Severity, issue.Code, issue.Message, issue.Path)
	}
	if !res.SemanticPassed {
		return
	}
	if len(res.HookResults) == 0 {
		fmt.Println("hooks:    none declared")
	} else {
		fmt.Printf("hooks:    %s\n", passFail(res.HooksPassed()))
		for _, hr := range res.HookResults {
			status := passFail(hr.Passed)
			fmt.Printf("  %s %s (%dms)", status, hr.Description, hr.DurationMS)
			if hr.Error != "" {
				fmt.Printf(": %s", hr.Error)
			}
			fmt.Println()
		}
	}
	fmt.Printf("verdict:  %s (%dms)\n", passFail(res.AllPassed()), res.TotalDurationMS)
}
