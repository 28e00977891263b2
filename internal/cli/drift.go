package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"libgov/internal/drift"
	"libgov/internal/provenance"
	"libgov/internal/runner"
)

var (
	driftLedger  string
	driftLibrary string
	driftLatest  string
	driftPath    string
	driftWorkDir string
	driftFormat  string
)

func init() {
	rootCmd.AddCommand(driftCmd)
	driftCmd.Flags().StringVar(&driftLedger, "ledger", defaultLedgerPath(), "Path to the provenance ledger")
	driftCmd.Flags().StringVar(&driftLibrary, "library", "", "Library to check (omit to check every recorded library)")
	driftCmd.Flags().StringVar(&driftLatest, "latest", "", "Latest published version to compare against")
	driftCmd.Flags().StringVar(&driftPath, "path", "", "Library document path to re-validate against")
	driftCmd.Flags().StringVar(&driftWorkDir, "workdir", "", "Working directory for hook execution during re-validation")
	driftCmd.Flags().StringVarP(&driftFormat, "format", "f", "text", "Output format (text|json)")
}

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Check applied libraries for drift from their source of truth",
	Long: "Compares the provenance ledger's latest record against the latest\n" +
		"published version (--latest) and, with --path, re-runs the full\n" +
		"conformance pipeline against the current repository state.\n\n" +
		"Exit code 0 if no drift, 1 if any drift detected.",
	RunE: runDrift,
}

func runDrift(cmd *cobra.Command, args []string) error {
	ledger, err := provenance.Open(driftLedger)
	if err != nil {
		return err
	}
	defer ledger.Close()

	detector := drift.NewDetector(ledger, runner.New(driftWorkDir))

	var reports []*drift.Report
	if driftLibrary != "" {
		report, err := detector.Check(cmd.Context(), driftLibrary, driftLatest, driftPath)
		if err != nil {
			return err
		}
		reports = []*drift.Report{report}
	} else {
		reports, err = detector.CheckAll(cmd.Context())
		if err != nil {
			return err
		}
	}

	if driftFormat == "json" {
		if err := printJSON(reports); err != nil {
			return err
		}
	} else {
		printDriftText(reports)
	}

	for _, report := range reports {
		if report.HasDrift() {
			return verdictFailed("drift detected")
		}
	}
	return nil
}

func printDriftText(reports []*drift.Report) {
	for _, r := range reports {
		status := "clean"
		if r.HasDrift() {
			types := make([]string, len(r.DriftTypes))
			for i, t := range r.DriftTypes {
				types[i] = string(t)
			}
			status = strings.Join(types, ", ")
		}
		fmt.Printf("%s (applied %s): %s\n", r.LibraryName, r.AppliedVersion, status)
		for _, detail := range r.Details {
			fmt.Printf("  %s\n", detail)
		}
	}
}
