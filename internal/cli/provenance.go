package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"libgov/internal/provenance"
)

var (
	provLedger   string
	provLibrary  string
	provVersion  string
	provBy       string
	provRepo     string
	provBranch   string
	provPassed   bool
	provEvidence string
	provCommit   string
	provFormat   string
)

func init() {
	rootCmd.AddCommand(provenanceCmd)
	provenanceCmd.PersistentFlags().StringVar(&provLedger, "ledger", defaultLedgerPath(), "Path to the provenance ledger")

	provenanceCmd.AddCommand(provRecordCmd)
	provRecordCmd.Flags().StringVar(&provLibrary, "library", "", "Library name (required)")
	provRecordCmd.Flags().StringVar(&provVersion, "version", "", "Library version (required)")
	provRecordCmd.Flags().StringVar(&provBy, "by", "", "Who applied the library")
	provRecordCmd.Flags().StringVar(&provRepo, "repo", "", "Target repository")
	provRecordCmd.Flags().StringVar(&provBranch, "branch", "", "Target branch")
	provRecordCmd.Flags().BoolVar(&provPassed, "passed", false, "Whether validation passed at apply time")
	provRecordCmd.Flags().StringVar(&provEvidence, "evidence", "", "Validation evidence reference")
	provRecordCmd.Flags().StringVar(&provCommit, "commit", "", "Commit SHA of the application")
	provRecordCmd.MarkFlagRequired("library")
	provRecordCmd.MarkFlagRequired("version")

	provenanceCmd.AddCommand(provHistoryCmd)
	provHistoryCmd.Flags().StringVar(&provLibrary, "library", "", "Filter to one library name")
	provHistoryCmd.Flags().StringVarP(&provFormat, "format", "f", "text", "Output format (text|json)")

	provenanceCmd.AddCommand(provLatestCmd)
	provLatestCmd.Flags().StringVar(&provLibrary, "library", "", "Library name (required)")
	provLatestCmd.MarkFlagRequired("library")

	provenanceCmd.AddCommand(provVerifyCmd)
}

var provenanceCmd = &cobra.Command{
	Use:   "provenance",
	Short: "Record and inspect the applied-library ledger",
}

var provRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append an applied-library record to the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := provenance.Open(provLedger)
		if err != nil {
			return err
		}
		defer ledger.Close()

		return ledger.Record(provenance.Record{
			LibraryName:        provLibrary,
			LibraryVersion:     provVersion,
			AppliedBy:          provBy,
			TargetRepo:         provRepo,
			TargetBranch:       provBranch,
			ValidationPassed:   provPassed,
			ValidationEvidence: provEvidence,
			CommitSHA:          provCommit,
		})
	},
}

var provHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List applied-library records in chronological order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := provenance.Open(provLedger)
		if err != nil {
			return err
		}
		defer ledger.Close()

		records, err := ledger.History(provLibrary)
		if err != nil {
			return err
		}

		if provFormat == "json" {
			return printJSON(records)
		}
		for _, rec := range records {
			fmt.Printf("%s  %s %s  repo=%s  validated=%v\n",
				rec.AppliedAt, rec.LibraryName, rec.LibraryVersion, rec.TargetRepo, rec.ValidationPassed)
		}
		return nil
	},
}

var provLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent record for a library",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := provenance.Open(provLedger)
		if err != nil {
			return err
		}
		defer ledger.Close()

		rec, err := ledger.Latest(provLibrary)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("library %q has never been recorded", provLibrary)
		}
		return printJSON(rec)
	},
}

var provVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the ledger's hash chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		result := provenance.Verify(provLedger)
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.Valid {
			return verdictFailed("ledger chain broken")
		}
		return nil
	},
}
