package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"libgov/internal/library"
	"libgov/internal/schema"
	"libgov/internal/semantic"
)

var validateFormat string

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text|json)")
}

var validateCmd = &cobra.Command{
	Use:   "validate <library.yaml>",
	Short: "Validate a library document (gates 1-2, no hooks)",
	Long: "Runs structural schema validation and the semantic check battery over a\n" +
		"library document without executing any declared hooks.\n\n" +
		"Exit code 0 if both gates pass, 1 otherwise.",
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

// validateReport is the JSON shape for validate-only output.
type validateReport struct {
	LibraryName    string           `json:"library_name"`
	SchemaPassed   bool             `json:"schema_passed"`
	SemanticPassed bool             `json:"semantic_passed"`
	SchemaErrors   []string         `json:"schema_errors,omitempty"`
	Issues         []semantic.Issue `json:"issues,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := library.Read(args[0])
	if err != nil {
		return err
	}
	tree, err := library.ParseTree(data)
	if err != nil {
		return err
	}

	name, _, _ := library.TreeManifest(tree)
	report := validateReport{LibraryName: name}

	report.SchemaErrors = schema.Validate(tree)
	report.SchemaPassed = len(report.SchemaErrors) == 0

	if report.SchemaPassed {
		doc, err := library.Decode(data)
		if err != nil {
			return err
		}
		sem := semantic.Validate(doc)
		report.Issues = sem.Issues
		report.SemanticPassed = sem.Passed()
	}

	if validateFormat == "json" {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printValidateText(report)
	}

	if !report.SchemaPassed || !report.SemanticPassed {
		return verdictFailed("validation failed")
	}
	return nil
}

func printValidateText(r validateReport) {
	fmt.Printf("schema:   %s\n", passFail(r.SchemaPassed))
	for _, e := range r.SchemaErrors {
		fmt.Printf("  error: %s\n", e)
	}
	if !r.SchemaPassed {
		return
	}
	fmt.Printf("semantic: %s\n", passFail(r.SemanticPassed))
	for _, issue := range r.Issues {
		fmt.Printf("  %s [%s] %s (%s)\n", issue.Severity, issue.Code, issue.Message, issue.Path)
	}
}
