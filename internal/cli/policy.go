package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"libgov/internal/policy"
)

var (
	policyPath         string
	policyLibrary      string
	policyVersion      string
	policyFiles        []string
	policyCapabilities []string
	policyRepo         string
	policyBranch       string
	policyFormat       string
)

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.Flags().StringVar(&policyPath, "policy", "", "Path to the policy set YAML (required)")
	policyCmd.Flags().StringVar(&policyLibrary, "library", "", "Library name being applied (required)")
	policyCmd.Flags().StringVar(&policyVersion, "version", "", "Library version being applied")
	policyCmd.Flags().StringSliceVar(&policyFiles, "file", nil, "Target file the application would touch (repeatable)")
	policyCmd.Flags().StringSliceVar(&policyCapabilities, "capability", nil, "Capability name the application uses (repeatable)")
	policyCmd.Flags().StringVar(&policyRepo, "repo", "", "Target repository")
	policyCmd.Flags().StringVar(&policyBranch, "branch", "", "Target branch")
	policyCmd.Flags().StringVarP(&policyFormat, "format", "f", "text", "Output format (text|json)")
	policyCmd.MarkFlagRequired("policy")
	policyCmd.MarkFlagRequired("library")
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Evaluate a proposed library application against a policy set",
	Long: "Matches every rule in the policy set against the proposed change and\n" +
		"reports the escalated decision: deny beats require_approval beats allow,\n" +
		"regardless of rule order.\n\n" +
		"Exit code 0 for allow, 1 for deny, 3 for require_approval.",
	RunE: runPolicy,
}

func runPolicy(cmd *cobra.Command, args []string) error {
	set, hash, err := policy.Load(policyPath)
	if err != nil {
		return err
	}

	decision := set.Evaluate(policy.Context{
		LibraryName:      policyLibrary,
		LibraryVersion:   policyVersion,
		TargetFiles:      policyFiles,
		CapabilitiesUsed: policyCapabilities,
		TargetRepo:       policyRepo,
		TargetBranch:     policyBranch,
	})

	if policyFormat == "json" {
		out := struct {
			policy.Decision
			PolicyHash string `json:"policy_hash"`
		}{decision, hash}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		fmt.Printf("decision: %s\n", decision.Action)
		for _, rule := range decision.AppliedRules {
			name := rule.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  matched %s [%s/%s]\n", name, rule.Scope, rule.Action)
		}
	}

	switch decision.Action {
	case policy.ActionDeny:
		return verdictFailed("denied by policy")
	case policy.ActionRequireApproval:
		// Distinct exit code so wrappers can route to a human.
		return &exitError{code: 3, msg: "approval required"}
	}
	return nil
}
