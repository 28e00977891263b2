package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"libgov/internal/drift"
	"libgov/internal/history"
	"libgov/internal/hook"
	"libgov/internal/policy"
	"libgov/internal/runner"
	"libgov/internal/semantic"
)

// --- Input/Output types ---

// ValidateInput defines parameters for the libgov_validate tool.
type ValidateInput struct {
	Path     string `json:"path" jsonschema:"path to the library document (YAML)"`
	RunHooks bool   `json:"run_hooks,omitempty" jsonschema:"execute declared validation hooks (gate 3)"`
}

// ValidateOutput is the conformance verdict.
type ValidateOutput struct {
	LibraryName      string           `json:"library_name"`
	LibraryVersion   string           `json:"library_version"`
	SchemaPassed     bool             `json:"schema_passed"`
	SemanticPassed   bool             `json:"semantic_passed"`
	AllPassed        bool             `json:"all_passed"`
	SchemaErrors     []string         `json:"schema_errors,omitempty"`
	SemanticErrors   []semantic.Issue `json:"semantic_errors,omitempty"`
	SemanticWarnings []semantic.Issue `json:"semantic_warnings,omitempty"`
	HookResults      []hook.Result    `json:"hook_results,omitempty"`
	TotalDurationMS  int64            `json:"total_duration_ms"`
	Error            string           `json:"error,omitempty"`
}

// CheckPolicyInput mirrors the policy evaluation context.
type CheckPolicyInput struct {
	LibraryName      string   `json:"library_name" jsonschema:"name of the library being applied"`
	LibraryVersion   string   `json:"library_version,omitempty" jsonschema:"version being applied"`
	TargetFiles      []string `json:"target_files,omitempty" jsonschema:"files the application would touch"`
	CapabilitiesUsed []string `json:"capabilities_used,omitempty" jsonschema:"capability names the application uses"`
	TargetRepo       string   `json:"target_repo,omitempty" jsonschema:"target repository"`
	TargetBranch     string   `json:"target_branch,omitempty" jsonschema:"target branch"`
}

// CheckPolicyOutput is the policy decision.
type CheckPolicyOutput struct {
	Action       string        `json:"action"`
	Allowed      bool          `json:"allowed"`
	AppliedRules []policy.Rule `json:"applied_rules,omitempty"`
	PolicyHash   string        `json:"policy_hash,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// CheckDriftInput defines parameters for the libgov_check_drift tool.
type CheckDriftInput struct {
	LibraryName   string `json:"library_name" jsonschema:"library to check"`
	LatestVersion string `json:"latest_version,omitempty" jsonschema:"latest published version, if known"`
	LibraryPath   string `json:"library_path,omitempty" jsonschema:"document path to re-validate against"`
}

// CheckDriftOutput is the drift report.
type CheckDriftOutput struct {
	Report *drift.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// HistoryInput defines parameters for the libgov_history tool.
type HistoryInput struct {
	LibraryName string `json:"library_name" jsonschema:"library whose runs to list"`
}

// HistoryOutput lists recorded conformance runs, most recent first.
type HistoryOutput struct {
	Entries []history.Entry `json:"entries"`
	Error   string          `json:"error,omitempty"`
}

// --- Handlers ---

func (s *Server) handleValidate(ctx context.Context, req *mcpsdk.CallToolRequest, input ValidateInput) (*mcpsdk.CallToolResult, ValidateOutput, error) {
	var res *runner.Result
	var err error
	if input.RunHooks {
		res, err = s.runner.RunFile(ctx, input.Path)
	} else {
		// Validator gates only; declared hooks must not execute.
		res, err = s.runner.ValidateFile(ctx, input.Path)
	}
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ValidateOutput{Error: err.Error()}, nil
	}

	out := ValidateOutput{
		LibraryName:      res.LibraryName,
		LibraryVersion:   res.LibraryVersion,
		SchemaPassed:     res.SchemaPassed,
		SemanticPassed:   res.SemanticPassed,
		AllPassed:        res.AllPassed(),
		SchemaErrors:     res.SchemaErrors,
		SemanticErrors:   res.SemanticErrors,
		SemanticWarnings: res.SemanticWarnings,
		TotalDurationMS:  res.TotalDurationMS,
	}
	if input.RunHooks {
		out.HookResults = res.HookResults
	}
	return nil, out, nil
}

func (s *Server) handleCheckPolicy(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckPolicyInput) (*mcpsdk.CallToolResult, CheckPolicyOutput, error) {
	if s.policySet == nil {
		return &mcpsdk.CallToolResult{IsError: true},
			CheckPolicyOutput{Error: "no policy set configured"}, nil
	}

	decision := s.policySet.Evaluate(policy.Context{
		LibraryName:      input.LibraryName,
		LibraryVersion:   input.LibraryVersion,
		TargetFiles:      input.TargetFiles,
		CapabilitiesUsed: input.CapabilitiesUsed,
		TargetRepo:       input.TargetRepo,
		TargetBranch:     input.TargetBranch,
	})

	return nil, CheckPolicyOutput{
		Action:       string(decision.Action),
		Allowed:      decision.Allowed(),
		AppliedRules: decision.AppliedRules,
		PolicyHash:   s.policyRef,
	}, nil
}

func (s *Server) handleCheckDrift(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckDriftInput) (*mcpsdk.CallToolResult, CheckDriftOutput, error) {
	if s.ledger == nil {
		return &mcpsdk.CallToolResult{IsError: true},
			CheckDriftOutput{Error: "no provenance ledger configured"}, nil
	}

	report, err := s.detector().Check(ctx, input.LibraryName, input.LatestVersion, input.LibraryPath)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, CheckDriftOutput{Error: err.Error()}, nil
	}
	return nil, CheckDriftOutput{Report: report}, nil
}

func (s *Server) handleHistory(ctx context.Context, req *mcpsdk.CallToolRequest, input HistoryInput) (*mcpsdk.CallToolResult, HistoryOutput, error) {
	if s.histStore == nil {
		return &mcpsdk.CallToolResult{IsError: true},
			HistoryOutput{Error: "no history store configured"}, nil
	}

	entries, err := s.histStore.History(input.LibraryName)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, HistoryOutput{Error: err.Error()}, nil
	}
	return nil, HistoryOutput{Entries: entries}, nil
}
