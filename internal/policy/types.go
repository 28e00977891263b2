// Package policy evaluates declarative rules against a proposed library
// application and produces a single deterministic decision: allow, deny, or
// require_approval. Deny always dominates, regardless of rule order.
package policy

import "fmt"

// Scope is the dimension a rule is matched against.
type Scope string

const (
	ScopeFile       Scope = "file"
	ScopeDirectory  Scope = "directory"
	ScopeCapability Scope = "capability"
	ScopeLibrary    Scope = "library"
	ScopeAll        Scope = "all"
)

// ParseScope maps a declared scope string onto the closed enum. Authoring
// mistakes are caught here, at load time, not at evaluation time.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeFile, ScopeDirectory, ScopeCapability, ScopeLibrary, ScopeAll:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown policy scope %q (expected file, directory, capability, library, or all)", s)
}

// Action is a rule's outcome when it matches.
type Action string

const (
	ActionAllow           Action = "allow"
	ActionDeny            Action = "deny"
	ActionRequireApproval Action = "require_approval"
)

// ParseAction maps a declared action string onto the closed enum.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAllow, ActionDeny, ActionRequireApproval:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown policy action %q (expected allow, deny, or require_approval)", s)
}

// Rule is one declarative policy rule. Immutable once loaded; scope and
// action are already parsed into their closed enums.
type Rule struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Scope       Scope             `json:"scope"`
	Action      Action            `json:"action"`
	Patterns    []string          `json:"patterns"`
	Conditions  map[string]string `json:"conditions,omitempty"`
	Rationale   string            `json:"rationale,omitempty"`
}

// Set is an ordered collection of rules. Order affects only which rules are
// reported as applied, never the final decision.
type Set struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules"`
}

// Context describes the proposed change being evaluated.
type Context struct {
	LibraryName      string   `json:"library_name"`
	LibraryVersion   string   `json:"library_version,omitempty"`
	TargetFiles      []string `json:"target_files,omitempty"`
	CapabilitiesUsed []string `json:"capabilities_used,omitempty"`
	TargetRepo       string   `json:"target_repo,omitempty"`
	TargetBranch     string   `json:"target_branch,omitempty"`
}

// Decision is the evaluation outcome: the escalated final action plus every
// rule that matched, not just the deciding one.
type Decision struct {
	Action       Action  `json:"action"`
	AppliedRules []Rule  `json:"applied_rules"`
	Context      Context `json:"context"`
}

// Allowed reports whether the final action permits the change outright.
func (d *Decision) Allowed() bool {
	return d.Action == ActionAllow
}
