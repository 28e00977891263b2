package policy

import "testing"

func TestEmptySetAllows(t *testing.T) {
	set := &Set{}
	d := set.Evaluate(Context{LibraryName: "anything"})

	if d.Action != ActionAllow {
		t.Errorf("action = %s, want allow", d.Action)
	}
	if !d.Allowed() {
		t.Error("empty set must allow")
	}
	if len(d.AppliedRules) != 0 {
		t.Errorf("applied rules = %d, want 0", len(d.AppliedRules))
	}
}

func TestDenyDominatesRegardlessOfOrder(t *testing.T) {
	allow := Rule{Name: "allow-all", Scope: ScopeAll, Action: ActionAllow}
	deny := Rule{Name: "deny-all", Scope: ScopeAll, Action: ActionDeny}

	orders := [][]Rule{
		{allow, deny},
		{deny, allow},
		{allow, deny, allow},
	}
	for _, rules := range orders {
		set := &Set{Rules: rules}
		d := set.Evaluate(Context{LibraryName: "lib"})
		if d.Action != ActionDeny {
			t.Errorf("rules %v: action = %s, want deny", rules, d.Action)
		}
	}
}

func TestRequireApprovalEscalation(t *testing.T) {
	set := &Set{Rules: []Rule{
		{Name: "allow-all", Scope: ScopeAll, Action: ActionAllow},
		{Name: "gate", Scope: ScopeAll, Action: ActionRequireApproval},
	}}

	d := set.Evaluate(Context{LibraryName: "lib"})
	if d.Action != ActionRequireApproval {
		t.Errorf("action = %s, want require_approval", d.Action)
	}

	set.Rules = append(set.Rules, Rule{Name: "deny", Scope: ScopeAll, Action: ActionDeny})
	d = set.Evaluate(Context{LibraryName: "lib"})
	if d.Action != ActionDeny {
		t.Errorf("action = %s, want deny after escalation", d.Action)
	}
}

func TestAppliedRulesCollectsAllMatches(t *testing.T) {
	set := &Set{Rules: []Rule{
		{Name: "a", Scope: ScopeAll, Action: ActionAllow},
		{Name: "b", Scope: ScopeLibrary, Action: ActionDeny, Patterns: []string{"other-*"}},
		{Name: "c", Scope: ScopeAll, Action: ActionRequireApproval},
	}}

	d := set.Evaluate(Context{LibraryName: "lib"})
	if len(d.AppliedRules) != 2 {
		t.Fatalf("applied rules = %d, want 2", len(d.AppliedRules))
	}
	if d.AppliedRules[0].Name != "a" || d.AppliedRules[1].Name != "c" {
		t.Errorf("unexpected applied rules: %+v", d.AppliedRules)
	}
}

func TestLibraryScopeGlob(t *testing.T) {
	rule := Rule{Scope: ScopeLibrary, Action: ActionDeny, Patterns: []string{"internal-*"}}

	if !rule.Matches(Context{LibraryName: "internal-auth"}) {
		t.Error("internal-auth should match internal-*")
	}
	if rule.Matches(Context{LibraryName: "public-auth"}) {
		t.Error("public-auth should not match internal-*")
	}
}

func TestFileScopeGlob(t *testing.T) {
	rule := Rule{Scope: ScopeFile, Action: ActionDeny, Patterns: []string{"**/*.env"}}

	if !rule.Matches(Context{TargetFiles: []string{"config/prod.env"}}) {
		t.Error("config/prod.env should match **/*.env")
	}
	if rule.Matches(Context{TargetFiles: []string{"config/prod.yaml"}}) {
		t.Error("config/prod.yaml should not match **/*.env")
	}
}

func TestDirectoryScopePrefix(t *testing.T) {
	rule := Rule{Scope: ScopeDirectory, Action: ActionRequireApproval, Patterns: []string{"migrations/"}}

	if !rule.Matches(Context{TargetFiles: []string{"migrations/0001_init.sql"}}) {
		t.Error("file under migrations/ should match")
	}
	if rule.Matches(Context{TargetFiles: []string{"src/migrations.go"}}) {
		t.Error("prefix match is on the path, not a substring")
	}
}

func TestCapabilityScopeIsExact(t *testing.T) {
	rule := Rule{Scope: ScopeCapability, Action: ActionDeny, Patterns: []string{"process_exec"}}

	if !rule.Matches(Context{CapabilitiesUsed: []string{"process_exec"}}) {
		t.Error("exact capability should match")
	}
	if rule.Matches(Context{CapabilitiesUsed: []string{"process_exec_extended"}}) {
		t.Error("capability matching must be exact, not prefix")
	}
	star := Rule{Scope: ScopeCapability, Action: ActionDeny, Patterns: []string{"process_*"}}
	if star.Matches(Context{CapabilitiesUsed: []string{"process_exec"}}) {
		t.Error("capability patterns are literals, not globs")
	}
}

func TestEvaluationIsOrderFree(t *testing.T) {
	rules := []Rule{
		{Name: "a", Scope: ScopeAll, Action: ActionAllow},
		{Name: "b", Scope: ScopeAll, Action: ActionRequireApproval},
		{Name: "c", Scope: ScopeAll, Action: ActionDeny},
	}
	perms := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}, {2, 0, 1}}

	for _, p := range perms {
		set := &Set{Rules: []Rule{rules[p[0]], rules[p[1]], rules[p[2]]}}
		d := set.Evaluate(Context{LibraryName: "lib"})
		if d.Action != ActionDeny {
			t.Errorf("permutation %v: action = %s, want deny", p, d.Action)
		}
	}
}
