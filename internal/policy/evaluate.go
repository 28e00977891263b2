package policy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Evaluate matches every rule in the set against the context and escalates
// the matching actions into a final decision. Evaluation never fails: an
// empty or non-matching set yields allow.
//
// Escalation is deterministic and order-free: any matching deny wins; else
// any matching require_approval wins; else allow. A single deny cannot be
// overridden by any number of allow rules.
func (s *Set) Evaluate(ctx Context) Decision {
	decision := Decision{
		Action:  ActionAllow,
		Context: ctx,
	}

	for _, rule := range s.Rules {
		if !rule.Matches(ctx) {
			continue
		}
		decision.AppliedRules = append(decision.AppliedRules, rule)

		switch rule.Action {
		case ActionDeny:
			decision.Action = ActionDeny
		case ActionRequireApproval:
			if decision.Action != ActionDeny {
				decision.Action = ActionRequireApproval
			}
		}
	}

	return decision
}

// Matches reports whether the rule applies to the context, using
// scope-specific pattern interpretation.
func (r *Rule) Matches(ctx Context) bool {
	switch r.Scope {
	case ScopeAll:
		return true

	case ScopeLibrary:
		for _, pattern := range r.Patterns {
			if globMatch(pattern, ctx.LibraryName) {
				return true
			}
		}

	case ScopeFile:
		for _, file := range ctx.TargetFiles {
			for _, pattern := range r.Patterns {
				if globMatch(pattern, file) {
					return true
				}
			}
		}

	case ScopeDirectory:
		for _, file := range ctx.TargetFiles {
			for _, pattern := range r.Patterns {
				prefix := strings.TrimSuffix(pattern, "/")
				if prefix != "" && strings.HasPrefix(file, prefix) {
					return true
				}
			}
		}

	case ScopeCapability:
		// Exact membership, not glob.
		for _, used := range ctx.CapabilitiesUsed {
			for _, pattern := range r.Patterns {
				if used == pattern {
					return true
				}
			}
		}
	}

	return false
}

func globMatch(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
