package semantic

import (
	"fmt"
	"strings"

	"libgov/internal/library"
)

// minGuardrailRuleLen is the floor below which a guardrail rule is too terse
// to act on.
const minGuardrailRuleLen = 15

// Validate runs the full fixed battery of semantic checks. Every check is
// independent and total: all of them run regardless of what the others
// found. The validator is a pure function of the document.
func Validate(doc *library.Document) *Result {
	r := &Result{}

	checkSpecVersion(doc, r)
	checkInstructionOrder(doc, r)
	checkCapabilityClosure(doc, r)
	checkGuardrails(doc, r)
	checkValidationHooks(doc, r)
	checkExampleTargets(doc, r)
	checkAbstractionBoundary(doc, r)

	return r
}

func (r *Result) add(sev Severity, code, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
	})
}

func checkSpecVersion(doc *library.Document, r *Result) {
	if doc.Manifest.SpecVersion == "" {
		r.add(SeverityError, CodeSpecVersionMissing, "manifest.spec_version",
			"manifest does not declare a spec_version")
	}
}

func checkInstructionOrder(doc *library.Document, r *Result) {
	actual := make([]int, len(doc.Instructions))
	ordered := true
	for i, inst := range doc.Instructions {
		actual[i] = inst.Step
		if inst.Step != i+1 {
			ordered = false
		}
	}
	if !ordered {
		expected := make([]int, len(doc.Instructions))
		for i := range expected {
			expected[i] = i + 1
		}
		r.add(SeverityError, CodeInstructionOrder, "instructions",
			"instruction steps are %v, expected %v", actual, expected)
	}
}

func checkCapabilityClosure(doc *library.Document, r *Result) {
	declared := doc.DeclaredCapabilities()
	for i, inst := range doc.Instructions {
		for _, name := range inst.CapabilitiesUsed {
			if !declared[name] {
				r.add(SeverityError, CodeUndeclaredCapability,
					fmt.Sprintf("instructions[%d].capabilities_used", i),
					"step %d uses capability %q which is not declared in capability_dependencies",
					inst.Step, name)
			}
		}
	}
}

func checkGuardrails(doc *library.Document, r *Result) {
	for i, g := range doc.Guardrails {
		path := fmt.Sprintf("guardrails[%d]", i)
		if g.Severity == "must" && g.Enforcement == "" {
			r.add(SeverityWarning, CodeGuardrailEnforcementMissing, path,
				"must-severity guardrail %q declares no enforcement", truncate(g.Rule, 60))
		}
		if len(g.Rule) < minGuardrailRuleLen {
			r.add(SeverityWarning, CodeGuardrailTooTerse, path,
				"guardrail rule %q is too terse to act on (%d chars, want >= %d)",
				g.Rule, len(g.Rule), minGuardrailRuleLen)
		}
	}
}

func checkValidationHooks(doc *library.Document, r *Result) {
	for _, v := range doc.Validation {
		if v.Hook != nil {
			return
		}
	}
	r.add(SeverityWarning, CodeNoValidationHooks, "validation",
		"no validation entry declares a runnable hook; conformance is advisory-only")
}

func checkExampleTargets(doc *library.Document, r *Result) {
	if len(doc.Compatibility) == 0 {
		return
	}
	targets := make(map[string]bool, len(doc.Compatibility))
	for _, c := range doc.Compatibility {
		targets[c.TargetID] = true
	}
	for i, ex := range doc.Examples {
		if !targets[ex.Target] {
			r.add(SeverityWarning, CodeExampleTargetMismatch,
				fmt.Sprintf("examples[%d].target", i),
				"example target %q is not in the compatibility matrix", ex.Target)
		}
	}
}

func checkAbstractionBoundary(doc *library.Document, r *Result) {
	agnostic := doc.Manifest.LanguageAgnostic
	if agnostic != nil && !*agnostic && doc.AbstractionBoundary == nil {
		r.add(SeverityWarning, CodeMissingAbstractionBoundary, "abstraction_boundary",
			"library is not language-agnostic but declares no abstraction boundary")
	}
	if doc.AbstractionBoundary != nil && len(doc.AbstractionBoundary.Assumptions) == 0 {
		r.add(SeverityInfo, CodeNoAssumptionsDeclared, "abstraction_boundary.assumptions",
			"abstraction boundary declares no assumptions")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
