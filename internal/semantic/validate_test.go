package semantic

import (
	"reflect"
	"testing"

	"libgov/internal/library"
)

func baseDoc() *library.Document {
	return &library.Document{
		Manifest: library.Manifest{
			Name:        "rate-limiter",
			Version:     "1.0.0",
			SpecVersion: "0.2.0",
			Description: "Token bucket rate limiting.",
		},
		Instructions: []library.Instruction{
			{Step: 1, Title: "Implement", Description: "Implement the limiter."},
		},
		Validation: []library.Validation{
			{Description: "Limiter rejects burst overflow", Hook: &library.Hook{Type: "command", Command: "true"}},
		},
	}
}

func TestCleanDocumentPasses(t *testing.T) {
	res := Validate(baseDoc())
	if !res.Passed() {
		t.Fatalf("expected pass, got issues %v", res.Issues)
	}
}

func TestSpecVersionMissing(t *testing.T) {
	doc := baseDoc()
	doc.Manifest.SpecVersion = ""

	res := Validate(doc)
	if !res.HasCode(CodeSpecVersionMissing) {
		t.Error("expected SPEC_VERSION_MISSING")
	}
	if res.Passed() {
		t.Error("missing spec_version must fail semantic validation")
	}
}

func TestInstructionOrder(t *testing.T) {
	tests := []struct {
		name      string
		steps     []int
		wantError bool
	}{
		{"in order", []int{1, 2, 3}, false},
		{"gap", []int{1, 2, 4}, true},
		{"duplicate", []int{1, 1, 2}, true},
		{"out of order", []int{2, 1, 3}, true},
		{"zero based", []int{0, 1, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := baseDoc()
			doc.Instructions = nil
			for _, s := range tt.steps {
				doc.Instructions = append(doc.Instructions, library.Instruction{
					Step: s, Title: "Step", Description: "A step.",
				})
			}

			res := Validate(doc)
			count := 0
			for _, issue := range res.Issues {
				if issue.Code == CodeInstructionOrder {
					count++
				}
			}
			if tt.wantError && count != 1 {
				t.Errorf("expected exactly one INSTRUCTION_ORDER error, got %d", count)
			}
			if !tt.wantError && count != 0 {
				t.Errorf("expected no INSTRUCTION_ORDER error, got %d", count)
			}
		})
	}
}

func TestCapabilityClosure(t *testing.T) {
	doc := baseDoc()
	doc.Instructions[0].CapabilitiesUsed = []string{"http_client"}

	res := Validate(doc)
	if !res.HasCode(CodeUndeclaredCapability) {
		t.Error("expected UNDECLARED_CAPABILITY for undeclared http_client")
	}

	doc.CapabilityDependencies = []library.CapabilityDependency{{Capability: "http_client"}}
	res = Validate(doc)
	if res.HasCode(CodeUndeclaredCapability) {
		t.Error("declaring the capability must clear the error")
	}
}

func TestGuardrailEnforcementMissing(t *testing.T) {
	doc := baseDoc()
	doc.Guardrails = []library.Guardrail{
		{Rule: "Follow conventions and style guides", Severity: "must"},
	}

	res := Validate(doc)
	if !res.HasCode(CodeGuardrailEnforcementMissing) {
		t.Error("expected GUARDRAIL_ENFORCEMENT_MISSING for must without enforcement")
	}
	if !res.Passed() {
		t.Error("enforcement warnings must not block conformance")
	}

	doc.Guardrails[0].Enforcement = "review"
	res = Validate(doc)
	if res.HasCode(CodeGuardrailEnforcementMissing) {
		t.Error("declared enforcement must clear the warning")
	}
}

func TestGuardrailTooTerse(t *testing.T) {
	doc := baseDoc()
	doc.Guardrails = []library.Guardrail{
		{Rule: "Be careful", Severity: "should"},
	}

	res := Validate(doc)
	if !res.HasCode(CodeGuardrailTooTerse) {
		t.Error("expected GUARDRAIL_TOO_TERSE for a 10-char rule")
	}
}

func TestNoValidationHooksIsAdvisory(t *testing.T) {
	doc := baseDoc()
	doc.Validation = []library.Validation{{Description: "Manual review of output"}}

	res := Validate(doc)
	if !res.HasCode(CodeNoValidationHooks) {
		t.Error("expected NO_VALIDATION_HOOKS warning")
	}
	if !res.Passed() {
		t.Error("hook absence is advisory, not blocking")
	}
}

func TestExampleTargetMismatch(t *testing.T) {
	doc := baseDoc()
	doc.Compatibility = []library.Compatibility{{TargetID: "fastapi"}}
	doc.Examples = []library.Example{
		{Target: "fastapi", Description: "ok"},
		{Target: "django", Description: "not declared"},
	}

	res := Validate(doc)
	count := 0
	for _, issue := range res.Issues {
		if issue.Code == CodeExampleTargetMismatch {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one EXAMPLE_TARGET_MISMATCH, got %d", count)
	}
}

func TestExampleTargetsUncheckedWithoutMatrix(t *testing.T) {
	doc := baseDoc()
	doc.Examples = []library.Example{{Target: "anything"}}

	res := Validate(doc)
	if res.HasCode(CodeExampleTargetMismatch) {
		t.Error("no compatibility matrix means no target check")
	}
}

func TestAbstractionBoundary(t *testing.T) {
	notAgnostic := false
	doc := baseDoc()
	doc.Manifest.LanguageAgnostic = &notAgnostic

	res := Validate(doc)
	if !res.HasCode(CodeMissingAbstractionBoundary) {
		t.Error("non-agnostic library without boundary should warn")
	}

	doc.AbstractionBoundary = &library.AbstractionBoundary{Scope: "module"}
	res = Validate(doc)
	if res.HasCode(CodeMissingAbstractionBoundary) {
		t.Error("declared boundary must clear the warning")
	}
	if !res.HasCode(CodeNoAssumptionsDeclared) {
		t.Error("boundary without assumptions should emit info")
	}

	doc.AbstractionBoundary.Assumptions = []string{"single process"}
	res = Validate(doc)
	if res.HasCode(CodeNoAssumptionsDeclared) {
		t.Error("declared assumptions must clear the info issue")
	}
}

func TestValidateIsPure(t *testing.T) {
	doc := baseDoc()
	doc.Manifest.SpecVersion = ""
	doc.Guardrails = []library.Guardrail{{Rule: "Short", Severity: "must"}}

	first := Validate(doc)
	second := Validate(doc)
	if !reflect.DeepEqual(first.Issues, second.Issues) {
		t.Errorf("repeated validation differs: %v vs %v", first.Issues, second.Issues)
	}
}
