package schema

import (
	"strings"
	"testing"
)

func validTree() map[string]any {
	return map[string]any{
		"manifest": map[string]any{
			"name":         "rate-limiter",
			"version":      "1.0.0",
			"spec_version": "0.2.0",
			"description":  "Token bucket rate limiting for outbound calls.",
		},
		"instructions": []any{
			map[string]any{
				"step":        1,
				"title":       "Implement",
				"description": "Implement the limiter core.",
			},
		},
	}
}

func TestValidDocumentHasNoErrors(t *testing.T) {
	errs := Validate(validTree())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestMissingRequiredFields(t *testing.T) {
	tree := validTree()
	delete(tree, "manifest")

	errs := Validate(tree)
	if !containsSubstring(errs, "manifest is required") {
		t.Errorf("expected 'manifest is required', got %v", errs)
	}
}

func TestMissingNestedRequiredField(t *testing.T) {
	tree := validTree()
	delete(tree["manifest"].(map[string]any), "description")

	errs := Validate(tree)
	if !containsSubstring(errs, "manifest.description is required") {
		t.Errorf("expected manifest.description error, got %v", errs)
	}
}

func TestTypeMismatchReportedNotRaised(t *testing.T) {
	tree := validTree()
	tree["manifest"].(map[string]any)["name"] = 42

	errs := Validate(tree)
	if !containsSubstring(errs, "manifest.name: expected string, got integer") {
		t.Errorf("expected type mismatch error, got %v", errs)
	}
}

func TestTypeMismatchStopsDescent(t *testing.T) {
	tree := validTree()
	// Wrong type at manifest: no errors about its missing children.
	tree["manifest"] = "not an object"

	errs := Validate(tree)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if !strings.Contains(errs[0], "manifest: expected object") {
		t.Errorf("unexpected error: %s", errs[0])
	}
}

func TestBooleanDoesNotSatisfyInteger(t *testing.T) {
	tree := validTree()
	tree["instructions"].([]any)[0].(map[string]any)["step"] = true

	errs := Validate(tree)
	if !containsSubstring(errs, "instructions[0].step: expected integer, got boolean") {
		t.Errorf("expected boolean rejection on integer field, got %v", errs)
	}
}

func TestEnumMembership(t *testing.T) {
	tree := validTree()
	tree["guardrails"] = []any{
		map[string]any{"rule": "Never log credentials anywhere", "severity": "critical"},
	}

	errs := Validate(tree)
	if !containsSubstring(errs, `"critical" is not one of [must, should, may]`) {
		t.Errorf("expected enum error, got %v", errs)
	}
}

func TestVersionPattern(t *testing.T) {
	tree := validTree()
	tree["manifest"].(map[string]any)["version"] = "v1"

	errs := Validate(tree)
	if !containsSubstring(errs, "does not match pattern") {
		t.Errorf("expected pattern error, got %v", errs)
	}
}

func TestMinLength(t *testing.T) {
	tree := validTree()
	tree["manifest"].(map[string]any)["name"] = ""

	errs := Validate(tree)
	if !containsSubstring(errs, "manifest.name: must be at least 1 characters") {
		t.Errorf("expected minLength error, got %v", errs)
	}
}

func TestMinItems(t *testing.T) {
	tree := validTree()
	tree["instructions"] = []any{}

	errs := Validate(tree)
	if !containsSubstring(errs, "instructions: must have at least 1 items") {
		t.Errorf("expected minItems error, got %v", errs)
	}
}

func TestUndeclaredFieldsPassThrough(t *testing.T) {
	tree := validTree()
	tree["future_field"] = map[string]any{"anything": true}
	tree["manifest"].(map[string]any)["maintainer"] = "someone"

	if errs := Validate(tree); len(errs) != 0 {
		t.Errorf("undeclared fields should be permitted, got %v", errs)
	}
}

func TestCapabilityDependencyUnion(t *testing.T) {
	tests := []struct {
		name    string
		entry   any
		wantErr bool
	}{
		{"bare string", "http_client", false},
		{"mapping form", map[string]any{"capability": "http_client", "required": true}, false},
		{"mapping missing capability", map[string]any{"required": true}, true},
		{"wrong scalar type", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := validTree()
			tree["capability_dependencies"] = []any{tt.entry}

			errs := Validate(tree)
			if tt.wantErr && !containsSubstring(errs, "capability_dependencies[0]: does not match any allowed form") {
				t.Errorf("expected union error, got %v", errs)
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Errorf("expected no errors, got %v", errs)
			}
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	tree := validTree()
	tree["instructions"].([]any)[0].(map[string]any)["step"] = "one"

	first := Validate(tree)
	second := Validate(tree)
	if len(first) != len(second) {
		t.Fatalf("repeated validation differs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("error %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func containsSubstring(errs []string, sub string) bool {
	for _, e := range errs {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}
