// Package semantic implements the second gate of the executable spec:
// cross-field checks over a document that already passed structural
// validation. Issues carry stable machine-readable codes so callers can
// branch programmatically instead of string-matching messages.
package semantic

// Severity classifies how strongly an issue blocks conformance. Only errors
// block; warnings and info are advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Stable issue codes. Errors are structural/referential; warnings and info
// cover documentation quality.
const (
	CodeSpecVersionMissing          = "SPEC_VERSION_MISSING"
	CodeInstructionOrder            = "INSTRUCTION_ORDER"
	CodeUndeclaredCapability        = "UNDECLARED_CAPABILITY"
	CodeGuardrailEnforcementMissing = "GUARDRAIL_ENFORCEMENT_MISSING"
	CodeGuardrailTooTerse           = "GUARDRAIL_TOO_TERSE"
	CodeNoValidationHooks           = "NO_VALIDATION_HOOKS"
	CodeExampleTargetMismatch       = "EXAMPLE_TARGET_MISMATCH"
	CodeMissingAbstractionBoundary  = "MISSING_ABSTRACTION_BOUNDARY"
	CodeNoAssumptionsDeclared       = "NO_ASSUMPTIONS_DECLARED"
)

// Issue is a single semantic finding located inside the document.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Path     string   `json:"path"`
}

// Result is the outcome of the full semantic battery.
type Result struct {
	Issues []Issue `json:"issues"`
}

// Passed reports whether no issue has error severity.
func (r *Result) Passed() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the issues with error severity.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the issues with warning or info severity.
func (r *Result) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning || issue.Severity == SeverityInfo {
			out = append(out, issue)
		}
	}
	return out
}

// HasCode reports whether any issue carries the given code.
func (r *Result) HasCode(code string) bool {
	for _, issue := range r.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func (r *Result) filter(sev Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}
