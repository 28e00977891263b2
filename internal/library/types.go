// Package library defines the agentic library document model: the portable,
// language-agnostic blueprint that the validation pipeline, policy engine,
// and drift detector all operate on. Documents are parsed once at the load
// boundary and never mutated by the core.
package library

import "gopkg.in/yaml.v3"

// Document is the root artifact: a manifest plus ordered instructions,
// guardrails, validation entries, and declared capability dependencies.
type Document struct {
	Manifest               Manifest               `yaml:"manifest" json:"manifest"`
	Overview               string                 `yaml:"overview" json:"overview,omitempty"`
	Instructions           []Instruction          `yaml:"instructions" json:"instructions"`
	Guardrails             []Guardrail            `yaml:"guardrails" json:"guardrails"`
	Validation             []Validation           `yaml:"validation" json:"validation"`
	CapabilityDependencies []CapabilityDependency `yaml:"capability_dependencies" json:"capability_dependencies"`
	AbstractionBoundary    *AbstractionBoundary   `yaml:"abstraction_boundary" json:"abstraction_boundary,omitempty"`
	Compatibility          []Compatibility        `yaml:"compatibility" json:"compatibility,omitempty"`
	Examples               []Example              `yaml:"examples" json:"examples,omitempty"`
}

// Manifest carries library identity and targeting metadata.
type Manifest struct {
	Name             string   `yaml:"name" json:"name"`
	Version          string   `yaml:"version" json:"version"`
	SpecVersion      string   `yaml:"spec_version" json:"spec_version"`
	Description      string   `yaml:"description" json:"description"`
	Complexity       string   `yaml:"complexity" json:"complexity,omitempty"`
	Tags             []string `yaml:"tags" json:"tags,omitempty"`
	LanguageAgnostic *bool    `yaml:"language_agnostic" json:"language_agnostic,omitempty"`
	TargetLanguages  []string `yaml:"target_languages" json:"target_languages,omitempty"`
}

// Instruction is one ordered implementation step. Step numbers are 1-based
// and must form the exact sequence 1..N across the document.
type Instruction struct {
	Step             int      `yaml:"step" json:"step"`
	Title            string   `yaml:"title" json:"title"`
	Description      string   `yaml:"description" json:"description"`
	Code             string   `yaml:"code" json:"code,omitempty"`
	CapabilitiesUsed []string `yaml:"capabilities_used" json:"capabilities_used,omitempty"`
}

// Guardrail is a constraint the implementation must satisfy.
type Guardrail struct {
	Rule        string `yaml:"rule" json:"rule"`
	Severity    string `yaml:"severity" json:"severity"`
	Enforcement string `yaml:"enforcement" json:"enforcement,omitempty"`
}

// Validation describes one verification of the applied library. A nil Hook
// means the entry is advisory only: gate 3 has nothing to execute for it.
type Validation struct {
	Description      string `yaml:"description" json:"description"`
	TestApproach     string `yaml:"test_approach" json:"test_approach,omitempty"`
	ExpectedBehavior string `yaml:"expected_behavior" json:"expected_behavior,omitempty"`
	Hook             *Hook  `yaml:"hook" json:"hook,omitempty"`
}

// Hook is a runnable check declared by a validation entry. Type is kept as
// the raw declared string here; the executor parses it into the closed hook
// type enum and converts unknown values into a failed result.
type Hook struct {
	Type             string `yaml:"type" json:"type"`
	Command          string `yaml:"command" json:"command"`
	WorkingDir       string `yaml:"working_dir" json:"working_dir,omitempty"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
	ExpectedExitCode int    `yaml:"expected_exit_code" json:"expected_exit_code,omitempty"`
}

// CapabilityDependency declares an abstract named dependency. In YAML it may
// be either a bare string or a mapping with capability/required/description.
type CapabilityDependency struct {
	Capability  string `yaml:"capability" json:"capability"`
	Required    *bool  `yaml:"required" json:"required,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// UnmarshalYAML accepts both the bare-string and the mapping form.
func (c *CapabilityDependency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Capability = node.Value
		return nil
	}
	type plain CapabilityDependency
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = CapabilityDependency(p)
	return nil
}

// AbstractionBoundary documents what the library assumes and must not touch.
type AbstractionBoundary struct {
	Scope             string   `yaml:"scope" json:"scope"`
	Assumptions       []string `yaml:"assumptions" json:"assumptions,omitempty"`
	IntegrationPoints []string `yaml:"integration_points" json:"integration_points,omitempty"`
	DoesNotTouch      []string `yaml:"does_not_touch" json:"does_not_touch,omitempty"`
}

// Compatibility is one row of the declared compatibility matrix.
type Compatibility struct {
	TargetID      string `yaml:"target_id" json:"target_id"`
	TargetType    string `yaml:"target_type" json:"target_type,omitempty"`
	TargetVersion string `yaml:"target_version" json:"target_version,omitempty"`
	Status        string `yaml:"status" json:"status,omitempty"`
}

// Example is a worked application of the library against a named target.
type Example struct {
	Target      string `yaml:"target" json:"target"`
	Description string `yaml:"description" json:"description,omitempty"`
	Code        string `yaml:"code" json:"code,omitempty"`
}

// DeclaredCapabilities returns the set of declared capability names,
// normalized across the bare-string and mapping forms.
func (d *Document) DeclaredCapabilities() map[string]bool {
	set := make(map[string]bool, len(d.CapabilityDependencies))
	for _, dep := range d.CapabilityDependencies {
		if dep.Capability != "" {
			set[dep.Capability] = true
		}
	}
	return set
}
