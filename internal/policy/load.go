package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// rawRule mirrors the on-disk rule shape. Scope and action arrive as bare
// strings and are parsed into their closed enums before a Set is returned.
type rawRule struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Scope       string            `yaml:"scope"`
	Action      string            `yaml:"action"`
	Patterns    []string          `yaml:"patterns"`
	Conditions  map[string]string `yaml:"conditions"`
	Rationale   string            `yaml:"rationale"`
}

type rawSet struct {
	Name    string    `yaml:"name"`
	Version string    `yaml:"version"`
	Rules   []rawRule `yaml:"rules"`
}

// Load reads a policy set from a YAML file. Unrecognized scope or action
// values and malformed glob patterns fail here, with the offending rule
// named: authoring mistakes surface at load time, never at evaluation
// time. The returned hash is "sha256:<hex>" of the file contents, for audit
// trails.
func Load(path string) (*Set, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read policy set: %w", err)
	}

	set, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return set, "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Parse decodes and validates a policy set from YAML bytes.
func Parse(data []byte) (*Set, error) {
	var raw rawSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse policy set: %w", err)
	}

	set := &Set{
		Name:    raw.Name,
		Version: raw.Version,
		Rules:   make([]Rule, 0, len(raw.Rules)),
	}

	for i, rr := range raw.Rules {
		name := rr.Name
		if name == "" {
			name = fmt.Sprintf("rules[%d]", i)
		}

		scope, err := ParseScope(rr.Scope)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		action, err := ParseAction(rr.Action)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		for _, pattern := range rr.Patterns {
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("rule %q: invalid pattern %q", name, pattern)
			}
		}

		set.Rules = append(set.Rules, Rule{
			Name:        rr.Name,
			Description: rr.Description,
			Scope:       scope,
			Action:      action,
			Patterns:    rr.Patterns,
			Conditions:  rr.Conditions,
			Rationale:   rr.Rationale,
		})
	}

	return set, nil
}
