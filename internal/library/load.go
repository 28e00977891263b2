package library

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseTree decodes YAML into the generic mapping tree the schema gate
// validates. Only unparseable input is an error: an input-resolution fault,
// distinct from a document that parses but is structurally invalid (that is
// a conformance verdict, reported by the schema gate).
func ParseTree(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse library document: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parse library document: empty document")
	}
	return raw, nil
}

// Decode decodes YAML into the typed Document. Callers run the schema gate
// over the ParseTree output first; a document that passed it decodes cleanly.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode library document: %w", err)
	}
	return &doc, nil
}

// Read loads the raw bytes of a library document from disk.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library document: %w", err)
	}
	return data, nil
}

// TreeManifest extracts best-effort identity fields from an unvalidated
// mapping tree, for labeling results of documents that fail the schema gate.
func TreeManifest(tree map[string]any) (name, version, specVersion string) {
	manifest, ok := tree["manifest"].(map[string]any)
	if !ok {
		return "", "", ""
	}
	if s, ok := manifest["name"].(string); ok {
		name = s
	}
	if s, ok := manifest["version"].(string); ok {
		version = s
	}
	if s, ok := manifest["spec_version"].(string); ok {
		specVersion = s
	}
	return name, version, specVersion
}
