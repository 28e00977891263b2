// Package schema implements the first gate of the executable spec: structural
// validation of a library document against a declarative schema tree. The
// tree itself is exported so editors and CLIs can validate independently of
// this implementation.
package schema

// Version is the schema version the Library definition describes.
const Version = "0.2.0"

// FieldType enumerates the structural types a definition node can require.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Definition is one node of the schema tree. A node with AnyOf set is a
// union: a value is valid if it passes at least one alternative cleanly.
type Definition struct {
	Type       FieldType
	Required   []string
	Properties map[string]*Definition
	Items      *Definition
	AnyOf      []*Definition
	Enum       []string
	Pattern    string
	MinLength  int
	MinItems   int
}

// semverPattern accepts plain MAJOR.MINOR.PATCH version strings.
const semverPattern = `^[0-9]+\.[0-9]+\.[0-9]+$`

// Library is the full schema for an agentic library document. Fields absent
// from this tree are permitted and ignored: the first gate warns on what it
// knows about and does not break on what it doesn't.
var Library = &Definition{
	Type:     TypeObject,
	Required: []string{"manifest", "instructions"},
	Properties: map[string]*Definition{
		"manifest": {
			Type:     TypeObject,
			Required: []string{"name", "version", "description"},
			Properties: map[string]*Definition{
				"name":              {Type: TypeString, MinLength: 1},
				"version":           {Type: TypeString, Pattern: semverPattern},
				"spec_version":      {Type: TypeString},
				"description":       {Type: TypeString, MinLength: 1},
				"complexity":        {Type: TypeString},
				"tags":              {Type: TypeArray, Items: &Definition{Type: TypeString}},
				"language_agnostic": {Type: TypeBoolean},
				"target_languages":  {Type: TypeArray, Items: &Definition{Type: TypeString}},
			},
		},
		"overview": {Type: TypeString},
		"instructions": {
			Type:     TypeArray,
			MinItems: 1,
			Items: &Definition{
				Type:     TypeObject,
				Required: []string{"step", "title", "description"},
				Properties: map[string]*Definition{
					"step":              {Type: TypeInteger},
					"title":             {Type: TypeString, MinLength: 1},
					"description":       {Type: TypeString, MinLength: 1},
					"code":              {Type: TypeString},
					"capabilities_used": {Type: TypeArray, Items: &Definition{Type: TypeString}},
				},
			},
		},
		"guardrails": {
			Type: TypeArray,
			Items: &Definition{
				Type:     TypeObject,
				Required: []string{"rule", "severity"},
				Properties: map[string]*Definition{
					"rule":        {Type: TypeString, MinLength: 1},
					"severity":    {Type: TypeString, Enum: []string{"must", "should", "may"}},
					"enforcement": {Type: TypeString, Enum: []string{"machine", "review", "advisory"}},
				},
			},
		},
		"validation": {
			Type: TypeArray,
			Items: &Definition{
				Type:     TypeObject,
				Required: []string{"description"},
				Properties: map[string]*Definition{
					"description":       {Type: TypeString, MinLength: 1},
					"test_approach":     {Type: TypeString},
					"expected_behavior": {Type: TypeString},
					"hook": {
						Type:     TypeObject,
						Required: []string{"type"},
						Properties: map[string]*Definition{
							"type":               {Type: TypeString},
							"command":            {Type: TypeString},
							"working_dir":        {Type: TypeString},
							"timeout_seconds":    {Type: TypeInteger},
							"expected_exit_code": {Type: TypeInteger},
						},
					},
				},
			},
		},
		"capability_dependencies": {
			Type: TypeArray,
			Items: &Definition{
				AnyOf: []*Definition{
					{Type: TypeString, MinLength: 1},
					{
						Type:     TypeObject,
						Required: []string{"capability"},
						Properties: map[string]*Definition{
							"capability":  {Type: TypeString, MinLength: 1},
							"required":    {Type: TypeBoolean},
							"description": {Type: TypeString},
						},
					},
				},
			},
		},
		"abstraction_boundary": {
			Type:     TypeObject,
			Required: []string{"scope"},
			Properties: map[string]*Definition{
				"scope":              {Type: TypeString, MinLength: 1},
				"assumptions":        {Type: TypeArray, Items: &Definition{Type: TypeString}},
				"integration_points": {Type: TypeArray, Items: &Definition{Type: TypeString}},
				"does_not_touch":     {Type: TypeArray, Items: &Definition{Type: TypeString}},
			},
		},
		"compatibility": {
			Type: TypeArray,
			Items: &Definition{
				Type:     TypeObject,
				Required: []string{"target_id"},
				Properties: map[string]*Definition{
					"target_id":      {Type: TypeString, MinLength: 1},
					"target_type":    {Type: TypeString},
					"target_version": {Type: TypeString},
					"status":         {Type: TypeString},
				},
			},
		},
		"examples": {
			Type: TypeArray,
			Items: &Definition{
				Type:     TypeObject,
				Required: []string{"target"},
				Properties: map[string]*Definition{
					"target":      {Type: TypeString, MinLength: 1},
					"description": {Type: TypeString},
					"code":        {Type: TypeString},
				},
			},
		},
	},
}
