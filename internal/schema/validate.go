package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate checks a parsed document tree against the Library schema and
// returns all structural errors found. An empty slice means the document is
// structurally valid. Malformed values are reported, never raised.
func Validate(tree map[string]any) []string {
	return Check(tree, Library, "")
}

// Check validates a value against a definition node. path locates the value
// inside the document ("" for the root).
func Check(value any, def *Definition, path string) []string {
	var errs []string

	if len(def.AnyOf) > 0 {
		for _, alt := range def.AnyOf {
			if len(Check(value, alt, path)) == 0 {
				return nil
			}
		}
		return []string{fmt.Sprintf("%s: does not match any allowed form", label(path))}
	}

	if def.Type != "" && !matchesType(value, def.Type) {
		// Wrong type: report and stop descending into this value.
		return []string{fmt.Sprintf("%s: expected %s, got %s", label(path), def.Type, typeName(value))}
	}

	if len(def.Enum) > 0 {
		if s, ok := value.(string); ok && !contains(def.Enum, s) {
			errs = append(errs, fmt.Sprintf("%s: %q is not one of [%s]", label(path), s, strings.Join(def.Enum, ", ")))
		}
	}

	switch def.Type {
	case TypeString:
		s := value.(string)
		if def.MinLength > 0 && len(s) < def.MinLength {
			errs = append(errs, fmt.Sprintf("%s: must be at least %d characters", label(path), def.MinLength))
		}
		if def.Pattern != "" {
			re, err := regexp.Compile(def.Pattern)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: invalid schema pattern %q", label(path), def.Pattern))
			} else if !re.MatchString(s) {
				errs = append(errs, fmt.Sprintf("%s: %q does not match pattern %s", label(path), s, def.Pattern))
			}
		}

	case TypeObject:
		m := value.(map[string]any)
		for _, key := range def.Required {
			if _, ok := m[key]; !ok {
				errs = append(errs, fmt.Sprintf("%s is required", joinPath(path, key)))
			}
		}
		// Undeclared keys pass through untouched: permissive by default.
		for key, prop := range def.Properties {
			if v, ok := m[key]; ok {
				errs = append(errs, Check(v, prop, joinPath(path, key))...)
			}
		}

	case TypeArray:
		items := value.([]any)
		if def.MinItems > 0 && len(items) < def.MinItems {
			errs = append(errs, fmt.Sprintf("%s: must have at least %d items", label(path), def.MinItems))
		}
		if def.Items != nil {
			for i, item := range items {
				errs = append(errs, Check(item, def.Items, fmt.Sprintf("%s[%d]", path, i))...)
			}
		}
	}

	return errs
}

// matchesType reports whether a decoded YAML value satisfies a schema type.
// Booleans never satisfy integer: serializers that conflate the two at the
// representation level do not get to smuggle bools through numeric fields.
func matchesType(v any, t FieldType) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInteger:
		switch v.(type) {
		case bool:
			return false
		case int, int8, int16, int32, int64, uint, uint32, uint64:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeArray:
		_, ok := v.([]any)
		return ok
	case TypeObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint32, uint64:
		return "integer"
	case float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func label(path string) string {
	if path == "" {
		return "document"
	}
	return path
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
