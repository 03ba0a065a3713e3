package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-addressform/pkg/address"
)

// Violation is one unsupported or malformed x-formgen extension.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

var allowedHintKeys = []string{"capitalization", "keyboard", "labelKey", "showOptionalLabel", "type"}

// LintExtensions checks the x-formgen extensions of every component schema
// in doc. Violations are sorted by location.
func LintExtensions(doc *openapi3.T) []Violation {
	if doc == nil || doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []Violation
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		result = append(result, LintSchema([]string{"components", "schemas", name}, ref.Value)...)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result
}

// LintSchema checks one address object schema and its properties.
func LintSchema(path []string, schema *openapi3.Schema) []Violation {
	var result []Violation
	keys := sortedKeys(schema.Extensions)
	for _, key := range keys {
		value := schema.Extensions[key]
		switch {
		case key == countryExtension:
			code, ok := value.(string)
			if !ok || len(code) != 2 || address.NormalizeCountry(code) != code {
				result = append(result, violationAt(path, "%s must be an upper-case ISO 3166 alpha-2 code, found %v", countryExtension, value))
			}
		case key == orderExtensionKey:
			result = append(result, lintOrder(path, schema, value)...)
		case key == extensionNamespace:
			result = append(result, violationAt(path, "%s is only supported on properties", extensionNamespace))
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result = append(result, violationAt(path, "unsupported schema extension %q", key))
		}
	}

	for _, name := range sortedKeys(schema.Properties) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		next := appendPath(path, "properties."+name)
		for _, key := range sortedKeys(prop.Value.Extensions) {
			value := prop.Value.Extensions[key]
			switch {
			case key == extensionNamespace:
				result = append(result, lintHints(next, value)...)
			case strings.HasPrefix(key, extensionNamespace+"-"):
				result = append(result, validateHint(next, strings.TrimPrefix(key, extensionNamespace+"-"), value)...)
			}
		}
	}
	return result
}

func lintOrder(path []string, schema *openapi3.Schema, value any) []Violation {
	var order []string
	switch v := value.(type) {
	case []string:
		order = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return []Violation{violationAt(path, "%s entries must be strings, found %T", orderExtensionKey, item)}
			}
			order = append(order, s)
		}
	default:
		return []Violation{violationAt(path, "%s must be an array, found %T", orderExtensionKey, value)}
	}

	var result []Violation
	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		if _, dup := seen[name]; dup {
			result = append(result, violationAt(path, "%s lists %q twice", orderExtensionKey, name))
		}
		seen[name] = struct{}{}
		if _, ok := schema.Properties[name]; !ok {
			result = append(result, violationAt(path, "%s names unknown property %q", orderExtensionKey, name))
		}
	}
	for _, name := range sortedKeys(schema.Properties) {
		if _, ok := seen[name]; !ok {
			result = append(result, violationAt(path, "%s omits property %q", orderExtensionKey, name))
		}
	}
	return result
}

func lintHints(path []string, value any) []Violation {
	nested, ok := value.(map[string]any)
	if !ok {
		return []Violation{violationAt(path, "%s must be an object, found %T", extensionNamespace, value)}
	}
	var result []Violation
	for _, key := range sortedKeys(nested) {
		result = append(result, validateHint(appendPath(path, key), key, nested[key])...)
	}
	return result
}

func validateHint(path []string, key string, value any) []Violation {
	if key == "" {
		return []Violation{violationAt(path, "extension key is empty")}
	}

	switch key {
	case "showOptionalLabel":
		if _, ok := value.(bool); !ok {
			return []Violation{violationAt(path, "value for %q must be a boolean (got %T)", key, value)}
		}
		return nil
	case "capitalization", "keyboard", "labelKey", "type":
	default:
		return []Violation{violationAt(path, "unsupported UI extension key %q (supported: %s)", key, strings.Join(allowedHintKeys, ", "))}
	}

	raw, ok := value.(string)
	if !ok {
		return []Violation{violationAt(path, "value for %q must be a string (got %T)", key, value)}
	}
	var err error
	switch key {
	case "capitalization":
		_, err = address.ParseCapitalization(raw)
	case "type":
		_, err = address.ParseFieldType(raw)
	case "keyboard":
		if k := address.KeyboardType(raw); k != address.KeyboardText && k != address.KeyboardNumber {
			err = fmt.Errorf("unknown keyboard %q", raw)
		}
	case "labelKey":
		if strings.TrimSpace(raw) == "" {
			err = fmt.Errorf("labelKey is empty")
		}
	}
	if err != nil {
		return []Violation{violationAt(path, "%v", err)}
	}
	return nil
}

func violationAt(path []string, format string, args ...any) Violation {
	return Violation{Location: strings.Join(path, " > "), Message: fmt.Sprintf(format, args...)}
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
