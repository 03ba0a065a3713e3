package address

import (
	"sort"
	"strings"
)

// FormValues holds user-entered or prefilled values keyed by field identifier.
// Host applications pass one in to prefill forms (for example with a shipping
// address they already know).
type FormValues map[IdentifierSpec]string

// Get returns the trimmed value for id.
func (v FormValues) Get(id IdentifierSpec) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v[id])
}

// Clone returns an independent copy.
func (v FormValues) Clone() FormValues {
	if v == nil {
		return nil
	}
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FormValuesFromMap converts a plain string map, dropping empty keys.
func FormValuesFromMap(in map[string]string) FormValues {
	out := make(FormValues, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[IdentifierSpec(key)] = v
	}
	return out
}

// Issue reports a problem with a single submitted value.
type Issue struct {
	Field   IdentifierSpec `json:"field,omitempty"`
	Message string         `json:"message"`
}

// CheckValues verifies that every required descriptor has a non-blank value.
// Values for identifiers not present in descriptors are reported as unknown.
func CheckValues(descriptors []FieldDescriptor, values FormValues) []Issue {
	var issues []Issue
	known := make(map[IdentifierSpec]struct{}, len(descriptors))
	for _, d := range descriptors {
		known[d.Identifier] = struct{}{}
		if d.Required && values.Get(d.Identifier) == "" {
			issues = append(issues, Issue{Field: d.Identifier, Message: "is required"})
		}
	}

	var unknown []string
	for id := range values {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, string(id))
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		issues = append(issues, Issue{Field: IdentifierSpec(id), Message: "is not part of this address form"})
	}
	return issues
}
