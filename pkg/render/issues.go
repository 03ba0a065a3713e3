package render

import (
	"strings"

	"github.com/goliatone/go-addressform/pkg/address"
)

// IssueMapping splits validation issues into per-field and form-level
// messages.
type IssueMapping struct {
	Fields map[address.IdentifierSpec][]string
	Form   []string
}

// MapIssues assigns each issue to a known descriptor. Issues for identifiers
// outside descriptors become form-level messages prefixed with the field.
func MapIssues(descriptors []address.FieldDescriptor, issues []address.Issue) IssueMapping {
	mapping := IssueMapping{Fields: make(map[address.IdentifierSpec][]string)}
	known := make(map[address.IdentifierSpec]struct{}, len(descriptors))
	for _, d := range descriptors {
		known[d.Identifier] = struct{}{}
	}

	for _, issue := range issues {
		message := strings.TrimSpace(issue.Message)
		if message == "" {
			continue
		}
		if _, ok := known[issue.Field]; ok {
			mapping.Fields[issue.Field] = appendUnique(mapping.Fields[issue.Field], message)
			continue
		}
		if issue.Field != "" {
			message = string(issue.Field) + " " + message
		}
		mapping.Form = appendUnique(mapping.Form, message)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

func appendUnique(messages []string, message string) []string {
	for _, existing := range messages {
		if existing == message {
			return messages
		}
	}
	return append(messages, message)
}
