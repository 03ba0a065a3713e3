// Package openapi exports address forms as OpenAPI 3 schemas and validates
// submitted values against them.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-addressform/pkg/address"
)

const (
	extensionNamespace = "x-formgen"
	orderExtensionKey  = "x-formgen-order"
	countryExtension   = "x-formgen-country"

	// numericPattern accepts digit groups separated by a space or hyphen
	// (ZIP+4 and similar).
	numericPattern = `^[0-9]+([ -][0-9]+)*$`
)

// SchemaName returns the component name used for country.
func SchemaName(country string) string {
	return "Address" + address.NormalizeCountry(country)
}

// SchemaFor builds an object schema with one string property per descriptor.
// Required descriptors become required properties with minLength 1, and
// numeric-keyboard fields get a digit pattern.
func SchemaFor(country string, descriptors []address.FieldDescriptor) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = SchemaName(country)
	schema.Properties = make(openapi3.Schemas, len(descriptors))
	closed := false
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &closed}

	order := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		name := string(d.Identifier)
		order = append(order, name)
		schema.Properties[name] = openapi3.NewSchemaRef("", propertyFor(d))
		if d.Required {
			schema.Required = append(schema.Required, name)
		}
	}

	schema.Extensions = map[string]any{
		countryExtension:  address.NormalizeCountry(country),
		orderExtensionKey: order,
	}
	return schema
}

func propertyFor(d address.FieldDescriptor) *openapi3.Schema {
	prop := openapi3.NewStringSchema()
	prop.Title = d.Label
	if prop.Title == "" {
		prop.Title = d.LabelKey
	}
	if d.Required {
		prop.MinLength = 1
	}
	if d.Keyboard == address.KeyboardNumber {
		prop.Pattern = numericPattern
	}
	if len(d.Examples) > 0 {
		prop.Example = d.Examples[0]
	}
	prop.Extensions = map[string]any{
		extensionNamespace: map[string]any{
			"type":              string(d.Type),
			"labelKey":          d.LabelKey,
			"capitalization":    string(d.Capitalization),
			"keyboard":          string(d.Keyboard),
			"showOptionalLabel": d.ShowOptionalLabel,
		},
	}
	return prop
}

// Document wraps the schemas of several countries into an OpenAPI document
// under components/schemas.
func Document(forms map[string][]address.FieldDescriptor) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: "Address forms", Version: "1.0.0"},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(forms)),
		},
	}
	for country, descriptors := range forms {
		doc.Components.Schemas[SchemaName(country)] = openapi3.NewSchemaRef("", SchemaFor(country, descriptors))
	}
	return doc
}

// ValidateDocument runs kin-openapi's structural validation on doc.
func ValidateDocument(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi: validate: %w", err)
	}
	return nil
}

// ValidateValues checks values against schema and reports every violation.
// Blank values are treated as absent.
func ValidateValues(schema *openapi3.Schema, values address.FormValues) []address.Issue {
	if schema == nil {
		return nil
	}
	payload := make(map[string]any, len(values))
	for id := range values {
		if v := values.Get(id); v != "" {
			payload[string(id)] = v
		}
	}

	err := schema.VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	var issues []address.Issue
	collectIssues(err, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Field < issues[j].Field
	})
	return issues
}

func collectIssues(err error, issues *[]address.Issue) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectIssues(inner, issues)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		field := ""
		if path := schemaErr.JSONPointer(); len(path) > 0 {
			field = path[0]
		}
		*issues = append(*issues, address.Issue{
			Field:   address.IdentifierSpec(field),
			Message: strings.TrimSpace(schemaErr.Reason),
		})
		return
	}
	*issues = append(*issues, address.Issue{Message: err.Error()})
}
