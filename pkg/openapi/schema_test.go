package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/repository"
)

func usFields(t *testing.T) []address.FieldDescriptor {
	t.Helper()
	fields, err := repository.New().Fields(context.Background(), "US")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	return fields
}

func TestSchemaFor_US(t *testing.T) {
	schema := SchemaFor("us", usFields(t))

	if schema.Title != "AddressUS" {
		t.Fatalf("unexpected title %q", schema.Title)
	}
	if diff := cmp.Diff([]string{"line1", "city", "postal_code", "state"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"line1", "line2", "city", "postal_code", "state"}, schema.Extensions[orderExtensionKey]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	postal := schema.Properties["postal_code"].Value
	if postal.Pattern != numericPattern || postal.MinLength != 1 || postal.Example != "94103" {
		t.Fatalf("unexpected postal code schema: %+v", postal)
	}
	ext, ok := postal.Extensions[extensionNamespace].(map[string]any)
	if !ok || ext["keyboard"] != "number" || ext["labelKey"] != "address_label_zip_code" {
		t.Fatalf("unexpected postal code extensions: %#v", postal.Extensions)
	}

	line2 := schema.Properties["line2"].Value
	if line2.MinLength != 0 || line2.Pattern != "" {
		t.Fatalf("optional line2 should be unconstrained: %+v", line2)
	}
}

func TestValidateValues(t *testing.T) {
	schema := SchemaFor("US", usFields(t))

	valid := address.FormValues{
		"line1":       "1 Main St",
		"city":        "San Francisco",
		"postal_code": "94103-1234",
		"state":       "CA",
	}
	if issues := ValidateValues(schema, valid); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}

	issues := ValidateValues(schema, address.FormValues{
		"line1":       "   ",
		"city":        "San Francisco",
		"postal_code": "SW1A",
		"state":       "CA",
		"planet":      "Mars",
	})

	byField := map[address.IdentifierSpec]string{}
	var all []string
	for _, issue := range issues {
		byField[issue.Field] = issue.Message
		all = append(all, issue.Message)
	}
	if !strings.Contains(byField["line1"], "missing") {
		t.Fatalf("expected missing line1, got %+v", issues)
	}
	if _, ok := byField["postal_code"]; !ok {
		t.Fatalf("expected postal code pattern issue, got %+v", issues)
	}
	if !strings.Contains(strings.Join(all, "\n"), "planet") {
		t.Fatalf("expected unsupported property issue, got %+v", issues)
	}
	if _, ok := byField["state"]; ok {
		t.Fatalf("state should be valid, got %+v", issues)
	}
}

func TestDocument_RoundTrip(t *testing.T) {
	doc := Document(map[string][]address.FieldDescriptor{"US": usFields(t)})
	if err := ValidateDocument(context.Background(), doc); err != nil {
		t.Fatalf("validate: %v", err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ref := loaded.Components.Schemas["AddressUS"]
	if ref == nil || ref.Value == nil {
		t.Fatalf("schema AddressUS missing from %s", raw)
	}
	if diff := cmp.Diff([]string{"line1", "city", "postal_code", "state"}, ref.Value.Required); diff != "" {
		t.Fatalf("required mismatch after reload (-want +got):\n%s", diff)
	}
}
