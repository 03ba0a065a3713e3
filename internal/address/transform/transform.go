package transform

import (
	"fmt"

	"github.com/goliatone/go-addressform/pkg/address"
)

// Transformer turns country schema entries into field descriptors.
type Transformer struct{}

var _ address.Transformer = (*Transformer)(nil)

// New constructs a Transformer.
func New() *Transformer {
	return &Transformer{}
}

// Transform maps every entry to a descriptor, then moves the postal code in
// front of the administrative area. Output length always equals input length.
func (t *Transformer) Transform(entries []address.AddressSchema) ([]address.FieldDescriptor, error) {
	if err := address.CheckNameTypes(entries); err != nil {
		return nil, err
	}

	fields := make([]address.FieldDescriptor, 0, len(entries))
	for i, entry := range entries {
		if !entry.Type.Valid() {
			err := address.ErrMissingFieldType
			if entry.Type != "" {
				err = fmt.Errorf("%w %q", address.ErrUnknownFieldType, string(entry.Type))
			}
			return nil, &address.SchemaError{Index: i, Err: err}
		}
		fields = append(fields, descriptorFor(entry))
	}

	return postalCodeBeforeAdministrativeArea(fields), nil
}

func descriptorFor(entry address.AddressSchema) address.FieldDescriptor {
	required := entry.IsRequired()
	field := address.FieldDescriptor{
		Identifier:        entry.Type.Identifier(),
		Type:              entry.Type,
		LabelKey:          labelKey(entry),
		Capitalization:    capitalization(entry),
		Keyboard:          keyboard(entry),
		Required:          required,
		ShowOptionalLabel: !required,
	}
	if schema := entry.Schema; schema != nil {
		if schema.ShowOptional != nil {
			field.ShowOptionalLabel = *schema.ShowOptional
		}
		if len(schema.Examples) > 0 {
			field.Examples = append([]string(nil), schema.Examples...)
		}
	}
	return field
}

func labelKey(entry address.AddressSchema) string {
	if entry.Schema != nil && entry.Schema.LabelKey != "" {
		return entry.Schema.LabelKey
	}
	if nameType := entry.NameType(); nameType != nil {
		if key := nameType.LabelKey(); key != "" {
			return key
		}
	}
	return entry.Type.DefaultLabelKey()
}

func capitalization(entry address.AddressSchema) address.Capitalization {
	if entry.Schema != nil && entry.Schema.Capitalization != nil {
		return *entry.Schema.Capitalization
	}
	switch entry.Type {
	case address.FieldTypePostalCode, address.FieldTypeCountry:
		return address.CapitalizationNone
	case address.FieldTypeSortingCode:
		return address.CapitalizationCharacters
	default:
		return address.CapitalizationWords
	}
}

func keyboard(entry address.AddressSchema) address.KeyboardType {
	if entry.Type != address.FieldTypePostalCode {
		return address.KeyboardText
	}
	if entry.Schema != nil && entry.Schema.IsNumeric != nil && !*entry.Schema.IsNumeric {
		return address.KeyboardText
	}
	return address.KeyboardNumber
}

// postalCodeBeforeAdministrativeArea moves the postal code so it immediately
// precedes the administrative area. Without an administrative area the order
// is left untouched.
func postalCodeBeforeAdministrativeArea(fields []address.FieldDescriptor) []address.FieldDescriptor {
	postal := indexOf(fields, address.FieldTypePostalCode)
	if postal < 0 || indexOf(fields, address.FieldTypeAdministrativeArea) < 0 {
		return fields
	}

	zip := fields[postal]
	rest := append(append(make([]address.FieldDescriptor, 0, len(fields)), fields[:postal]...), fields[postal+1:]...)
	area := indexOf(rest, address.FieldTypeAdministrativeArea)

	out := make([]address.FieldDescriptor, 0, len(fields))
	out = append(out, rest[:area]...)
	out = append(out, zip)
	out = append(out, rest[area:]...)
	return out
}

func indexOf(fields []address.FieldDescriptor, typ address.FieldType) int {
	for i, field := range fields {
		if field.Type == typ {
			return i
		}
	}
	return -1
}
