package address

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedCountry is returned for country codes outside the
	// configured set.
	ErrUnsupportedCountry = errors.New("address: unsupported country")
	// ErrEmptyDocument signals a zero-length schema file.
	ErrEmptyDocument = errors.New("address: schema document is empty")
	// ErrMalformedDocument wraps syntax errors from the JSON/YAML decoders.
	ErrMalformedDocument = errors.New("address: malformed schema document")
	// ErrMissingFieldType is returned for entries without a type.
	ErrMissingFieldType = errors.New("address: field type is required")
	// ErrUnknownFieldType is returned for types outside the closed set.
	ErrUnknownFieldType = errors.New("address: unknown field type")
	// ErrUnknownNameType is returned for unrecognised name_type values.
	ErrUnknownNameType = errors.New("address: unknown name type")
	// ErrUnknownCapitalization is returned for unrecognised capitalization hints.
	ErrUnknownCapitalization = errors.New("address: unknown capitalization")
	// ErrNameTypeNotAllowed flags a name_type on a field that is not
	// name-bearing (address lines and locality). It is a schema authoring bug.
	ErrNameTypeNotAllowed = errors.New("address: name type not allowed on field")
)

// SchemaError locates a failure inside a specific country schema file.
type SchemaError struct {
	Country  string
	Location string
	// Index is the offending entry, or -1 when the failure concerns the whole
	// document.
	Index int
	Err   error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("address schema")
	if e.Country != "" {
		b.WriteString(" ")
		b.WriteString(e.Country)
	}
	if e.Location != "" {
		fmt.Fprintf(&b, " (%s)", e.Location)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, ": entry %d", e.Index)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// nameTypeForbidden lists field types that must never carry a name_type.
var nameTypeForbidden = map[FieldType]struct{}{
	FieldTypeAddressLine1: {},
	FieldTypeAddressLine2: {},
	FieldTypeLocality:     {},
}

// CheckNameTypes enforces that address lines and locality entries carry no
// name_type override. The first violation is returned as a *SchemaError with
// its entry index.
func CheckNameTypes(entries []AddressSchema) error {
	for i, entry := range entries {
		if entry.NameType() == nil {
			continue
		}
		if _, forbidden := nameTypeForbidden[entry.Type]; forbidden {
			return &SchemaError{
				Index: i,
				Err:   fmt.Errorf("%w %s (name_type %q)", ErrNameTypeNotAllowed, entry.Type, *entry.NameType()),
			}
		}
	}
	return nil
}
