package address

import (
	"fmt"
	"strings"
)

// FieldType enumerates the closed set of address field kinds a country schema
// may declare.
type FieldType string

const (
	FieldTypeAddressLine1       FieldType = "addressLine1"
	FieldTypeAddressLine2       FieldType = "addressLine2"
	FieldTypeLocality           FieldType = "locality"
	FieldTypeAdministrativeArea FieldType = "administrativeArea"
	FieldTypePostalCode         FieldType = "postalCode"
	FieldTypeSortingCode        FieldType = "sortingCode"
	FieldTypeDependentLocality  FieldType = "dependentLocality"
	FieldTypeCountry            FieldType = "country"
	FieldTypeName               FieldType = "name"
)

var fieldTypes = map[FieldType]struct {
	identifier IdentifierSpec
	label      string
}{
	FieldTypeAddressLine1:       {IdentifierLine1, "address_label_address"},
	FieldTypeAddressLine2:       {IdentifierLine2, "address_label_address_line2"},
	FieldTypeLocality:           {IdentifierCity, "address_label_city"},
	FieldTypeAdministrativeArea: {IdentifierState, "address_label_state"},
	FieldTypePostalCode:         {IdentifierPostalCode, "address_label_postal_code"},
	FieldTypeSortingCode:        {IdentifierSortingCode, "address_label_cedex"},
	FieldTypeDependentLocality:  {IdentifierDependentLocality, "address_label_district"},
	FieldTypeCountry:            {IdentifierCountry, "address_label_country"},
	FieldTypeName:               {IdentifierName, "address_label_name"},
}

// Valid reports whether t is part of the closed field type set.
func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// Identifier returns the form key used for fields of this type.
func (t FieldType) Identifier() IdentifierSpec {
	return fieldTypes[t].identifier
}

// DefaultLabelKey returns the label used when neither a label override nor a
// name type is present.
func (t FieldType) DefaultLabelKey() string {
	return fieldTypes[t].label
}

// ParseFieldType rejects values outside the closed set so a malformed country
// file fails as a whole.
func ParseFieldType(raw string) (FieldType, error) {
	value := FieldType(strings.TrimSpace(raw))
	if value == "" {
		return "", ErrMissingFieldType
	}
	if !value.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownFieldType, raw)
	}
	return value, nil
}

// NameType refines the label of name-bearing fields (administrative areas,
// postal codes, sub-localities).
type NameType string

const (
	NameTypeArea            NameType = "area"
	NameTypeCedex           NameType = "cedex"
	NameTypeCity            NameType = "city"
	NameTypeCountry         NameType = "country"
	NameTypeCounty          NameType = "county"
	NameTypeDepartment      NameType = "department"
	NameTypeDistrict        NameType = "district"
	NameTypeDoSi            NameType = "do_si"
	NameTypeEircode         NameType = "eircode"
	NameTypeEmirate         NameType = "emirate"
	NameTypeIsland          NameType = "island"
	NameTypeNeighborhood    NameType = "neighborhood"
	NameTypeOblast          NameType = "oblast"
	NameTypeParish          NameType = "parish"
	NameTypePin             NameType = "pin"
	NameTypePostTown        NameType = "post_town"
	NameTypePostal          NameType = "postal"
	NameTypePrefecture      NameType = "prefecture"
	NameTypeProvince        NameType = "province"
	NameTypeState           NameType = "state"
	NameTypeSuburb          NameType = "suburb"
	NameTypeSuburbOrCity    NameType = "suburb_or_city"
	NameTypeTownland        NameType = "townland"
	NameTypeVillageTownship NameType = "village_township"
	NameTypeZip             NameType = "zip"
)

var nameTypeLabels = map[NameType]string{
	NameTypeArea:            "address_label_area",
	NameTypeCedex:           "address_label_cedex",
	NameTypeCity:            "address_label_city",
	NameTypeCountry:         "address_label_country",
	NameTypeCounty:          "address_label_county",
	NameTypeDepartment:      "address_label_department",
	NameTypeDistrict:        "address_label_district",
	NameTypeDoSi:            "address_label_do_si",
	NameTypeEircode:         "address_label_eircode",
	NameTypeEmirate:         "address_label_emirate",
	NameTypeIsland:          "address_label_island",
	NameTypeNeighborhood:    "address_label_neighborhood",
	NameTypeOblast:          "address_label_oblast",
	NameTypeParish:          "address_label_parish",
	NameTypePin:             "address_label_pin",
	NameTypePostTown:        "address_label_post_town",
	NameTypePostal:          "address_label_postal_code",
	NameTypePrefecture:      "address_label_prefecture",
	NameTypeProvince:        "address_label_province",
	NameTypeState:           "address_label_state",
	NameTypeSuburb:          "address_label_suburb",
	NameTypeSuburbOrCity:    "address_label_suburb_or_city",
	NameTypeTownland:        "address_label_townland",
	NameTypeVillageTownship: "address_label_village_township",
	NameTypeZip:             "address_label_zip_code",
}

// LabelKey returns the label resource key for the name type.
func (n NameType) LabelKey() string {
	return nameTypeLabels[n]
}

// ParseNameType validates the name type against the known set.
func ParseNameType(raw string) (NameType, error) {
	value := NameType(strings.TrimSpace(raw))
	if _, ok := nameTypeLabels[value]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownNameType, raw)
	}
	return value, nil
}

// Capitalization mirrors the soft keyboard auto-capitalization modes.
type Capitalization string

const (
	CapitalizationNone       Capitalization = "none"
	CapitalizationCharacters Capitalization = "characters"
	CapitalizationWords      Capitalization = "words"
	CapitalizationSentences  Capitalization = "sentences"
)

// ParseCapitalization validates the capitalization hint.
func ParseCapitalization(raw string) (Capitalization, error) {
	value := Capitalization(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case CapitalizationNone, CapitalizationCharacters, CapitalizationWords, CapitalizationSentences:
		return value, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCapitalization, raw)
}

// KeyboardType selects the soft keyboard layout for a field.
type KeyboardType string

const (
	KeyboardText   KeyboardType = "text"
	KeyboardNumber KeyboardType = "number"
)

// IdentifierSpec is the stable key addressing a field inside a form value map.
type IdentifierSpec string

const (
	IdentifierLine1             IdentifierSpec = "line1"
	IdentifierLine2             IdentifierSpec = "line2"
	IdentifierCity              IdentifierSpec = "city"
	IdentifierState             IdentifierSpec = "state"
	IdentifierPostalCode        IdentifierSpec = "postal_code"
	IdentifierSortingCode       IdentifierSpec = "sorting_code"
	IdentifierDependentLocality IdentifierSpec = "dependent_locality"
	IdentifierCountry           IdentifierSpec = "country"
	IdentifierName              IdentifierSpec = "name"
)

// AddressSchema is one entry of a country schema file. Entry order defines
// display order.
type AddressSchema struct {
	Type     FieldType    `json:"type" yaml:"type"`
	Required *bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Schema   *FieldSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// IsRequired applies the default of true when the flag is omitted.
func (s AddressSchema) IsRequired() bool {
	return s.Required == nil || *s.Required
}

// NameType returns the entry's name type override, if any.
func (s AddressSchema) NameType() *NameType {
	if s.Schema == nil {
		return nil
	}
	return s.Schema.NameType
}

// FieldSchema carries the optional display hints of an entry.
type FieldSchema struct {
	NameType       *NameType       `json:"name_type,omitempty" yaml:"name_type,omitempty"`
	LabelKey       string          `json:"label_key,omitempty" yaml:"label_key,omitempty"`
	IsNumeric      *bool           `json:"is_numeric,omitempty" yaml:"is_numeric,omitempty"`
	Capitalization *Capitalization `json:"capitalization,omitempty" yaml:"capitalization,omitempty"`
	ShowOptional   *bool           `json:"show_optional,omitempty" yaml:"show_optional,omitempty"`
	Examples       []string        `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// FieldDescriptor is the UI-agnostic description of one address form field.
// Descriptors are values; callers receive fresh slices from every transform.
type FieldDescriptor struct {
	Identifier        IdentifierSpec `json:"identifier"`
	Type              FieldType      `json:"type"`
	LabelKey          string         `json:"labelKey"`
	Label             string         `json:"label,omitempty"`
	Capitalization    Capitalization `json:"capitalization"`
	Keyboard          KeyboardType   `json:"keyboard"`
	Required          bool           `json:"required"`
	ShowOptionalLabel bool           `json:"showOptionalLabel"`
	Examples          []string       `json:"examples,omitempty"`
}

// Transformer converts a country schema into ordered field descriptors.
type Transformer interface {
	Transform(entries []AddressSchema) ([]FieldDescriptor, error)
}
