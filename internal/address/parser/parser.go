package parser

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-addressform/pkg/address"
)

// Parser decodes country schema documents. JSON is the canonical format;
// documents named *.yaml/*.yml, or that do not look like JSON, are decoded as
// YAML.
type Parser struct{}

var _ address.Parser = (*Parser)(nil)

// New constructs a Parser.
func New() *Parser {
	return &Parser{}
}

type rawEntry struct {
	Type     *string    `json:"type" yaml:"type"`
	Required *bool      `json:"required" yaml:"required"`
	Schema   *rawSchema `json:"schema" yaml:"schema"`
}

type rawSchema struct {
	NameType       *string  `json:"name_type" yaml:"name_type"`
	LabelKey       string   `json:"label_key" yaml:"label_key"`
	IsNumeric      *bool    `json:"is_numeric" yaml:"is_numeric"`
	Capitalization *string  `json:"capitalization" yaml:"capitalization"`
	ShowOptional   *bool    `json:"show_optional" yaml:"show_optional"`
	Examples       []string `json:"examples" yaml:"examples"`
}

// Parse decodes doc into ordered schema entries. Any malformed entry fails the
// whole document.
func (p *Parser) Parse(ctx context.Context, doc address.Document) ([]address.AddressSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := doc.Raw()
	fail := func(index int, err error) error {
		return &address.SchemaError{Country: doc.Country(), Location: doc.Location(), Index: index, Err: err}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fail(-1, address.ErrEmptyDocument)
	}

	entries, err := decode(trimmed, doc.Location())
	if err != nil {
		return nil, fail(-1, fmt.Errorf("%w: %v", address.ErrMalformedDocument, err))
	}
	if entries == nil {
		return nil, fail(-1, fmt.Errorf("%w: expected an array of fields", address.ErrMalformedDocument))
	}

	out := make([]address.AddressSchema, 0, len(entries))
	for i, entry := range entries {
		converted, err := convert(entry)
		if err != nil {
			return nil, fail(i, err)
		}
		out = append(out, converted)
	}
	return out, nil
}

func decode(data []byte, location string) ([]rawEntry, error) {
	var entries []rawEntry
	if isYAML(location) || !looksLikeJSON(data) {
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func isYAML(location string) bool {
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func looksLikeJSON(data []byte) bool {
	return len(data) > 0 && (data[0] == '[' || data[0] == '{')
}

func convert(entry rawEntry) (address.AddressSchema, error) {
	var typ string
	if entry.Type != nil {
		typ = *entry.Type
	}
	fieldType, err := address.ParseFieldType(typ)
	if err != nil {
		return address.AddressSchema{}, err
	}

	out := address.AddressSchema{Type: fieldType}
	if entry.Required != nil {
		required := *entry.Required
		out.Required = &required
	}
	if entry.Schema == nil {
		return out, nil
	}

	schema := &address.FieldSchema{
		LabelKey:     strings.TrimSpace(entry.Schema.LabelKey),
		IsNumeric:    entry.Schema.IsNumeric,
		ShowOptional: entry.Schema.ShowOptional,
	}
	if entry.Schema.NameType != nil {
		nameType, err := address.ParseNameType(*entry.Schema.NameType)
		if err != nil {
			return address.AddressSchema{}, err
		}
		schema.NameType = &nameType
	}
	if entry.Schema.Capitalization != nil {
		capitalization, err := address.ParseCapitalization(*entry.Schema.Capitalization)
		if err != nil {
			return address.AddressSchema{}, err
		}
		schema.Capitalization = &capitalization
	}
	if len(entry.Schema.Examples) > 0 {
		schema.Examples = append([]string(nil), entry.Schema.Examples...)
	}
	out.Schema = schema
	return out, nil
}
