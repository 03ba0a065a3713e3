package render

import (
	"strings"

	"github.com/goliatone/go-addressform/pkg/address"
)

const (
	titleKey    = "address_form_title"
	optionalKey = "address_label_optional"
)

// Localize returns copies of descriptors with Label resolved from LabelKey.
// Keys no catalog carries fall back to the key itself. A nil translator uses
// DefaultCatalog.
func Localize(descriptors []address.FieldDescriptor, locale string, t Translator) []address.FieldDescriptor {
	return LocalizeWith(descriptors, RenderOptions{Locale: locale, Translator: t})
}

// LocalizeWith is Localize with a custom missing-translation handler.
func LocalizeWith(descriptors []address.FieldDescriptor, opts RenderOptions) []address.FieldDescriptor {
	if descriptors == nil {
		return nil
	}
	t := opts.translator()
	out := make([]address.FieldDescriptor, len(descriptors))
	for i, d := range descriptors {
		d.Examples = append([]string(nil), d.Examples...)
		d.Label = translate(opts.Locale, d.LabelKey, strings.TrimSpace(d.Label), t, opts.OnMissing)
		out[i] = d
	}
	return out
}

// Title returns the localized form heading.
func Title(opts RenderOptions) string {
	return translate(opts.Locale, titleKey, "", opts.translator(), opts.OnMissing)
}

// OptionalLabel decorates label with the localized optional suffix.
func OptionalLabel(label string, opts RenderOptions) string {
	t := opts.translator()
	if msg, err := t.Translate(opts.Locale, optionalKey, label); err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	return label + " (optional)"
}
