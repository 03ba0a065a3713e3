package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-addressform/pkg/address"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the descriptors.
type RenderOptions struct {
	// Locale selects the catalog used for labels. Empty means DefaultLocale.
	Locale string
	// Translator resolves label keys. Nil falls back to DefaultCatalog.
	Translator Translator
	// OnMissing decides the text used for keys no catalog carries.
	OnMissing MissingTranslationHandler
	// Values prefills controls keyed by field identifier.
	Values address.FormValues
	// Issues surfaces server-side validation feedback next to each field.
	Issues []address.Issue
	// Hidden lists extra inputs (CSRF tokens and similar) emitted with the form.
	Hidden []HiddenField
	// Action and Method describe the submission target for HTML output.
	Action string
	Method string
	// Theme supplies partials, tokens and assets for HTML output. Nil keeps
	// the bundled templates.
	Theme *theme.RendererConfig
}

func (o RenderOptions) translator() Translator {
	if o.Translator != nil {
		return o.Translator
	}
	return DefaultCatalog()
}
