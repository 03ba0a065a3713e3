package openapi

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-addressform/pkg/render"
)

// Renderer exposes SchemaFor as a render.Renderer so the schema export can
// be selected by format alongside HTML and JSON descriptors.
type Renderer struct {
	translator render.Translator
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer returns a schema renderer. A nil translator uses the default
// catalog for property titles.
func NewRenderer(t render.Translator) *Renderer {
	return &Renderer{translator: t}
}

func (r *Renderer) Name() string {
	return "openapi"
}

func (r *Renderer) ContentType() string {
	return "application/schema+json"
}

// Render encodes the country schema with property titles localized.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Translator == nil {
		opts.Translator = r.translator
	}
	out, err := json.Marshal(SchemaFor(form.Country, render.LocalizeWith(form.Fields, opts)))
	if err != nil {
		return nil, fmt.Errorf("openapi renderer: encode: %w", err)
	}
	return append(out, '\n'), nil
}
