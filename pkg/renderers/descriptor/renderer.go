// Package descriptor renders address forms as localized JSON descriptors.
package descriptor

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
)

// Payload is the document Render produces.
type Payload struct {
	Country string                    `json:"country"`
	Locale  string                    `json:"locale"`
	Fields  []address.FieldDescriptor `json:"fields"`
	Values  map[string]string         `json:"values,omitempty"`
	Issues  []address.Issue           `json:"issues,omitempty"`
}

type Option func(*Renderer)

// WithTranslator sets the translator used when RenderOptions carries none.
func WithTranslator(t render.Translator) Option {
	return func(r *Renderer) {
		r.translator = t
	}
}

// WithIndent pretty-prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	translator render.Translator
	indent     string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render localizes form.Fields and encodes them with the request's values and
// issues.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Translator == nil {
		opts.Translator = r.translator
	}

	fields := render.LocalizeWith(form.Fields, opts)
	if fields == nil {
		fields = []address.FieldDescriptor{}
	}
	locale := strings.TrimSpace(opts.Locale)
	if locale == "" {
		locale = render.DefaultLocale
	}

	payload := Payload{
		Country: form.Country,
		Locale:  locale,
		Fields:  fields,
		Issues:  opts.Issues,
	}
	if len(opts.Values) > 0 {
		payload.Values = make(map[string]string, len(opts.Values))
		for id, value := range opts.Values {
			payload.Values[string(id)] = value
		}
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(payload, "", r.indent)
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("descriptor renderer: encode: %w", err)
	}
	return append(out, '\n'), nil
}
