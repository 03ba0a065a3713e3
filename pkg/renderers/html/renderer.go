// Package html renders address descriptors as an HTML fieldset.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
	rendertemplate "github.com/goliatone/go-addressform/pkg/render/template"
	"github.com/goliatone/go-addressform/pkg/render/template/gotemplate"
	theme "github.com/goliatone/go-theme"
)

const (
	formTemplate  = "templates/form.tmpl"
	fieldTemplate = "templates/field.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	translator       render.Translator
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. Templates
// the bundle lacks fall back to the embedded ones.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator sets the translator used when RenderOptions carries none.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	translator render.Translator
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.translator == nil {
		cfg.translator = render.DefaultCatalog()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithFS(TemplatesFS()),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithFilter("sanitize", filterSanitize),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, translator: cfg.translator}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render localizes form.Fields, renders each through the field partial and
// executes the form template. opts.Theme may swap either partial.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Translator == nil {
		opts.Translator = r.translator
	}

	fields := render.LocalizeWith(form.Fields, opts)
	issues := render.MapIssues(fields, opts.Issues)

	hidden := append([]render.HiddenField{render.Hidden("country", form.Country)}, opts.Hidden...)
	hiddenData := make([]map[string]any, 0, len(hidden))
	for _, h := range render.SortedHiddenFields(hidden...) {
		hiddenData = append(hiddenData, map[string]any{"name": h.Name, "value": h.Value})
	}

	fieldPartial := render.ThemePartial(opts.Theme, render.PartialField, fieldTemplate)
	fieldsData := fieldData(fields, opts, issues)
	for _, field := range fieldsData {
		markup, err := r.templates.RenderTemplate(fieldPartial, map[string]any{"field": field})
		if err != nil {
			return nil, fmt.Errorf("html renderer: render field %v: %w", field["name"], err)
		}
		field["html"] = markup
	}

	data := map[string]any{
		"country":       form.Country,
		"locale":        opts.Locale,
		"method":        formMethod(opts.Method),
		"action":        safeURL(opts.Action),
		"hidden_fields": hiddenData,
		"fields":        fieldsData,
		"form_errors":   issues.Form,
		"theme":         themeData(opts.Theme),
		"translate":     render.TemplateI18nFuncs(opts.Translator, render.TemplateI18nConfig{OnMissing: opts.OnMissing})["translate"],
	}

	result, err := r.templates.RenderTemplate(render.ThemePartial(opts.Theme, render.PartialForm, formTemplate), data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func fieldData(fields []address.FieldDescriptor, opts render.RenderOptions, issues render.IssueMapping) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		label := f.Label
		if f.ShowOptionalLabel {
			label = render.OptionalLabel(label, opts)
		}
		placeholder := ""
		if len(f.Examples) > 0 {
			placeholder = f.Examples[0]
		}
		out = append(out, map[string]any{
			"id":             "address-" + string(f.Identifier),
			"name":           string(f.Identifier),
			"type":           string(f.Type),
			"label":          label,
			"autocapitalize": autocapitalize(f.Capitalization),
			"inputmode":      inputMode(f.Keyboard),
			"autocomplete":   autocomplete(f.Identifier),
			"placeholder":    placeholder,
			"required":       f.Required,
			"value":          opts.Values.Get(f.Identifier),
			"errors":         issues.Fields[f.Identifier],
		})
	}
	return out
}

// themeData exposes the theme to the form template. Token values that could
// break out of a CSS declaration are dropped.
func themeData(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	safe := &theme.RendererConfig{CSSVars: make(map[string]string, len(cfg.CSSVars))}
	for name, value := range cfg.CSSVars {
		if safeCSSName(name) && safeCSSValue(value) {
			safe.CSSVars[name] = value
		}
	}
	stylesheet := ""
	if cfg.AssetURL != nil {
		stylesheet = safeURL(cfg.AssetURL(render.AssetStylesheet))
	}
	return map[string]any{
		"name":       cfg.Theme,
		"variant":    cfg.Variant,
		"style":      render.CSSVarsStyle(safe),
		"stylesheet": stylesheet,
	}
}

func safeCSSName(name string) bool {
	if !strings.HasPrefix(name, "--") || len(name) == 2 {
		return false
	}
	for _, r := range name[2:] {
		if !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func safeCSSValue(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	if strings.Contains(lower, "url(") || strings.Contains(lower, "expression(") {
		return false
	}
	return !strings.ContainsAny(value, ";{}<>\"'\\")
}

// safeURL keeps relative references and absolute http(s) URLs. Anything
// else, javascript: and data: included, yields "".
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		if u.Opaque != "" {
			return ""
		}
		return u.String()
	case "http", "https":
		if u.Host == "" {
			return ""
		}
		return u.String()
	default:
		return ""
	}
}

func formMethod(method string) string {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "get" {
		return method
	}
	return "post"
}

func autocapitalize(c address.Capitalization) string {
	switch c {
	case address.CapitalizationCharacters, address.CapitalizationWords, address.CapitalizationSentences:
		return string(c)
	default:
		return "off"
	}
}

func inputMode(k address.KeyboardType) string {
	if k == address.KeyboardNumber {
		return "numeric"
	}
	return "text"
}

func autocomplete(id address.IdentifierSpec) string {
	switch id {
	case address.IdentifierLine1:
		return "address-line1"
	case address.IdentifierLine2:
		return "address-line2"
	case address.IdentifierCity:
		return "address-level2"
	case address.IdentifierState:
		return "address-level1"
	case address.IdentifierDependentLocality:
		return "address-level3"
	case address.IdentifierPostalCode:
		return "postal-code"
	case address.IdentifierCountry:
		return "country"
	case address.IdentifierName:
		return "name"
	default:
		return "off"
	}
}
