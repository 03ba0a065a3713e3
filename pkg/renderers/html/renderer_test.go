package html_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/renderers/html"
	"github.com/goliatone/go-addressform/pkg/repository"
	"github.com/goliatone/go-addressform/pkg/testsupport"
)

func usForm(t *testing.T) render.Form {
	t.Helper()
	fields, err := repository.New().Fields(testsupport.Context(), "US")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	return render.Form{Country: "US", Fields: fields}
}

func TestRenderer_RendersLocalizedFieldset(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(testsupport.Context(), usForm(t), render.RenderOptions{
		Locale: "es",
		Action: "/checkout/address",
		Values: address.FormValues{
			address.IdentifierLine1: "<script>alert(1)</script>1 Main St",
			address.IdentifierState: "CA",
		},
		Issues: []address.Issue{{Field: address.IdentifierCity, Message: "is required"}},
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	wants := []string{
		`<form class="address-form" method="post" action="/checkout/address" data-country="US">`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="country" value="US">`,
		`<legend>Dirección</legend>`,
		`<label for="address-line2">Línea 2 de la dirección (opcional)</label>`,
		`name="line1" type="text" autocapitalize="words" inputmode="text" autocomplete="address-line1" required aria-required="true" value="1 Main St">`,
		`name="postal_code" type="text" autocapitalize="off" inputmode="numeric" autocomplete="postal-code" placeholder="94103" required`,
		`name="state" type="text" autocapitalize="words" inputmode="text" autocomplete="address-level1" placeholder="CA" required aria-required="true" value="CA">`,
		`aria-invalid="true"`,
		`<p class="address-error" role="alert">is required</p>`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("script markup leaked into output:\n%s", html)
	}
	if strings.Index(html, `name="postal_code"`) > strings.Index(html, `name="state"`) {
		t.Fatalf("postal code should precede state")
	}
	if strings.Contains(html, `name="line2" type="text" autocapitalize="words" inputmode="text" autocomplete="address-line2" required`) {
		t.Fatalf("optional line2 marked required")
	}
}

func TestRenderer_EscapesLabels(t *testing.T) {
	renderer, err := html.New(html.WithTranslator(render.TranslatorFunc(func(_, key string, _ ...any) (string, error) {
		if key == "address_label_city" {
			return `Town "<b>x</b>"`, nil
		}
		return key, nil
	})))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), render.Form{Country: "XX", Fields: []address.FieldDescriptor{
		{Identifier: address.IdentifierCity, Type: address.FieldTypeLocality, LabelKey: "address_label_city", Required: true},
	}}, render.RenderOptions{Method: "GET"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `method="get"`) {
		t.Fatalf("expected GET method:\n%s", html)
	}
	if strings.Contains(html, "<b>") || !strings.Contains(html, "Town &#34;x&#34;") {
		t.Fatalf("label not sanitized:\n%s", html)
	}
}

func TestRenderer_FormAction(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := render.Form{Country: "XX", Fields: []address.FieldDescriptor{
		{Identifier: address.IdentifierCity, Type: address.FieldTypeLocality, LabelKey: "address_label_city"},
	}}

	cases := []struct {
		action string
		want   string
	}{
		{action: "/checkout/address", want: `action="/checkout/address"`},
		{action: "https://shop.example.com/address?step=2", want: `action="https://shop.example.com/address?step=2"`},
		{action: "javascript:alert(document.cookie)"},
		{action: " JavaScript:alert(1)"},
		{action: "java\tscript:alert(1)"},
		{action: "data:text/html;base64,PHNjcmlwdD4="},
		{action: "vbscript:msgbox(1)"},
		{action: "https:///no-host"},
	}
	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			out, err := renderer.Render(context.Background(), form, render.RenderOptions{Action: tc.action})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			html := string(out)
			if tc.want == "" {
				if strings.Contains(html, "action=") || strings.Contains(strings.ToLower(html), "script:") {
					t.Fatalf("unsafe action %q reflected:\n%s", tc.action, html)
				}
				return
			}
			if !strings.Contains(html, tc.want) {
				t.Fatalf("expected %s in:\n%s", tc.want, html)
			}
		})
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	renderer, err := html.New(html.WithTemplatesFS(fstest.MapFS{
		"templates/form.tmpl": {Data: []byte(`{% for field in fields %}[{{ field.name }}:{{ field.inputmode }}]{% endfor %}`)},
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), usForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "[line1:text][line2:text][city:text][postal_code:numeric][state:text]"
	if string(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, usForm(t), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRenderer_Theme(t *testing.T) {
	manifest, err := render.ParseThemeManifest([]byte(`
name: compact
version: 1.0.0
tokens:
  field-gap: 4px
  accent: "red; background: url(https://evil.example/x)"
templates:
  forms.field: themes/compact/field.tmpl
assets:
  prefix: /static/compact
  files:
    forms.stylesheet: forms.css
variants:
  dark:
    tokens:
      surface: "#111"
`))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	selector, err := render.NewManifestSelector("", "", manifest)
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	cfg, err := render.ResolveTheme(selector, "compact", "dark", render.DefaultThemePartials())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	renderer, err := html.New(html.WithTemplatesFS(fstest.MapFS{
		"themes/compact/field.tmpl": {Data: []byte(`<i data-name="{{ field.name }}">{{ field.label|sanitize }}</i>`)},
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := render.Form{Country: "XX", Fields: []address.FieldDescriptor{
		{Identifier: address.IdentifierCity, Type: address.FieldTypeLocality, LabelKey: "address_label_city"},
	}}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	wants := []string{
		`<link rel="stylesheet" href="/static/compact/forms.css">`,
		`data-theme="compact" data-theme-variant="dark" style="--field-gap: 4px; --surface: #111"`,
		`<i data-name="city">City</i>`,
		`<legend>Address</legend>`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "evil.example") {
		t.Fatalf("unsafe token reached the style attribute:\n%s", html)
	}
	if strings.Contains(html, `class="address-field"`) {
		t.Fatalf("bundled field partial used despite theme override:\n%s", html)
	}
}
