package gotemplate

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"
)

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	engine, err := New(
		WithFS(fstest.MapFS{
			"templates/hello.tmpl": {Data: []byte(`{{ greet(name|trim) }} from {{ site }}`)},
		}),
		WithGlobalData(map[string]any{"site": "addressform"}),
		WithTemplateFunc(map[string]any{
			"greet": func(name string) string { return "hello " + name },
		}),
		WithGoTemplateOptions(),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var sink strings.Builder
	got, err := engine.RenderTemplate("templates/hello", map[string]any{"name": "  ana "}, &sink)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hello ana from addressform" {
		t.Fatalf("unexpected output %q", got)
	}
	if sink.String() != got {
		t.Fatalf("writer did not receive output")
	}
}

func TestEngine_FallbackSources(t *testing.T) {
	override := fstest.MapFS{
		"templates/form.tmpl": {Data: []byte(`custom[{% include "field.tmpl" %}]`)},
	}
	defaults := fstest.MapFS{
		"templates/form.tmpl":  {Data: []byte(`default`)},
		"templates/field.tmpl": {Data: []byte(`field`)},
	}
	engine, err := New(WithFS(override), WithFS(defaults))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("templates/form", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "custom[field]" {
		t.Fatalf("expected override with default partial, got %q", got)
	}
}

func TestEngine_RenderDispatch(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{
		"templates/line.tmpl": {Data: []byte(`line {{ n }}`)},
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.Render("templates/line", map[string]any{"n": 1})
	if err != nil || got != "line 1" {
		t.Fatalf("render path: %q %v", got, err)
	}
	got, err = engine.Render(`inline {{ n }}`, map[string]any{"n": 2})
	if err != nil || got != "inline 2" {
		t.Fatalf("render inline: %q %v", got, err)
	}
}

func TestEngine_RenderStringAndFilters(t *testing.T) {
	engine, err := New(
		WithFS(fstest.MapFS{}),
		WithFilter("shout_test", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(strings.ToUpper(in.String())), nil
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString(`{{ word|shout_test }} {{ raw }}`, map[string]any{"word": "zip", "raw": "<b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ZIP &lt;b&gt;" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	err = engine.RegisterFilter("postcode_test", func(in any, _ any) (any, error) {
		s, _ := in.(string)
		if s == "" {
			return nil, errors.New("empty postcode")
		}
		return strings.ToUpper(strings.ReplaceAll(s, " ", "")), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := engine.RenderString(`{{ code|postcode_test }}`, map[string]any{"code": "sw1a 1aa"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "SW1A1AA" {
		t.Fatalf("unexpected output %q", got)
	}
	if _, err := engine.RenderString(`{{ code|postcode_test }}`, map[string]any{"code": ""}); err == nil {
		t.Fatalf("expected filter error to surface")
	}

	if err := engine.RegisterFilter("postcode_test", func(in any, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	if err := engine.RegisterFilter(" ", nil); err == nil {
		t.Fatalf("expected error for blank filter")
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without a template source")
	}

	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
	if _, err := engine.RenderString(`{{ ok }}`, 42); err == nil {
		t.Fatalf("expected unsupported data error")
	}
}
