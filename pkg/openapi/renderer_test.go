package openapi

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-addressform/pkg/render"
)

func TestRenderer_LocalizedSchema(t *testing.T) {
	r := NewRenderer(nil)
	if r.Name() != "openapi" || r.ContentType() != "application/schema+json" {
		t.Fatalf("unexpected identity %s %s", r.Name(), r.ContentType())
	}

	out, err := r.Render(context.Background(), render.Form{Country: "us", Fields: usFields(t)}, render.RenderOptions{Locale: "fr"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var schema openapi3.Schema
	if err := json.Unmarshal(out, &schema); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if schema.Title != "AddressUS" {
		t.Fatalf("unexpected title %q", schema.Title)
	}
	city := schema.Properties["city"]
	if city == nil || city.Value == nil {
		t.Fatalf("city property missing: %s", out)
	}
	want := render.Localize(usFields(t), "fr", nil)[2].Label
	if city.Value.Title != want {
		t.Fatalf("expected localized title %q, got %q", want, city.Value.Title)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer(nil).Render(ctx, render.Form{Country: "US"}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
