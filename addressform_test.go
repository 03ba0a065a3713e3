package addressform

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/bitmap"
	"github.com/goliatone/go-addressform/pkg/render"
)

func TestEmbeddedSchemasContainsSupportedCountries(t *testing.T) {
	fsys := EmbeddedSchemas()
	for _, country := range address.SupportedCountries() {
		if _, err := fs.ReadFile(fsys, address.SchemaFileName(country)); err != nil {
			t.Fatalf("expected %s schema to be readable: %v", country, err)
		}
	}
}

func TestEmbeddedTemplatesIncludesForm(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl")
	if err != nil {
		t.Fatalf("expected form template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "<fieldset>") {
		t.Fatalf("expected form template to render a fieldset")
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := GenerateHTML(context.Background(), " ca ", RenderOptions{Locale: "fr", Values: FormValues{"city": "Montréal"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `data-country="CA"`) || !strings.Contains(html, `value="Montréal"`) {
		t.Fatalf("unexpected markup:\n%s", html)
	}

	if _, err := GenerateHTML(context.Background(), "ZZ", RenderOptions{}); !errors.Is(err, address.ErrUnsupportedCountry) {
		t.Fatalf("expected ErrUnsupportedCountry, got %v", err)
	}
}

func TestGenerateFormats(t *testing.T) {
	registry, err := DefaultRegistry(nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "json", "openapi"}, registry.Formats()); diff != "" {
		t.Fatalf("formats mismatch (-want +got):\n%s", diff)
	}

	out, err := Generate(context.Background(), registry, "", "US", RenderOptions{})
	if err != nil || !strings.HasPrefix(string(out), "<form") {
		t.Fatalf("default format should be html: %v\n%s", err, out)
	}
	out, err = Generate(context.Background(), registry, "JSON", "US", RenderOptions{Locale: "de"})
	if err != nil || !strings.Contains(string(out), `"locale":"de"`) {
		t.Fatalf("json format: %v\n%s", err, out)
	}
	out, err = Generate(context.Background(), registry, "openapi", "US", RenderOptions{})
	if err != nil || !strings.Contains(string(out), `"title":"AddressUS"`) {
		t.Fatalf("openapi format: %v\n%s", err, out)
	}

	if _, err := Generate(context.Background(), registry, "preact", "US", RenderOptions{}); !errors.Is(err, render.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFieldsReturnsFreshSlices(t *testing.T) {
	first, err := Fields(context.Background(), "DE")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	first[0].LabelKey = "mutated"

	second, err := Fields(context.Background(), "DE")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if second[0].LabelKey == "mutated" {
		t.Fatalf("descriptors leaked between calls")
	}
}

func TestThumbnail(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 300, 100))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	opener := bitmap.FSOpener{FS: fstest.MapFS{"banner.png": {Data: buf.Bytes()}}}

	bmp, err := Thumbnail(context.Background(), opener, "banner.png", 0, 50)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if bmp.SampleSize != 2 || bmp.Width != 150 || bmp.Height != 50 {
		t.Fatalf("unexpected bitmap %+v", bmp)
	}

	if _, err := Thumbnail(context.Background(), opener, "banner.png", 0, bitmap.Unbounded); !errors.Is(err, bitmap.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}
