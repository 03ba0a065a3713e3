package addressform

import (
	"context"
	"sync"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/bitmap"
	"github.com/goliatone/go-addressform/pkg/openapi"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/renderers/descriptor"
	"github.com/goliatone/go-addressform/pkg/renderers/html"
	"github.com/goliatone/go-addressform/pkg/repository"
)

// FieldDescriptor aliases address.FieldDescriptor for callers that only need
// the top-level package.
type FieldDescriptor = address.FieldDescriptor

// FormValues aliases address.FormValues.
type FormValues = address.FormValues

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewRepository exposes the repository constructor from the top-level module.
func NewRepository(options ...repository.Option) *repository.Repository {
	return repository.New(options...)
}

var (
	defaultRepoOnce sync.Once
	defaultRepo     *repository.Repository
)

func defaultRepository() *repository.Repository {
	defaultRepoOnce.Do(func() {
		defaultRepo = repository.New()
	})
	return defaultRepo
}

// Fields returns the ordered descriptors of a bundled country schema.
func Fields(ctx context.Context, country string) ([]FieldDescriptor, error) {
	return defaultRepository().Fields(ctx, country)
}

// DefaultRegistry returns the built-in renderers: html (the default), json
// descriptors and openapi schemas. A nil translator uses the bundled catalog.
func DefaultRegistry(t render.Translator, options ...html.Option) (*render.Registry, error) {
	if t != nil {
		options = append([]html.Option{html.WithTranslator(t)}, options...)
	}
	htmlRenderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(
		htmlRenderer,
		descriptor.New(descriptor.WithTranslator(t)),
		openapi.NewRenderer(t),
	)
}

// Generate renders the bundled form for country in format. An empty format
// selects the registry default.
func Generate(ctx context.Context, registry *render.Registry, format, country string, opts RenderOptions) ([]byte, error) {
	renderer, err := registry.Lookup(format)
	if err != nil {
		return nil, err
	}
	fields, err := Fields(ctx, country)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.Form{Country: address.NormalizeCountry(country), Fields: fields}, opts)
}

// GenerateHTML renders the bundled form for country with the built-in HTML
// renderer. It is the simplest entry point for callers that just want markup.
func GenerateHTML(ctx context.Context, country string, opts RenderOptions) ([]byte, error) {
	registry, err := DefaultRegistry(nil)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, registry, "html", country, opts)
}

// Thumbnail resolves layout constraints into a decode target and loads src
// through opener, substituting a placeholder when the load fails.
func Thumbnail(ctx context.Context, opener bitmap.Opener, src string, maxWidth, maxHeight int, options ...bitmap.LoaderOption) (*bitmap.Bitmap, error) {
	width, height, err := bitmap.ResolveTarget(maxWidth, maxHeight)
	if err != nil {
		return nil, err
	}
	return bitmap.NewLoader(opener, options...).LoadOrPlaceholder(ctx, src, width, height)
}
