package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/goliatone/go-addressform/internal/address/loader"
	"github.com/goliatone/go-addressform/internal/address/parser"
	"github.com/goliatone/go-addressform/internal/address/transform"
	"github.com/goliatone/go-addressform/pkg/address"
)

// ErrInvalidBaseURL reports a schema base URL that cannot be fetched from.
var ErrInvalidBaseURL = errors.New("repository: invalid schema base URL")

// Repository resolves per-country address schemas and turns them into field
// descriptors. Every call loads the schema afresh; nothing is cached.
type Repository struct {
	loader        address.Loader
	parser        address.Parser
	transformer   address.Transformer
	countries     map[string]struct{}
	resolve       SourceResolver
	loaderOptions []address.LoaderOption
	err           error
}

// New constructs a Repository backed by the embedded country schemas unless
// options point it elsewhere.
func New(options ...Option) *Repository {
	r := &Repository{
		parser:      parser.New(),
		transformer: transform.New(),
		countries:   normalizeCountries(address.SupportedCountries()),
		resolve: func(country string) address.Source {
			return address.SourceFromFS(address.SchemaFileName(country))
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.loader == nil {
		r.loader = loader.New(address.NewLoaderOptions(r.loaderOptions...))
	}
	return r
}

// Err reports a configuration error recorded by the options. A repository
// with an error fails every Schema and Fields call with it.
func (r *Repository) Err() error {
	return r.err
}

// Countries returns the supported country codes, sorted.
func (r *Repository) Countries() []string {
	out := make([]string, 0, len(r.countries))
	for code := range r.countries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether country is in the configured set.
func (r *Repository) Supports(country string) bool {
	_, ok := r.countries[address.NormalizeCountry(country)]
	return ok
}

// Schema loads and parses the schema entries for country.
func (r *Repository) Schema(ctx context.Context, country string) ([]address.AddressSchema, error) {
	if r.err != nil {
		return nil, r.err
	}
	code := address.NormalizeCountry(country)
	if !r.Supports(code) {
		return nil, &address.SchemaError{Country: code, Index: -1, Err: address.ErrUnsupportedCountry}
	}

	src := r.resolve(code)
	doc, err := r.loader.Load(ctx, code, src)
	if err != nil {
		return nil, err
	}
	return r.parser.Parse(ctx, doc)
}

// Fields returns the ordered descriptors for country.
func (r *Repository) Fields(ctx context.Context, country string) ([]address.FieldDescriptor, error) {
	code := address.NormalizeCountry(country)
	entries, err := r.Schema(ctx, code)
	if err != nil {
		return nil, err
	}

	fields, err := r.transformer.Transform(entries)
	if err != nil {
		var schemaErr *address.SchemaError
		if errors.As(err, &schemaErr) && schemaErr.Country == "" {
			schemaErr.Country = code
			schemaErr.Location = r.resolve(code).Location()
		}
		return nil, err
	}
	return fields, nil
}
