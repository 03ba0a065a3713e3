package repository

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-addressform/pkg/address"
)

// SourceResolver maps a normalized country code to the source of its schema.
type SourceResolver func(country string) address.Source

// Option configures a Repository.
type Option func(*Repository)

// WithLoader overrides the loader used to fetch schema documents.
func WithLoader(loader address.Loader) Option {
	return func(r *Repository) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithParser overrides the schema parser.
func WithParser(parser address.Parser) Option {
	return func(r *Repository) {
		if parser != nil {
			r.parser = parser
		}
	}
}

// WithTransformer overrides the descriptor transformer.
func WithTransformer(transformer address.Transformer) Option {
	return func(r *Repository) {
		if transformer != nil {
			r.transformer = transformer
		}
	}
}

// WithCountries replaces the supported country set. Codes are normalized.
func WithCountries(countries ...string) Option {
	return func(r *Repository) {
		r.countries = normalizeCountries(countries)
	}
}

// WithSourceResolver sets a custom country-to-source mapping.
func WithSourceResolver(resolve SourceResolver) Option {
	return func(r *Repository) {
		if resolve != nil {
			r.resolve = resolve
		}
	}
}

// WithSchemaFS reads <CC>.json files from fsys instead of the embedded set.
func WithSchemaFS(fsys fs.FS) Option {
	return func(r *Repository) {
		r.loaderOptions = append(r.loaderOptions, address.WithFileSystem(fsys))
		r.resolve = func(country string) address.Source {
			return address.SourceFromFS(address.SchemaFileName(country))
		}
	}
}

// WithSchemaDir reads <CC>.json files from a directory on disk.
func WithSchemaDir(dir string) Option {
	return func(r *Repository) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return
		}
		r.resolve = func(country string) address.Source {
			return address.SourceFromFile(filepath.Join(dir, address.SchemaFileName(country)))
		}
	}
}

// WithBaseURL fetches <base>/<CC>.json over HTTP. A nil client enables the
// default client bounded by timeout. A base that is not an absolute http(s)
// URL leaves the repository failing every lookup with ErrInvalidBaseURL.
func WithBaseURL(base string, client *http.Client, timeout time.Duration) Option {
	return func(r *Repository) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base == "" {
			return
		}
		if err := checkBaseURL(base); err != nil {
			r.err = err
			return
		}
		if client != nil {
			r.loaderOptions = append(r.loaderOptions, address.WithHTTPClient(client))
		}
		r.loaderOptions = append(r.loaderOptions, address.WithHTTPFallback(timeout))
		r.resolve = func(country string) address.Source {
			return address.SourceFromURL(base + "/" + address.SchemaFileName(country))
		}
	}
}

func checkBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidBaseURL, base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w %q: want an absolute http(s) URL", ErrInvalidBaseURL, base)
	}
	return nil
}

func normalizeCountries(countries []string) map[string]struct{} {
	out := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		if code := address.NormalizeCountry(c); code != "" {
			out[code] = struct{}{}
		}
	}
	return out
}
