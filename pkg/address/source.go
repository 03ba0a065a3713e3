package address

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a country schema originated so loaders can operate
// on files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }

func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }

func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }

func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("address: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("address: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// Document wraps a raw country schema payload and its origin.
type Document struct {
	source  Source
	country string
	raw     []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, country string, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, fmt.Errorf("address: source is required")
	}
	if len(raw) == 0 {
		return Document{}, &SchemaError{Country: country, Location: src.Location(), Index: -1, Err: ErrEmptyDocument}
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, country: country, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, country string, raw []byte) Document {
	doc, err := NewDocument(src, country, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source { return d.source }

// Country returns the country code the document describes.
func (d Document) Country() string { return d.country }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
