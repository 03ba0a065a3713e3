package addressform

import (
	internalLoader "github.com/goliatone/go-addressform/internal/address/loader"
	internalParser "github.com/goliatone/go-addressform/internal/address/parser"
	internalTransform "github.com/goliatone/go-addressform/internal/address/transform"
	"github.com/goliatone/go-addressform/pkg/address"
)

// NewLoader constructs a schema loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...address.LoaderOption) address.Loader {
	return internalLoader.New(address.NewLoaderOptions(options...))
}

// NewParser constructs a schema parser backed by the internal implementation.
func NewParser() address.Parser {
	return internalParser.New()
}

// NewTransformer constructs the schema to descriptor transformer.
func NewTransformer() address.Transformer {
	return internalTransform.New()
}
