package render

import (
	"context"

	"github.com/goliatone/go-addressform/pkg/address"
)

// Form is the renderable unit: a country and its ordered descriptors.
type Form struct {
	Country string
	Fields  []address.FieldDescriptor
}

// Renderer converts a Form into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}
