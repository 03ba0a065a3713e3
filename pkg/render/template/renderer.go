// Package template defines the seam renderers use to execute templates.
package template

import (
	"io"
)

// TemplateRenderer follows the go-template engine contract. The gotemplate
// subpackage provides the default implementation.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
