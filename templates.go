package addressform

import (
	"io/fs"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedSchemas exposes the bundled country schema files, one CC.json per
// supported country.
//
// Typical mount:
//
//	mux.Handle("/addressinfo/",
//	  http.StripPrefix("/addressinfo/",
//	    http.FileServerFS(addressform.EmbeddedSchemas()),
//	  ),
//	)
func EmbeddedSchemas() fs.FS {
	return address.EmbeddedFS()
}
