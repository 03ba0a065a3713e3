package address

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed addressinfo/*.json
var embeddedSchemas embed.FS

// EmbeddedFS returns the bundled country schemas, one <CC>.json per country.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchemas, "addressinfo")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

var (
	supportedOnce sync.Once
	supported     []string
)

// SupportedCountries lists the country codes with a bundled schema, sorted.
func SupportedCountries() []string {
	supportedOnce.Do(func() {
		entries, err := fs.ReadDir(EmbeddedFS(), ".")
		if err != nil {
			panic(err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || path.Ext(name) != ".json" {
				continue
			}
			supported = append(supported, strings.TrimSuffix(name, ".json"))
		}
		sort.Strings(supported)
	})
	return append([]string(nil), supported...)
}

// NormalizeCountry trims and upper-cases a country code.
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SchemaFileName returns the conventional file name for a country schema.
func SchemaFileName(country string) string {
	return NormalizeCountry(country) + ".json"
}
