package render

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is the catalog every lookup falls back to.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Catalog is a Translator backed by flat key/value YAML files, one per
// locale. Lookups try the exact locale, then its base language, then
// DefaultLocale.
type Catalog struct {
	messages map[string]map[string]string
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog built from the bundled locale files.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(embeddedLocales, "locales")
	})
	if defaultCatalogErr != nil {
		panic(fmt.Errorf("render: load bundled locales: %w", defaultCatalogErr))
	}
	return defaultCatalog
}

// LoadCatalog reads every <locale>.yaml file under dir in fsys.
func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("render: read locales: %w", err)
	}

	c := &Catalog{messages: make(map[string]map[string]string)}
	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("render: read locale %s: %w", name, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(raw, &messages); err != nil {
			return nil, fmt.Errorf("render: decode locale %s: %w", name, err)
		}
		c.Add(strings.TrimSuffix(name, ext), messages)
	}
	return c, nil
}

// Add merges messages into the catalog for locale.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" {
		return
	}
	if c.messages == nil {
		c.messages = make(map[string]map[string]string)
	}
	dst, ok := c.messages[locale]
	if !ok {
		dst = make(map[string]string, len(messages))
		c.messages[locale] = dst
	}
	for k, v := range messages {
		dst[strings.TrimSpace(k)] = v
	}
}

// Locales lists the locales the catalog carries.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator. Extra args are applied with fmt.Sprintf.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	for _, candidate := range localeChain(locale) {
		msg, ok := c.messages[candidate][key]
		if !ok || strings.TrimSpace(msg) == "" {
			continue
		}
		if len(args) > 0 {
			msg = fmt.Sprintf(msg, args...)
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %q (%s)", ErrMissingTranslation, key, locale)
}

func localeChain(locale string) []string {
	locale = normalizeLocale(locale)
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if base, _, ok := strings.Cut(locale, "-"); ok {
			chain = append(chain, base)
		}
	}
	if locale != DefaultLocale {
		chain = append(chain, DefaultLocale)
	}
	return chain
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	return strings.ReplaceAll(locale, "_", "-")
}
