package render

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Partial keys the HTML form resolves through the active theme.
const (
	PartialForm  = "forms.form"
	PartialField = "forms.field"

	// AssetStylesheet names the stylesheet linked ahead of the form.
	AssetStylesheet = "forms.stylesheet"
)

// ErrThemeNotFound reports a theme or variant no manifest provides.
var ErrThemeNotFound = errors.New("render: theme not found")

// DefaultThemePartials maps each partial key to the bundled template.
func DefaultThemePartials() map[string]string {
	return map[string]string{
		PartialForm:  "templates/form.tmpl",
		PartialField: "templates/field.tmpl",
	}
}

// ManifestSelector resolves themes from manifests held in memory.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name. defaultTheme and
// defaultVariant answer requests that name neither; an empty defaultTheme
// picks the first manifest.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if m == nil || strings.TrimSpace(m.Name) == "" {
			return nil, errors.New("render: theme manifest needs a name")
		}
		if _, dup := s.manifests[m.Name]; dup {
			return nil, fmt.Errorf("render: theme %q registered twice", m.Name)
		}
		s.manifests[m.Name] = m
		if s.defaultTheme == "" {
			s.defaultTheme = m.Name
		}
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok && len(manifests) > 0 {
		return nil, fmt.Errorf("%w: default %q", ErrThemeNotFound, s.defaultTheme)
	}
	return s, nil
}

// Select returns the manifest for name and variant, falling back to the
// defaults for blank arguments.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// ResolveTheme selects a theme and flattens it into the renderer view:
// partials start from fallbacks, then the manifest, then the variant; tokens
// merge the same way and each becomes a --token CSS variable.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	m := selection.Manifest

	partials := mergeStrings(nil, fallbacks)
	partials = mergeStrings(partials, m.Templates)
	tokens := mergeStrings(nil, m.Tokens)
	files := mergeStrings(nil, m.Assets.Files)
	prefix := m.Assets.Prefix
	if v, ok := m.Variants[selection.Variant]; ok {
		partials = mergeStrings(partials, v.Templates)
		tokens = mergeStrings(tokens, v.Tokens)
		files = mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

// ThemePartial returns the template for key, or fallback when cfg carries
// none.
func ThemePartial(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg != nil {
		if p := strings.TrimSpace(cfg.Partials[key]); p != "" {
			return p
		}
	}
	return fallback
}

// CSSVarsStyle renders cfg's CSS variables as an inline style, sorted by
// name.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+cfg.CSSVars[name])
	}
	return strings.Join(parts, "; ")
}

type manifestFile struct {
	Name      string                  `yaml:"name"`
	Version   string                  `yaml:"version"`
	Tokens    map[string]string       `yaml:"tokens"`
	Templates map[string]string       `yaml:"templates"`
	Assets    assetsFile              `yaml:"assets"`
	Variants  map[string]variantsFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantsFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// LoadThemeManifest reads a YAML theme manifest from path.
func LoadThemeManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read theme manifest: %w", err)
	}
	return ParseThemeManifest(data)
}

// ParseThemeManifest decodes a YAML theme manifest.
func ParseThemeManifest(data []byte) (*theme.Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("render: theme manifest needs a name")
	}

	m := &theme.Manifest{
		Name:      file.Name,
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		m.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, v := range file.Variants {
			m.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return m, nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + file
	}
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
