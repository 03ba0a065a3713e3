// Package config handles the addressform service configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/bitmap"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Duration decodes from strings such as "15s" or "250ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the addressform.yaml service configuration file.
type Config struct {
	Version int           `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Address AddressConfig `yaml:"address"`
	Images  ImagesConfig  `yaml:"images"`
	Theme   ThemeConfig   `yaml:"theme,omitempty"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

// AddressConfig selects where country schemas come from. Dir wins over
// BaseURL; with neither set the embedded schemas are used.
type AddressConfig struct {
	Dir       string   `yaml:"dir,omitempty"`
	BaseURL   string   `yaml:"base_url,omitempty"`
	Locale    string   `yaml:"locale"`
	Countries []string `yaml:"countries,omitempty"`
}

type ImagesConfig struct {
	FetchTimeout     Duration `yaml:"fetch_timeout"`
	MaxPixels        int      `yaml:"max_pixels"`
	MaxTargetPixels  int      `yaml:"max_target_pixels"`
	AllowedHosts     []string `yaml:"allowed_hosts,omitempty"`
	PlaceholderColor string   `yaml:"placeholder_color"`
}

// ThemeConfig points at a theme manifest used by the HTML form. Name and
// Variant pick the defaults when a request does not ask for one.
type ThemeConfig struct {
	Manifest string `yaml:"manifest,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Variant  string `yaml:"variant,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
		Address: AddressConfig{Locale: "en"},
		Images: ImagesConfig{
			FetchTimeout:     Duration(10 * time.Second),
			MaxPixels:        bitmap.DefaultMaxPixels,
			MaxTargetPixels:  bitmap.DefaultMaxTargetPixels,
			PlaceholderColor: "#E3E8EE",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a Config from a file path. Keys absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Images.FetchTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	if c.Address.BaseURL != "" {
		u, err := url.Parse(c.Address.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("address.base_url must be an absolute http(s) URL, got %q", c.Address.BaseURL)
		}
	}
	supported := make(map[string]struct{})
	for _, cc := range address.SupportedCountries() {
		supported[cc] = struct{}{}
	}
	for _, cc := range c.Address.Countries {
		if _, ok := supported[address.NormalizeCountry(cc)]; !ok && c.Address.Dir == "" && c.Address.BaseURL == "" {
			return fmt.Errorf("address.countries: %q has no bundled schema", cc)
		}
	}
	if c.Images.MaxPixels < 0 {
		return errors.New("images.max_pixels cannot be negative")
	}
	if c.Images.MaxTargetPixels < 0 {
		return errors.New("images.max_target_pixels cannot be negative")
	}
	if c.Theme.Manifest == "" && (c.Theme.Name != "" || c.Theme.Variant != "") {
		return errors.New("theme: name and variant need a manifest")
	}
	if _, err := bitmap.ParseHexColor(c.Images.PlaceholderColor); err != nil {
		return fmt.Errorf("images.placeholder_color: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
