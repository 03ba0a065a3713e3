package commands

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-addressform/internal/config"
	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/renderers/tui"
	"github.com/goliatone/go-addressform/pkg/repository"
)

func execute(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func testSession(interactive bool) *Session {
	return &Session{
		Config:     config.Default(),
		Logger:     zap.NewNop(),
		Repo:       repository.New(),
		IsTerminal: func() bool { return interactive },
	}
}

func TestCountriesCmd(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "countries", "-o", "json")
	require.NoError(t, err)

	var countries []string
	require.NoError(t, json.Unmarshal([]byte(out), &countries))
	assert.Equal(t, address.SupportedCountries(), countries)
}

func TestFieldsCmd(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "fields", "us", "-o", "json")
	require.NoError(t, err)

	var fields []address.FieldDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	require.Len(t, fields, 5)
	assert.Equal(t, address.IdentifierLine1, fields[0].Identifier)
	assert.Equal(t, "Address", fields[0].Label)
	assert.Equal(t, address.IdentifierPostalCode, fields[3].Identifier)

	out, _, err = execute(t, context.Background(), "", "fields", "GB")
	require.NoError(t, err)
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "Town or city")
	assert.Contains(t, out, "SW1A 1AA")

	_, _, err = execute(t, context.Background(), "", "fields", "ZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, address.ErrUnsupportedCountry)
}

func TestFieldsCmd_ConfigLocale(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "addressform.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\naddress:\n  locale: es\n"), 0o644))

	out, _, err := execute(t, context.Background(), "", "--config", cfgPath, "fields", "US")
	require.NoError(t, err)
	assert.Contains(t, out, "Dirección")

	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 7\n"), 0o644))
	_, _, err = execute(t, context.Background(), "", "--config", cfgPath, "countries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config version")
}

func TestRenderCmd(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "render", "US", "--value", "line1=1 Main St", "--action", "/checkout")
	require.NoError(t, err)
	assert.Contains(t, out, `value="1 Main St"`)
	assert.Contains(t, out, `action="/checkout"`)
	assert.Contains(t, out, `method="post"`)

	target := filepath.Join(t.TempDir(), "form.html")
	_, errOut, err := execute(t, context.Background(), "", "render", "FR", "--locale", "fr", "-O", target)
	require.NoError(t, err)
	assert.Contains(t, errOut, target)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), `data-country="FR"`)
}

func TestRenderCmd_Formats(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "render", "DE", "--format", "json", "--locale", "de", "--value", "city=Berlin")
	require.NoError(t, err)
	var payload struct {
		Country string            `json:"country"`
		Locale  string            `json:"locale"`
		Values  map[string]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "DE", payload.Country)
	assert.Equal(t, "de", payload.Locale)
	assert.Equal(t, "Berlin", payload.Values["city"])

	out, _, err = execute(t, context.Background(), "", "render", "GB", "-f", "openapi")
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"AddressGB"`)

	_, _, err = execute(t, context.Background(), "", "render", "US", "--format", "svelte")
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "available: html, json, openapi")
}

func TestRenderCmd_Theme(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`name: shop
tokens:
  accent: "#222"
assets:
  prefix: /assets
  files:
    forms.stylesheet: shop.css
variants:
  high-contrast:
    tokens:
      accent: "#000"
`), 0o600))

	out, _, err := execute(t, context.Background(), "", "render", "US", "--theme-manifest", manifest, "--variant", "high-contrast")
	require.NoError(t, err)
	assert.Contains(t, out, `<link rel="stylesheet" href="/assets/shop.css">`)
	assert.Contains(t, out, `data-theme="shop" data-theme-variant="high-contrast" style="--accent: #000"`)

	_, _, err = execute(t, context.Background(), "", "render", "US", "--theme-manifest", manifest, "--theme", "other")
	assert.ErrorIs(t, err, render.ErrThemeNotFound)

	_, _, err = execute(t, context.Background(), "", "render", "US", "--variant", "dark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need a theme manifest")
}

func TestNewThemeSelector(t *testing.T) {
	selector, err := newThemeSelector(config.ThemeConfig{})
	require.NoError(t, err)
	assert.Nil(t, selector)

	_, err = newThemeSelector(config.ThemeConfig{Manifest: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestOpenAPICmd(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "openapi", "US", "CA", "--validate")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	components, ok := doc["components"].(map[string]any)
	require.True(t, ok, "components missing: %v", doc)
	schemas, ok := components["schemas"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, schemas, "AddressUS")
	assert.Contains(t, schemas, "AddressCA")
}

func TestThumbnailCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 40, 40))))
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0o644))

	target := filepath.Join(dir, "thumb.png")
	_, errOut, err := execute(t, context.Background(), "", "thumbnail", src, "-w", "10", "-O", target)
	require.NoError(t, err)
	assert.Contains(t, errOut, "sample size 4")

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 10, cfg.Height)

	_, errOut, err = execute(t, context.Background(), "", "thumbnail", filepath.Join(dir, "missing.png"), "-w", "8", "-H", "6", "-O", target)
	require.NoError(t, err)
	assert.Contains(t, errOut, "placeholder 8x6")

	_, _, err = execute(t, context.Background(), "", "thumbnail", src, "-O", target)
	require.Error(t, err)

	_, _, err = execute(t, context.Background(), "", "thumbnail", src, "-w", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out")
}

func TestPromptCmd_RequiresTerminal(t *testing.T) {
	ctx := withSession(context.Background(), testSession(false))
	_, _, err := execute(t, ctx, "", "prompt", "US")
	assert.ErrorIs(t, err, errNotInteractive)
}

type scriptedDriver struct {
	inputs   []string
	messages []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.messages = append(d.messages, cfg.Message)
	if len(d.inputs) == 0 {
		return cfg.Default, nil
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.messages = append(d.messages, msg)
	return nil
}

func TestRunPrompt(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	driver := &scriptedDriver{inputs: []string{"1 Main St", "", "Springfield", "62701", "IL"}}
	err := runPrompt(cmd, testSession(true), "US", &promptOptions{format: "json"}, driver)
	require.NoError(t, err)

	assert.JSONEq(t, `{"line1":"1 Main St","city":"Springfield","postal_code":"62701","state":"IL"}`, out.String())
	assert.Contains(t, driver.messages, "Address line 2 (optional)")

	err = runPrompt(cmd, testSession(true), "US", &promptOptions{format: "xml"}, driver)
	require.Error(t, err)
}

func TestConnectionsCmd(t *testing.T) {
	out, _, err := execute(t, context.Background(),
		`{"mode":"for_token","configuration":{"session_client_secret":"s","publishable_key":"pk"}}`,
		"connections", "validate")
	require.NoError(t, err)
	assert.Equal(t, "valid (mode for_token)\n", out)

	_, _, err = execute(t, context.Background(), `{"configuration":{"session_client_secret":"s"}}`, "connections", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publishable key")

	out, _, err = execute(t, context.Background(), `{"status":"completed","session_id":"fcsess_1","token_id":"btok_1"}`, "connections", "result")
	require.NoError(t, err)
	assert.Equal(t, "completed session fcsess_1 (token btok_1)\n", out)

	out, _, err = execute(t, context.Background(), `{"status":"canceled"}`, "connections", "result")
	require.NoError(t, err)
	assert.Equal(t, "canceled\n", out)

	_, _, err = execute(t, context.Background(), "", "connections", "result")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve")
}

func TestLintCmd(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "openapi", "GB", "JP")
	require.NoError(t, err)

	dir := t.TempDir()
	clean := filepath.Join(dir, "addresses.json")
	require.NoError(t, os.WriteFile(clean, []byte(out), 0o644))

	out, _, err = execute(t, context.Background(), "", "lint", clean)
	require.NoError(t, err)
	assert.Equal(t, "1 document(s) ok\n", out)

	tampered := filepath.Join(dir, "tampered.json")
	require.NoError(t, os.WriteFile(tampered, []byte(strings.Replace(compactJSON(t, clean), `"keyboard":"text"`, `"keyboard":"emoji"`, 1)), 0o644))

	_, errOut, err := execute(t, context.Background(), "", "lint", clean, tampered)
	require.Error(t, err)
	assert.Contains(t, errOut, "tampered.json")
	assert.Contains(t, errOut, `unknown keyboard "emoji"`)
	assert.NotContains(t, errOut, "addresses.json:")
}

// compactJSON re-encodes path compactly so extension objects can be patched textually.
func compactJSON(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	compact, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(compact)
}
