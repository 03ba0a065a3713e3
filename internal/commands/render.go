package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform"
	"github.com/goliatone/go-addressform/internal/config"
	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/renderers/html"
)

type renderOptions struct {
	format        string
	locale        string
	values        map[string]string
	action        string
	method        string
	templates     string
	themeManifest string
	theme         string
	variant       string
	output        string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <country>",
		Short: "Render an address form as HTML, JSON descriptors or an OpenAPI schema",
		Example: `  addressform render US --value line1="1 Main St" --value city=Springfield
  addressform render FR --locale fr --action /checkout/address -O form.html
  addressform render DE --format json
  addressform render GB --theme-manifest theme.yaml --variant dark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
			if err != nil {
				return err
			}

			var htmlOpts []html.Option
			if opts.templates != "" {
				htmlOpts = append(htmlOpts, html.WithTemplatesDir(opts.templates))
			}
			registry, err := addressform.DefaultRegistry(nil, htmlOpts...)
			if err != nil {
				return err
			}
			renderer, err := registry.Lookup(opts.format)
			if err != nil {
				return err
			}

			themeCfg, err := opts.resolveTheme(s.Config.Theme.Manifest, s.Config.Theme.Name, s.Config.Theme.Variant)
			if err != nil {
				return err
			}

			fields, err := s.Repo.Fields(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			locale := opts.locale
			if locale == "" {
				locale = s.Config.Address.Locale
			}
			out, err := renderer.Render(cmd.Context(),
				render.Form{Country: address.NormalizeCountry(args[0]), Fields: fields},
				render.RenderOptions{
					Locale: locale,
					Values: address.FormValuesFromMap(opts.values),
					Action: opts.action,
					Method: opts.method,
					Theme:  themeCfg,
				})
			if err != nil {
				return err
			}

			if opts.output != "" {
				if err := os.WriteFile(opts.output, out, 0o644); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", opts.output)
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "Output format (html, json, openapi)")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Label locale (defaults to address.locale)")
	cmd.Flags().StringToStringVar(&opts.values, "value", nil, "Prefill a field (identifier=value), repeatable")
	cmd.Flags().StringVar(&opts.action, "action", "", "Form action URL")
	cmd.Flags().StringVar(&opts.method, "method", "post", "Form method (post, get)")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "Directory overriding the bundled templates")
	cmd.Flags().StringVar(&opts.themeManifest, "theme-manifest", "", "Theme manifest (overrides theme.manifest)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Theme name from the manifest")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Theme variant")
	cmd.Flags().StringVarP(&opts.output, "out", "O", "", "Output file (stdout if empty)")

	return cmd
}

// resolveTheme applies the theme flags over the configured theme section.
func (o *renderOptions) resolveTheme(manifest, name, variant string) (*theme.RendererConfig, error) {
	if path := strings.TrimSpace(o.themeManifest); path != "" {
		manifest, name, variant = path, "", ""
	}
	if o.theme != "" {
		name = o.theme
	}
	if o.variant != "" {
		variant = o.variant
	}
	if manifest == "" {
		if name != "" || variant != "" {
			return nil, errors.New("--theme and --variant need a theme manifest")
		}
		return nil, nil
	}
	selector, err := newThemeSelector(config.ThemeConfig{Manifest: manifest})
	if err != nil {
		return nil, err
	}
	return render.ResolveTheme(selector, name, variant, render.DefaultThemePartials())
}
