package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/renderers/tui"
)

type promptOptions struct {
	locale string
	format string
	review bool
	values map[string]string
}

// errNotInteractive is returned when prompt runs without a terminal.
var errNotInteractive = errors.New("prompt requires an interactive terminal")

func newPromptCmd() *cobra.Command {
	opts := &promptOptions{}

	cmd := &cobra.Command{
		Use:   "prompt <country>",
		Short: "Collect an address interactively",
		Example: `  addressform prompt US
  addressform prompt DE --locale de --format form --review`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			if s.IsTerminal == nil || !s.IsTerminal() {
				return errNotInteractive
			}
			return runPrompt(cmd, s, args[0], opts, tui.NewSurveyDriver(cmd.ErrOrStderr()))
		},
	}

	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Label locale (defaults to address.locale)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(tui.OutputFormatJSON), "Output format (json, form, pretty)")
	cmd.Flags().BoolVar(&opts.review, "review", false, "Confirm the collected address before printing it")
	cmd.Flags().StringToStringVar(&opts.values, "value", nil, "Default for a field (identifier=value), repeatable")

	return cmd
}

func runPrompt(cmd *cobra.Command, s *Session, country string, opts *promptOptions, driver tui.PromptDriver) error {
	fields, err := s.Repo.Fields(cmd.Context(), country)
	if err != nil {
		return err
	}

	format := tui.OutputFormat(opts.format)
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	tuiOpts := []tui.Option{tui.WithPromptDriver(driver), tui.WithOutputFormat(format)}
	if opts.review {
		tuiOpts = append(tuiOpts, tui.WithReview(3))
	}

	locale := opts.locale
	if locale == "" {
		locale = s.Config.Address.Locale
	}
	out, err := tui.New(tuiOpts...).Render(cmd.Context(),
		render.Form{Country: address.NormalizeCountry(country), Fields: fields},
		render.RenderOptions{Locale: locale, Values: address.FormValuesFromMap(opts.values)},
	)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
