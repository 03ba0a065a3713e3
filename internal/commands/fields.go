package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
)

type fieldsOptions struct {
	locale string
	output string
}

func newFieldsCmd() *cobra.Command {
	opts := &fieldsOptions{}

	cmd := &cobra.Command{
		Use:   "fields <country>",
		Short: "Show the ordered field descriptors for a country",
		Example: `  addressform fields US
  addressform fields GB --locale fr -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
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
			fields = render.Localize(fields, locale, nil)

			switch opts.output {
			case "json":
				payload, err := json.MarshalIndent(fields, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return err
			case "table", "":
				return printFieldsTable(cmd.OutOrStdout(), fields)
			}
			return fmt.Errorf("unsupported output %q", opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Label locale (defaults to address.locale)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")

	return cmd
}

func printFieldsTable(out io.Writer, fields []address.FieldDescriptor) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "IDENTIFIER\tLABEL\tREQUIRED\tKEYBOARD\tCAPITALIZATION\tEXAMPLES")
	for _, f := range fields {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
			f.Identifier, f.Label, f.Required, f.Keyboard, f.Capitalization, strings.Join(f.Examples, ", "))
	}
	return w.Flush()
}
