package commands

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type countriesOptions struct {
	output string
}

func newCountriesCmd() *cobra.Command {
	opts := &countriesOptions{}

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries with an address schema",
		Example: `  addressform countries
  addressform countries -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			countries := s.Repo.Countries()
			out := cmd.OutOrStdout()
			switch opts.output {
			case "json":
				payload, err := json.Marshal(countries)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(payload))
				return err
			case "text", "":
				_, err = fmt.Fprintln(out, strings.Join(countries, "\n"))
				return err
			}
			return fmt.Errorf("unsupported output %q", opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format (text, json)")

	return cmd
}
