package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/openapi"
)

type openAPIOptions struct {
	validate bool
}

func newOpenAPICmd() *cobra.Command {
	opts := &openAPIOptions{}

	cmd := &cobra.Command{
		Use:   "openapi [country...]",
		Short: "Export address forms as OpenAPI component schemas",
		Example: `  addressform openapi US CA
  addressform openapi --validate > addresses.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			countries := args
			if len(countries) == 0 {
				countries = s.Repo.Countries()
			}

			forms := make(map[string][]address.FieldDescriptor, len(countries))
			for _, country := range countries {
				fields, err := s.Repo.Fields(cmd.Context(), country)
				if err != nil {
					return err
				}
				forms[address.NormalizeCountry(country)] = fields
			}

			doc := openapi.Document(forms)
			if opts.validate {
				if err := openapi.ValidateDocument(cmd.Context(), doc); err != nil {
					return err
				}
				if violations := openapi.LintExtensions(doc); len(violations) > 0 {
					return reportViolations(cmd, "generated document", violations)
				}
			}
			payload, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.validate, "validate", false, "Validate and lint the generated document before printing")

	return cmd
}
