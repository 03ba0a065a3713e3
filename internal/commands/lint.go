package commands

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform/pkg/openapi"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <openapi-file>...",
		Short: "Lint OpenAPI documents for unsupported address form extensions",
		Long: `Check the x-formgen extensions of every component schema: field types,
keyboards, capitalization hints, and that x-formgen-order lists each property
exactly once.`,
		Example: `  addressform openapi > addresses.json
  addressform lint addresses.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []openapi.Violation
			for _, path := range args {
				doc, err := openapi3.NewLoader().LoadFromFile(path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				violations := openapi.LintExtensions(doc)
				for _, v := range violations {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, v)
				}
				all = append(all, violations...)
			}
			if len(all) > 0 {
				return fmt.Errorf("%d extension violation(s)", len(all))
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d document(s) ok\n", len(args))
			return err
		},
	}
	return cmd
}

func reportViolations(cmd *cobra.Command, source string, violations []openapi.Violation) error {
	for _, v := range violations {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", source, v)
	}
	return fmt.Errorf("%d extension violation(s)", len(violations))
}
