package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-addressform/pkg/connections"
)

type connectionsFileOptions struct {
	file string
}

func (o *connectionsFileOptions) read(cmd *cobra.Command) ([]byte, error) {
	if o.file == "" || o.file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(o.file)
}

func newConnectionsValidateCmd() *cobra.Command {
	opts := &connectionsFileOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate session arguments before launching a connections session",
		Example: `  addressform connections validate -f args.json
  echo '{"configuration":{...}}' | addressform connections validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := opts.read(cmd)
			if err != nil {
				return err
			}
			parsed, err := connections.DecodeArgs(payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "valid (mode %s)\n", parsed.Mode)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Arguments JSON file (stdin if empty)")

	return cmd
}

func newConnectionsResultCmd() *cobra.Command {
	opts := &connectionsFileOptions{}

	cmd := &cobra.Command{
		Use:   "result",
		Short: "Describe a session result payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := opts.read(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch r := connections.ParseResult(payload).(type) {
			case connections.Completed:
				if r.TokenID != "" {
					_, err = fmt.Fprintf(out, "completed session %s (token %s)\n", r.SessionID, r.TokenID)
				} else {
					_, err = fmt.Fprintf(out, "completed session %s\n", r.SessionID)
				}
				return err
			case connections.Canceled:
				_, err = fmt.Fprintln(out, "canceled")
				return err
			case connections.Failed:
				return fmt.Errorf("failed: %w", r)
			}
			return errors.New("unrecognised result")
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Result JSON file (stdin if empty)")

	return cmd
}
