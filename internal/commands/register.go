// Package commands contains all addressform CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:               "addressform",
		Short:             "Country-aware address forms",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: preRunLoad(opts),
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to addressform.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newCountriesCmd(),
		newFieldsCmd(),
		newRenderCmd(),
		newPromptCmd(),
		newOpenAPICmd(),
		newLintCmd(),
		newThumbnailCmd(),
		newServeCmd(),
	)
	registerConnectionsCmd(rootCmd)

	return rootCmd
}

func registerConnectionsCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Inspect bank connections session payloads",
	}

	cmd.AddCommand(newConnectionsValidateCmd(), newConnectionsResultCmd())

	parent.AddCommand(cmd)
}
