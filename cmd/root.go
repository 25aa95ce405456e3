// Package cmd defines and implements the CLI commands for the
// newsharvest executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsharvest",
		Short: "Harvests news articles from a publication homepage into a JSON store.",
		Long: `newsharvest discovers article links on a single publication's
homepage, extracts structured fields from the article markup, and
persists each new article as one JSON record on local disk. Articles
already present in the store are recognized by URL fingerprint and
skipped without being fetched again.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults and environment apply without one)")
	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
