package cmd

import (
	"github.com/grovetools/core/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tplogs.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"tplogs",
		"Teleport session reconstruction and movement statistics",
	)

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
