package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the Swami PG operator CLI. Subcommands
// (admin, tenant) are attached here.
var rootCmd = &cobra.Command{
	Use:           "swamipg",
	Short:         "Swami PG operator CLI",
	Long:          "Operator utilities for Swami PG (admin grants, tenant record relinking).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
