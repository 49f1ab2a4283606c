// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-profile",
	Short: "A CLI tool to build a profile report from a user's public GitHub repositories.",
	Long: `github-profile inventories the public repositories of a GitHub user and
produces a profile report: language composition, weekly commit activity,
keywords from repository names and READMEs, topics and repository rankings.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
