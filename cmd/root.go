// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-sweeper",
	Short: "A CLI tool to interactively bulk-delete GitHub repositories.",
	Long: `repo-sweeper lists the repositories your personal access token can reach,
lets you mark the ones you no longer want, and deletes the marked set after
a typed confirmation. Deletions are permanent; nothing is removed without
explicit confirmation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
