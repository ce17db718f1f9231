package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	output  string
)

// rootCmd is the base command when gatectl is called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "gatectl",
	Short: "Claim gate risk-scoring CLI",
	Long: `gatectl scores agent output for unverified claims and policy risk.

Core Commands:
  score   Score one call log file or a directory of logs
  audit   Inspect the gate's audit trail`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (json, table)")
}
