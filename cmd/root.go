// Package cmd implements podo's command-line surface (init, status, stage,
// reset, make, up, down, clone) as cobra commands, each resolving a project
// config profile before touching the filesystem history or the database.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	profileFlag string
	yesFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "podo",
	Short: "podo manages declarative PostgreSQL schema migrations.",
	Long:  "podo tracks a declarative schema definition, computes the changes needed to reach it, and applies them to PostgreSQL as an ordered, reversible history.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ %s", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "config profile to use (default: \"database\")")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
}
