// Package cli provides the Cobra command structure for gomdscan.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdscan/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdscan command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomdscan",
		Short: "A two-phase lexical scanner for Markdown",
		Long: `gomdscan tokenizes Markdown (plus raw HTML and YAML frontmatter) with a
two-phase scanner: a cheap provisional pass over each line group, then a
semantic resolution pass that pairs delimiters, coalesces text, and
normalizes whitespace.

The CLI dumps the resulting token stream for inspection, with styled text,
table, and JSON output.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
