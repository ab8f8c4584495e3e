// Package cli provides the Cobra command structure for structparse.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root structparse command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "structparse",
		Short: "A parser and formatter for struct definitions",
		Long: `structparse parses struct definitions such as

  struct Packet { id: u32, payload: [[u8; 16]; 4] }

and reports every parse error with its exact location. It can print the
syntax tree, check whole directories in parallel, dump the token stream
and rewrite files in a canonical layout. Definitions embedded in fenced
Markdown blocks are checked too.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newParseCommand(info))
	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newFmtCommand(info))
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newCodesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
