package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/pkg/reporter"
)

//nolint:gochecknoglobals // Read-only lookup table.
var checkFormats = []reporter.Format{
	reporter.FormatText,
	reporter.FormatJSON,
	reporter.FormatSARIF,
	reporter.FormatSummary,
}

func newCheckCommand(info BuildInfo) *cobra.Command {
	flags := &outputFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check struct definitions for parse errors",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, info)
		},
	}

	addOutputFlags(cmd, flags, checkFormats)

	return cmd
}

const checkLongDescription = `Check struct definition files and report every parse error.

By default, checks all .sdef and .struct files in the current directory
and subdirectories. Markdown files are scanned for fenced structdef
blocks when markdown.enabled is set. Use "-" to check standard input.

The command exits non-zero when any file fails to parse.

Examples:
  structparse check                    # Check current directory
  structparse check defs/ api.sdef     # Check specific paths
  structparse check --format sarif     # Output SARIF for code scanning
  structparse check --format summary   # Print aggregate counts only`

func runCheck(cmd *cobra.Command, args []string, flags *outputFlags, info BuildInfo) error {
	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, cliCfg, info.Version)
	if err != nil {
		return err
	}

	format, err := sess.resolveFormat(cmd, checkFormats)
	if err != nil {
		return err
	}

	result, err := sess.run(cmd, sess.pipelineOptions(), args)
	if err != nil {
		return err
	}

	if err := sess.reportTo(cmd.OutOrStdout(), result, flags, format); err != nil {
		return err
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrParseErrorsFound
	}
	return nil
}
