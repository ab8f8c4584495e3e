package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/pkg/reporter"
)

//nolint:gochecknoglobals // Read-only lookup table.
var parseFormats = []reporter.Format{reporter.FormatText, reporter.FormatJSON}

func newParseCommand(info BuildInfo) *cobra.Command {
	flags := &outputFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse struct definitions and print their syntax tree",
		Long:  parseLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, flags, info)
		},
	}

	addOutputFlags(cmd, flags, parseFormats)

	return cmd
}

const parseLongDescription = `Parse struct definitions and print the resulting syntax tree.

With no paths, or with "-", the definitions are read from standard input.
Directories are searched recursively for .sdef and .struct files.

Examples:
  structparse parse point.sdef              # Print the tree of one file
  echo 'struct P { x: i32 }' | structparse parse
  structparse parse --format json defs/     # Emit every tree as JSON`

func runParse(cmd *cobra.Command, args []string, flags *outputFlags, info BuildInfo) error {
	args, err := stdinDefault(cmd, args)
	if err != nil {
		return err
	}

	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, cliCfg, info.Version)
	if err != nil {
		return err
	}

	format, err := sess.resolveFormat(cmd, parseFormats)
	if err != nil {
		return err
	}

	result, err := sess.run(cmd, sess.pipelineOptions(), args)
	if err != nil {
		return err
	}

	err = sess.report(result, reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		ShowContext: !flags.noContext,
		ShowSummary: !isStdinArg(args),
		ShowAST:     true,
		Compact:     flags.compact,
	})
	if err != nil {
		return err
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrParseErrorsFound
	}
	return nil
}

// stdinDefault turns an empty argument list into "-". Reading from an
// interactive terminal is refused since it would block silently.
func stdinDefault(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if isInteractive(cmd.InOrStdin()) {
		return nil, &UsageError{
			Message: "no input: pass file paths or pipe definitions on standard input (see '" +
				cmd.CommandPath() + " --help')",
		}
	}
	return []string{"-"}, nil
}
