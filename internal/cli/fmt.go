package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/internal/logging"
	"github.com/yaklabco/structparse/pkg/config"
	"github.com/yaklabco/structparse/pkg/reporter"
	"github.com/yaklabco/structparse/pkg/runner"
)

type fmtFlags struct {
	inline bool
	write  bool
	diff   bool
	indent string
}

func newFmtCommand(info BuildInfo) *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Print struct definitions in canonical form",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, flags, info)
		},
	}

	cmd.Flags().BoolVar(&flags.inline, "inline", false, "use the one-line form")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite changed files in place")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff instead of the formatted output")
	cmd.Flags().StringVar(&flags.indent, "indent", config.DefaultIndent, "field indentation of the multi-line form")

	return cmd
}

const fmtLongDescription = `Print struct definitions in canonical form.

Definitions that parse cleanly are printed one field per line; --inline
selects the single-line form. Comments are not preserved. Files with
parse errors are left untouched and their errors are reported on
standard error.

With no paths, or with "-", the definitions are read from standard input.
Markdown files are never rewritten.

Examples:
  structparse fmt point.sdef            # Print the canonical form
  structparse fmt --write defs/         # Rewrite changed files in place
  structparse fmt --diff defs/          # Show what --write would change
  structparse fmt --inline point.sdef   # Print each struct on one line`

func runFmt(cmd *cobra.Command, args []string, flags *fmtFlags, info BuildInfo) error {
	args, err := stdinDefault(cmd, args)
	if err != nil {
		return err
	}
	if flags.write && isStdinArg(args) {
		return &UsageError{Message: "--write cannot be used with standard input"}
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("indent") {
		cliCfg.Indent = flags.indent
	}

	sess, err := newSession(cmd, cliCfg, info.Version)
	if err != nil {
		return err
	}

	opts := sess.pipelineOptions()
	opts.Format = true
	opts.Inline = flags.inline
	opts.Write = flags.write

	result, err := sess.run(cmd, opts, args)
	if err != nil {
		return err
	}

	if result.HasFailures() {
		err := sess.report(result, reporter.Options{
			Writer:      cmd.ErrOrStderr(),
			Format:      reporter.FormatText,
			ShowContext: true,
		})
		if err != nil {
			return err
		}
	}

	switch {
	case flags.diff:
		err = sess.report(result, reporter.Options{
			Writer:      cmd.OutOrStdout(),
			Format:      reporter.FormatDiff,
			ShowSummary: true,
		})
	case flags.write:
		err = sess.listWritten(cmd.OutOrStdout(), result)
	default:
		err = writeFormatted(cmd.OutOrStdout(), sess.workDir, result)
	}
	if err != nil {
		return err
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrParseErrorsFound
	}
	return nil
}

// listWritten prints the path of every rewritten file.
func (s *session) listWritten(w io.Writer, result *runner.Result) error {
	for _, file := range result.Files {
		if file.Result == nil {
			continue
		}
		path := displayPath(s.workDir, file.Path)
		switch {
		case file.Result.Skipped:
			s.logger.Warn("file not rewritten", logging.FieldPath, path, logging.FieldWarning, file.Result.SkipReason)
		case file.Result.Written:
			if _, err := fmt.Fprintln(w, path); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
		}
	}

	s.logger.Debug("formatting complete",
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
	)
	return nil
}

// writeFormatted prints the canonical form of every file that parsed.
// When more than one file is printed each is preceded by a comment
// naming it, so the output remains a valid document.
func writeFormatted(w io.Writer, workDir string, result *runner.Result) error {
	var formatted []runner.FileOutcome
	for _, file := range result.Files {
		if file.Result != nil && file.Result.Formatted != nil {
			formatted = append(formatted, file)
		}
	}

	out := bufio.NewWriter(w)
	for i, file := range formatted {
		if len(formatted) > 1 {
			if i > 0 {
				_, _ = out.WriteString("\n")
			}
			_, _ = out.WriteString("// " + displayPath(workDir, file.Path) + "\n")
		}
		_, _ = out.Write(file.Result.Formatted)
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("%w: write output: %w", ErrIO, err)
	}
	return nil
}

// displayPath makes path relative to workDir when it lies beneath it.
func displayPath(workDir, path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
