package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/internal/logging"
	"github.com/yaklabco/structparse/pkg/config"
	"github.com/yaklabco/structparse/pkg/reporter"
	"github.com/yaklabco/structparse/pkg/runner"
)

// outputFlags are the reporting flags shared by parse and check.
type outputFlags struct {
	format    string
	noContext bool
	compact   bool
}

func addOutputFlags(cmd *cobra.Command, flags *outputFlags, formats []reporter.Format) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: "+joinFormats(formats))
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON and SARIF output")
}

// cliConfig maps the output flags onto a CLI configuration layer.
// Only flags the user set are carried so that lower layers still apply.
func (f *outputFlags) cliConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if cmd.Flags().Changed("format") {
		if _, err := reporter.ParseFormat(f.format); err != nil {
			return nil, &UsageError{Message: err.Error()}
		}
		cfg.Format = config.OutputFormat(f.format)
	}
	return cfg, nil
}

// resolveFormat picks the report format for a command. A format set on
// the command line must be one the command supports; one inherited from
// configuration falls back to text when the command cannot produce it.
func (s *session) resolveFormat(cmd *cobra.Command, allowed []reporter.Format) (reporter.Format, error) {
	format, err := reporter.ParseFormat(string(s.cfg.Format))
	if err != nil {
		return "", &UsageError{Message: err.Error()}
	}

	if slices.Contains(allowed, format) {
		return format, nil
	}

	if cmd.Flags().Changed("format") {
		return "", &UsageError{
			Message: fmt.Sprintf("%s does not support format %q; use one of: %s",
				cmd.Name(), format, joinFormats(allowed)),
		}
	}

	s.logger.Debug("configured format not supported here, using text", logging.FieldFormat, format)
	return reporter.FormatText, nil
}

// report writes result with a reporter built from opts.
func (s *session) report(result *runner.Result, opts reporter.Options) error {
	opts.Color = s.color
	opts.WorkingDir = s.workDir
	opts.Version = s.version

	rep, err := reporter.New(opts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(s.ctx, result); err != nil {
		return fmt.Errorf("%w: report results: %w", ErrIO, err)
	}

	return nil
}

// reportTo is report with the text defaults for w.
func (s *session) reportTo(w io.Writer, result *runner.Result, flags *outputFlags, format reporter.Format) error {
	return s.report(result, reporter.Options{
		Writer:      w,
		Format:      format,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
	})
}

func joinFormats(formats []reporter.Format) string {
	var out string
	for i, f := range formats {
		if i > 0 {
			out += ", "
		}
		out += f.String()
	}
	return out
}
