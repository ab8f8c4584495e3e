package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/structparse/internal/ui/pretty"
	"github.com/yaklabco/structparse/pkg/runner"
)

// SummaryReporter writes only aggregate statistics, with a per-code
// breakdown of diagnostics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	for _, file := range result.Files {
		if file.Error != nil {
			path := displayPath(r.opts.WorkingDir, file.Path)
			if _, err := fmt.Fprint(r.out, r.styles.FormatFileError(path, file.Error)); err != nil {
				return 0, fmt.Errorf("write summary: %w", err)
			}
		}
	}

	if _, err := fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats)); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}

	return result.Stats.DiagnosticsTotal, nil
}
