package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/structparse/internal/ui/pretty"
	"github.com/yaklabco/structparse/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("report cancelled: %w", err)
		}
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := displayPath(r.opts.WorkingDir, file.Path)

	if file.Error != nil {
		fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
		return 0
	}

	res := file.Result
	if res == nil {
		return 0
	}

	if r.opts.ShowAST {
		for _, st := range res.Structs() {
			fmt.Fprintln(r.bw, r.styles.FormatStructTree(st))
		}
	}

	if len(res.Diagnostics) == 0 {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(res.Diagnostics)))
	for _, diag := range res.Diagnostics {
		diag.Path = path

		var sourceLine string
		if r.opts.ShowContext && res.Source != nil {
			sourceLine = res.Source.LineContent(diag.StartLine)
		}

		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(diag, sourceLine))
	}
	fmt.Fprintln(r.bw)

	return len(res.Diagnostics)
}
