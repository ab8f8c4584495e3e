package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/yaklabco/structparse/internal/ui/pretty"
	"github.com/yaklabco/structparse/pkg/runner"
)

const diffContextLines = 3

// DiffReporter writes unified diffs between each file and its canonical
// form in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. It returns the number of files with diffs.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs, additions, deletions int

	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}

		res := file.Result
		if res == nil || !res.Changed || res.Source == nil {
			continue
		}

		name := strings.TrimLeft(filepath.ToSlash(path), "/")
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        splitLines(res.Source.Content),
			B:        splitLines(string(res.Formatted)),
			FromFile: "a/" + name,
			ToFile:   "b/" + name,
			Context:  diffContextLines,
		})
		if err != nil {
			return filesWithDiffs, fmt.Errorf("diff %s: %w", path, err)
		}
		if text == "" {
			continue
		}

		filesWithDiffs++
		fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", name, name)))
		add, del := r.writeDiff(text)
		additions += add
		deletions += del
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		fmt.Fprintf(r.bw, "%d %s changed, %s, %s\n",
			filesWithDiffs, plural(filesWithDiffs, "file", "files"),
			r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))),
			r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))),
		)
	}

	return filesWithDiffs, nil
}

// writeDiff styles a unified diff line by line and counts changed lines.
func (r *DiffReporter) writeDiff(text string) (int, int) {
	var additions, deletions int

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(body))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(body))
		case strings.HasPrefix(line, "+"):
			additions++
			fmt.Fprintln(r.bw, r.styles.DiffAdd.Render(body))
		case strings.HasPrefix(line, "-"):
			deletions++
			fmt.Fprintln(r.bw, r.styles.DiffRemove.Render(body))
		default:
			fmt.Fprintln(r.bw, body)
		}
	}

	return additions, deletions
}

// splitLines splits s after each newline, terminating the last line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n"
	return lines
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
