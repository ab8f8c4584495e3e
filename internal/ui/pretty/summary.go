package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/structparse/pkg/pipeline"
	"github.com/yaklabco/structparse/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine renders run statistics on one line, e.g.
// "2 errors in 1 file (5 files checked, 7 structs)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	counts := s.Dim.Render(fmt.Sprintf("(%d %s checked, %d %s)",
		stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"),
		stats.StructsParsed, plural(stats.StructsParsed, "struct", "structs"),
	))

	var parts []string
	if stats.DiagnosticsTotal == 0 && stats.FilesErrored == 0 {
		parts = append(parts, s.Success.Render("No errors found")+" "+counts)
	} else {
		if stats.DiagnosticsTotal > 0 {
			parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s", stats.DiagnosticsTotal,
				plural(stats.DiagnosticsTotal, "error", "errors")))+
				fmt.Sprintf(" in %d %s", stats.FilesWithErrors, plural(stats.FilesWithErrors, "file", "files"))+
				" "+counts)
		} else {
			parts = append(parts, counts)
		}
		if stats.FilesErrored > 0 {
			parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s unreadable", stats.FilesErrored,
				plural(stats.FilesErrored, "file", "files"))))
		}
	}

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d formatted", stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary renders run statistics as a block with a per-code breakdown.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		fmt.Fprintf(&builder, "  %-18s %s\n", label+":", value)
	}

	builder.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesErrored > 0 {
		row("Files unreadable", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	row("Structs", s.SummaryValue.Render(strconv.Itoa(stats.StructsParsed)))
	row("Fields", s.SummaryValue.Render(strconv.Itoa(stats.FieldsParsed)))
	row("Errors", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))

	for _, code := range pipeline.Codes() {
		if n := stats.DiagnosticsByCode[code]; n > 0 {
			row("  "+string(code), s.Failure.Render(strconv.Itoa(n)))
		}
	}

	builder.WriteString("\n")
	if stats.DiagnosticsTotal > 0 || stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Parse failed") + "\n")
	} else {
		builder.WriteString(s.Success.Render("Parse succeeded") + "\n")
	}

	return builder.String()
}
