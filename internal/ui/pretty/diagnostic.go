package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/structparse/pkg/pipeline"
)

const contextIndent = "    "

// FormatDiagnostic renders a diagnostic as
//
//	path:line:col  error  message  (code)
//
// followed, when sourceLine is non-empty, by the line and a caret
// underline of the span.
func (s *Styles) FormatDiagnostic(diag pipeline.Diagnostic, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(diag.Path) +
		s.Location.Render(fmt.Sprintf(":%d:%d", diag.StartLine, diag.StartColumn))

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(diag.Message),
		s.Code.Render("("+string(diag.Code)+")"),
	)

	if sourceLine != "" {
		width := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn > diag.StartColumn {
			width = diag.EndColumn - diag.StartColumn
		} else if diag.EndLine > diag.StartLine {
			width = max(1, len(sourceLine)-diag.StartColumn+1)
		}
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, width))
	}

	return builder.String()
}

// FormatSourceContext renders a source line with "^~~~" under width bytes
// starting at the 1-based column. Tabs before the column are kept so the
// caret lines up.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column < 1 {
		return builder.String()
	}

	var pad strings.Builder
	for i := 0; i < column-1; i++ {
		if i < len(line) && line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	marker := "^" + strings.Repeat("~", max(0, width-1))
	builder.WriteString(contextIndent + pad.String() + s.Caret.Render(marker) + "\n")

	return builder.String()
}

// FormatFileHeader renders a file path with its error count.
func (s *Styles) FormatFileHeader(path string, errorCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case errorCount == 1:
		header += s.Dim.Render(" (1 error)")
	case errorCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d errors)", errorCount))
	}
	return header
}

// FormatFileError renders a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return s.FilePath.Render(path) + ": " + s.Error.Render("error: "+err.Error()) + "\n"
}
