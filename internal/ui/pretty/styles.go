// Package pretty renders diagnostics, struct trees, token tables and run
// summaries for the terminal with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the renderers used for CLI output.
type Styles struct {
	// Diagnostics
	Error      lipgloss.Style
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Code       lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Struct syntax
	Keyword   lipgloss.Style
	TypeName  lipgloss.Style
	FieldName lipgloss.Style
	Number    lipgloss.Style
	Punct     lipgloss.Style
	TreeEdge  lipgloss.Style

	// Summary
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Tables
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	// Diffs
	DiffHeader lipgloss.Style
	DiffHunk   lipgloss.Style
	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newPlainStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}

	return &Styles{
		Error:      fg("9").Bold(true),
		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   fg("8"),
		Code:       fg("8"),
		Message:    lipgloss.NewStyle(),
		SourceLine: fg("7").TabWidth(lipgloss.NoTabConversion),
		Caret:      fg("9").Bold(true),

		Keyword:   fg("13").Bold(true),
		TypeName:  fg("14"),
		FieldName: lipgloss.NewStyle(),
		Number:    fg("11"),
		Punct:     fg("8"),
		TreeEdge:  fg("8"),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      fg("10").Bold(true),
		Failure:      fg("9").Bold(true),

		TableHeader:    fg("7").Bold(true),
		TableSeparator: fg("8"),

		DiffHeader: lipgloss.NewStyle().Bold(true),
		DiffHunk:   fg("14"),
		DiffAdd:    fg("10").TabWidth(lipgloss.NoTabConversion),
		DiffRemove: fg("9").TabWidth(lipgloss.NoTabConversion),

		Dim:  fg("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newPlainStyles() *Styles {
	plain := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Styles{
		Error:          plain,
		FilePath:       plain,
		Location:       plain,
		Code:           plain,
		Message:        plain,
		SourceLine:     plain,
		Caret:          plain,
		Keyword:        plain,
		TypeName:       plain,
		FieldName:      plain,
		Number:         plain,
		Punct:          plain,
		TreeEdge:       plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		DiffHeader:     plain,
		DiffHunk:       plain,
		DiffAdd:        plain,
		DiffRemove:     plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled resolves a color mode ("auto", "always", "never") for a
// writer. In auto mode color requires a terminal and an unset NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
