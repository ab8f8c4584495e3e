package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/structparse/pkg/ast"
)

const (
	tablePadding     = 2
	tokenColumnCount = 4 // KIND, SPAN, LOC, TEXT
	minKindWidth     = 10
	minSpanWidth     = 8
	minLocWidth      = 6
	minTextWidth     = 10
	defaultTermWidth = 100
	heavySeparator   = "="
)

// TokenRow is one row of a token table.
type TokenRow struct {
	Kind     string
	Span     string
	Location string
	Text     string
}

// TokenTableFormatter renders a token stream as an aligned table.
type TokenTableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTokenTableFormatter creates a formatter limited to termWidth
// columns; zero or negative means 100.
func NewTokenTableFormatter(styles *Styles, termWidth int) *TokenTableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TokenTableFormatter{styles: styles, termWidth: termWidth}
}

// TokenRows converts tokens of src into table rows.
func TokenRows(src *ast.Source, tokens []ast.Token) []TokenRow {
	rows := make([]TokenRow, 0, len(tokens))
	for _, tok := range tokens {
		line, col := src.LineAt(tok.Span.Start)
		rows = append(rows, TokenRow{
			Kind:     tok.Kind.String(),
			Span:     tok.Span.String(),
			Location: strconv.Itoa(line) + ":" + strconv.Itoa(col),
			Text:     tok.Text(src.Content),
		})
	}
	return rows
}

type tokenColumnWidths struct {
	kind, span, loc, text int
}

// Format renders rows with a header and closing separator.
func (t *TokenTableFormatter) Format(rows []TokenRow) string {
	widths := t.columnWidths(rows)

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s",
		widths.kind, "KIND",
		widths.span, "SPAN",
		widths.loc, "LOC",
		widths.text, "TEXT",
	)
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(widths) + "\n")

	for _, row := range rows {
		fmt.Fprintf(&builder, " %s  %s  %s  %s\n",
			t.styles.Keyword.Render(fmt.Sprintf("%-*s", widths.kind, truncateString(row.Kind, widths.kind))),
			t.styles.Number.Render(fmt.Sprintf("%-*s", widths.span, truncateString(row.Span, widths.span))),
			t.styles.Location.Render(fmt.Sprintf("%-*s", widths.loc, truncateString(row.Location, widths.loc))),
			truncateString(row.Text, widths.text),
		)
	}

	builder.WriteString(t.separator(widths) + "\n")
	builder.WriteString(t.styles.Dim.Render(fmt.Sprintf(" %d tokens", len(rows))) + "\n")

	return builder.String()
}

func (t *TokenTableFormatter) columnWidths(rows []TokenRow) tokenColumnWidths {
	widths := tokenColumnWidths{
		kind: minKindWidth,
		span: minSpanWidth,
		loc:  minLocWidth,
		text: minTextWidth,
	}

	for _, row := range rows {
		widths.kind = max(widths.kind, len(row.Kind))
		widths.span = max(widths.span, len(row.Span))
		widths.loc = max(widths.loc, len(row.Location))
		widths.text = max(widths.text, len(row.Text))
	}

	if total := widths.total(); total > t.termWidth {
		widths.text = max(minTextWidth, widths.text-(total-t.termWidth))
	}

	return widths
}

// total is the rendered row width: a leading space plus the columns
// joined by padding.
func (w tokenColumnWidths) total() int {
	return 1 + w.kind + w.span + w.loc + w.text + tablePadding*(tokenColumnCount-1)
}

func (t *TokenTableFormatter) separator(widths tokenColumnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, widths.total()))
}

// truncateString shortens str to maxLen bytes, ending in "..." when cut.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}
