package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/structparse/internal/ui/pretty"
	"github.com/yaklabco/structparse/pkg/ast"
	"github.com/yaklabco/structparse/pkg/parser"
	"github.com/yaklabco/structparse/pkg/pipeline"
	"github.com/yaklabco/structparse/pkg/runner"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	diag := pipeline.Diagnostic{
		Path:        "types.sdef",
		StartLine:   2,
		StartColumn: 12,
		EndLine:     2,
		EndColumn:   13,
		Code:        pipeline.CodeUnexpectedToken,
		Message:     "unexpected `,`",
	}

	got := styles.FormatDiagnostic(diag, "    field: ,")
	assert.Equal(t,
		"  types.sdef:2:12  error  unexpected `,`  (unexpected-token)\n"+
			"        field: ,\n"+
			"               ^\n",
		got)

	assert.Equal(t, "  types.sdef:2:12  error  unexpected `,`  (unexpected-token)\n",
		styles.FormatDiagnostic(diag, ""))
}

func TestFormatDiagnostic_Underline(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	t.Run("multi byte span", func(t *testing.T) {
		t.Parallel()

		diag := pipeline.Diagnostic{StartLine: 1, StartColumn: 22, EndLine: 1, EndColumn: 42}
		got := styles.FormatDiagnostic(diag, "struct Foo { a: [u8; 18446744073709551616] }")
		lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
		assert.Equal(t, "    "+strings.Repeat(" ", 21)+"^"+strings.Repeat("~", 19), lines[2])
	})

	t.Run("tabs are preserved", func(t *testing.T) {
		t.Parallel()

		got := styles.FormatSourceContext("\tx: ,", 5, 1)
		assert.Equal(t, "    \tx: ,\n    \t   ^\n", got)
	})

	t.Run("empty span at end of line", func(t *testing.T) {
		t.Parallel()

		diag := pipeline.Diagnostic{StartLine: 1, StartColumn: 13, EndLine: 1, EndColumn: 13}
		got := styles.FormatDiagnostic(diag, "struct Foo {")
		assert.True(t, strings.HasSuffix(got, "    "+strings.Repeat(" ", 12)+"^\n"))
	})
}

func TestFormatFileHeaderAndError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.sdef", styles.FormatFileHeader("a.sdef", 0))
	assert.Equal(t, "a.sdef (1 error)", styles.FormatFileHeader("a.sdef", 1))
	assert.Equal(t, "a.sdef (3 errors)", styles.FormatFileHeader("a.sdef", 3))
	assert.Equal(t, "a.sdef: error: boom\n", styles.FormatFileError("a.sdef", errors.New("boom")))
}

func TestFormatStructTree(t *testing.T) {
	t.Parallel()

	st, err := parser.Parse("struct Grid { name: str, cells: [[u8; 4]; 3], id: u64 }")
	if !assert.NoError(t, err) {
		return
	}

	want := "struct Grid\n" +
		"├── name: str\n" +
		"├── cells: [[u8; 4]; 3]\n" +
		"│   └── [u8; 4] × 3\n" +
		"│       └── u8 × 4\n" +
		"└── id: u64\n"

	assert.Equal(t, want, pretty.NewStyles(false).FormatStructTree(st))
	assert.Equal(t, "struct Empty\n", pretty.NewStyles(false).FormatStructTree(&ast.Struct{Name: "Empty"}))
}

func TestFormatStruct_MatchesCanonicalForm(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	for _, src := range []string{
		"struct Empty {}",
		"struct Grid { name: str, cells: [[u8; 4]; 3] }",
	} {
		st, err := parser.Parse(src)
		if !assert.NoError(t, err) {
			continue
		}
		assert.Equal(t, st.Format(""), styles.FormatStruct(st, ""))
		assert.Equal(t, st.Format("\t"), styles.FormatStruct(st, "\t"))
	}
}

func TestTokenTable(t *testing.T) {
	t.Parallel()

	src := ast.NewSource("a.sdef", "struct A {\n  x: u8\n}")
	tokens, err := parser.Tokenize(src.Content)
	if !assert.NoError(t, err) {
		return
	}

	rows := pretty.TokenRows(src, tokens)
	assert.Equal(t, pretty.TokenRow{Kind: "KwStruct", Span: "0..6", Location: "1:1", Text: "struct"}, rows[0])
	assert.Equal(t, pretty.TokenRow{Kind: "Ident", Span: "13..14", Location: "2:3", Text: "x"}, rows[3])

	out := pretty.NewTokenTableFormatter(pretty.NewStyles(false), 0).Format(rows)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	assert.Equal(t, " KIND        SPAN      LOC     TEXT      ", lines[0])
	assert.Equal(t, " KwStruct    0..6      1:1     struct", lines[2])
	assert.Equal(t, " 7 tokens", lines[len(lines)-1])
	assert.Equal(t, len(lines[0]), len(lines[1]))
}

func TestTokenTable_Truncates(t *testing.T) {
	t.Parallel()

	rows := []pretty.TokenRow{{Kind: "Ident", Span: "0..40", Location: "1:1", Text: strings.Repeat("x", 40)}}
	out := pretty.NewTokenTableFormatter(pretty.NewStyles(false), 50).Format(rows)
	assert.Contains(t, out, strings.Repeat("x", 16)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 17))
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	clean := runner.Stats{FilesProcessed: 3, StructsParsed: 1}
	assert.Equal(t, "No errors found (3 files checked, 1 struct)\n", styles.FormatSummaryOneLine(clean))

	failing := runner.Stats{
		FilesProcessed:    2,
		FilesErrored:      1,
		FilesWithErrors:   1,
		StructsParsed:     4,
		DiagnosticsTotal:  2,
		DiagnosticsByCode: map[pipeline.Code]int{pipeline.CodeUnexpectedEnd: 2},
		FilesWritten:      1,
	}
	assert.Equal(t,
		"2 errors in 1 file (2 files checked, 4 structs), 1 file unreadable, 1 formatted\n",
		styles.FormatSummaryOneLine(failing))

	block := styles.FormatSummary(failing)
	assert.Contains(t, block, "unexpected-end:")
	assert.Contains(t, block, "Parse failed")
	assert.NotContains(t, block, "invalid-number")
	assert.Contains(t, styles.FormatSummary(clean), "Parse succeeded")
}
