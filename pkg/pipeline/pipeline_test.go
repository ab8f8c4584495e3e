package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/structparse/pkg/ast"
	"github.com/yaklabco/structparse/pkg/fsutil"
	"github.com/yaklabco/structparse/pkg/pipeline"
)

func TestProcessContent_Source(t *testing.T) {
	t.Parallel()

	p := pipeline.New(pipeline.Options{})

	result, err := p.ProcessContent(context.Background(), "types.sdef",
		[]byte("struct A { x: u8 }\nstruct B { a: [A; 2] }\n"))
	require.NoError(t, err)

	assert.Equal(t, pipeline.KindSource, result.Kind)
	assert.False(t, result.HasDiagnostics())
	require.Len(t, result.Units, 1)
	assert.Equal(t, 1, result.Units[0].Line)

	structs := result.Structs()
	require.Len(t, structs, 2)
	assert.Equal(t, "A", structs[0].Name)
	assert.Equal(t, "B", structs[1].Name)
	assert.Nil(t, result.Formatted)
}

func TestProcessContent_Diagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		wantCode   pipeline.Code
		wantLine   int
		wantColumn int
		wantSpan   ast.Span
		wantMsg    string
	}{
		{
			name:       "unexpected token",
			content:    "struct Foo {\n    field: ,\n}",
			wantCode:   pipeline.CodeUnexpectedToken,
			wantLine:   2,
			wantColumn: 12,
			wantSpan:   ast.Span{Start: 24, End: 25},
			wantMsg:    "unexpected `,`",
		},
		{
			name:       "unexpected end",
			content:    "struct Foo {\n",
			wantCode:   pipeline.CodeUnexpectedEnd,
			wantLine:   2,
			wantColumn: 1,
			wantSpan:   ast.Span{Start: 13, End: 13},
			wantMsg:    "unexpected end of input",
		},
		{
			name:       "lone slash",
			content:    "struct Foo { / }",
			wantCode:   pipeline.CodeUnexpectedByte,
			wantLine:   1,
			wantColumn: 14,
			wantSpan:   ast.Span{Start: 13, End: 14},
			wantMsg:    "unexpected byte '/'",
		},
		{
			name:       "overflow",
			content:    "struct Foo { a: [u8; 99999999999999999999] }",
			wantCode:   pipeline.CodeInvalidNumber,
			wantLine:   1,
			wantColumn: 22,
			wantSpan:   ast.Span{Start: 21, End: 41},
		},
	}

	p := pipeline.New(pipeline.Options{Format: true})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := p.ProcessContent(context.Background(), "bad.sdef", []byte(tt.content))
			require.NoError(t, err)
			require.Len(t, result.Diagnostics, 1)

			diag := result.Diagnostics[0]
			assert.Equal(t, "bad.sdef", diag.Path)
			assert.Equal(t, tt.wantCode, diag.Code)
			assert.Equal(t, tt.wantSpan, diag.Span)
			assert.Equal(t, tt.wantLine, diag.StartLine)
			assert.Equal(t, tt.wantColumn, diag.StartColumn)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, diag.Message)
			}
			assert.Nil(t, result.Formatted, "no formatting with diagnostics")
			assert.Empty(t, result.Structs())
		})
	}
}

func TestProcessContent_Markdown(t *testing.T) {
	t.Parallel()

	content := "# Model\n\n```structdef\nstruct Ok { a: u8 }\n```\n\n```sdef\nstruct Bad { a: }\n```\n"

	t.Run("extracts fenced blocks", func(t *testing.T) {
		t.Parallel()

		p := pipeline.New(pipeline.Options{Markdown: true})
		result, err := p.ProcessContent(context.Background(), "README.md", []byte(content))
		require.NoError(t, err)

		assert.Equal(t, pipeline.KindMarkdown, result.Kind)
		require.Len(t, result.Units, 2)
		assert.Equal(t, 3, result.Units[0].Line)
		assert.Equal(t, 7, result.Units[1].Line)
		require.Len(t, result.Structs(), 1)
		assert.Equal(t, "Ok", result.Structs()[0].Name)

		require.Len(t, result.Diagnostics, 1)
		diag := result.Diagnostics[0]
		assert.Equal(t, pipeline.CodeUnexpectedToken, diag.Code)
		assert.Equal(t, "}", diag.Span.Text(content))
		assert.Equal(t, 8, diag.StartLine)
		assert.Equal(t, 17, diag.StartColumn)
	})

	t.Run("disabled extraction parses the whole file", func(t *testing.T) {
		t.Parallel()

		p := pipeline.New(pipeline.Options{Markdown: false})
		result, err := p.ProcessContent(context.Background(), "README.md", []byte(content))
		require.NoError(t, err)

		assert.Equal(t, pipeline.KindSource, result.Kind)
		assert.True(t, result.HasDiagnostics())
	})

	t.Run("unexpected end inside a block", func(t *testing.T) {
		t.Parallel()

		doc := "```structdef\nstruct Open {\n```\n\ntrailing prose\n"
		p := pipeline.New(pipeline.Options{Markdown: true})
		result, err := p.ProcessContent(context.Background(), "notes.markdown", []byte(doc))
		require.NoError(t, err)

		require.Len(t, result.Diagnostics, 1)
		diag := result.Diagnostics[0]
		assert.Equal(t, pipeline.CodeUnexpectedEnd, diag.Code)
		assert.True(t, diag.Span.IsEmpty())
		assert.Equal(t, strings.Index(doc, "```\n\n"), diag.Span.Start)
	})
}

func TestProcessContent_Format(t *testing.T) {
	t.Parallel()

	content := []byte("struct A{x:u8,y:[u8;2],}\n// tail\n")

	multi := pipeline.New(pipeline.Options{Format: true, Indent: "  "})
	result, err := multi.ProcessContent(context.Background(), "a.sdef", content)
	require.NoError(t, err)
	assert.Equal(t, "struct A {\n  x: u8,\n  y: [u8; 2],\n}\n", string(result.Formatted))
	assert.True(t, result.Changed)

	inline := pipeline.New(pipeline.Options{Format: true, Inline: true})
	result, err = inline.ProcessContent(context.Background(), "a.sdef", content)
	require.NoError(t, err)
	assert.Equal(t, "struct A { x: u8, y: [u8; 2] }\n", string(result.Formatted))

	canonical := []byte("struct A {\n    x: u8,\n}\n")
	result, err = multi.ProcessContent(context.Background(), "a.sdef", []byte("struct A {\n  x: u8,\n}\n"))
	require.NoError(t, err)
	assert.False(t, result.Changed)

	def := pipeline.New(pipeline.Options{Format: true})
	result, err = def.ProcessContent(context.Background(), "a.sdef", canonical)
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	t.Run("rewrites changed source files", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.sdef")
		require.NoError(t, os.WriteFile(path, []byte("struct A{x:u8}"), 0o644))

		p := pipeline.New(pipeline.Options{Format: true, Write: true})
		result, err := p.ProcessFile(context.Background(), path)
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.NotNil(t, result.Info)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "struct A {\n    x: u8,\n}\n", string(got))

		again, err := p.ProcessFile(context.Background(), path)
		require.NoError(t, err)
		assert.False(t, again.Changed)
		assert.False(t, again.Written)
	})

	t.Run("never writes files with diagnostics", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.sdef")
		require.NoError(t, os.WriteFile(path, []byte("struct A{x:}"), 0o644))

		p := pipeline.New(pipeline.Options{Format: true, Write: true})
		result, err := p.ProcessFile(context.Background(), path)
		require.NoError(t, err)
		assert.False(t, result.Written)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "struct A{x:}", string(got))
	})

	t.Run("keeps files whose rewrite would lose content", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			content    string
			wantReason string
		}{
			{
				name:       "comments",
				content:    "// Packet header\nstruct A {\n    x: u8, // checksum byte\n}\n",
				wantReason: "comments would be lost",
			},
			{
				name:       "comments only",
				content:    "// nothing here yet\n",
				wantReason: "no struct definitions",
			},
			{
				name:       "blank",
				content:    "\n\n",
				wantReason: "no struct definitions",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				path := filepath.Join(t.TempDir(), "a.sdef")
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

				p := pipeline.New(pipeline.Options{Format: true, Write: true})
				result, err := p.ProcessFile(context.Background(), path)
				require.NoError(t, err)
				assert.True(t, result.Changed)
				assert.False(t, result.Written)
				assert.True(t, result.Skipped)
				assert.Equal(t, tt.wantReason, result.SkipReason)

				got, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, tt.content, string(got))
			})
		}
	})

	t.Run("file errors", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		binary := filepath.Join(dir, "blob.sdef")
		require.NoError(t, os.WriteFile(binary, []byte{0, 1, 2, 3}, 0o644))

		p := pipeline.New(pipeline.Options{})

		_, err := p.ProcessFile(context.Background(), binary)
		assert.ErrorIs(t, err, fsutil.ErrBinary)

		_, err = p.ProcessFile(context.Background(), filepath.Join(dir, "missing.sdef"))
		assert.ErrorIs(t, err, fsutil.ErrNotFound)
	})
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	diag := pipeline.Diagnostic{
		Path:        "a.sdef",
		StartLine:   3,
		StartColumn: 7,
		Code:        pipeline.CodeUnexpectedEnd,
		Message:     "unexpected end of input",
	}
	assert.Equal(t, "a.sdef:3:7: unexpected end of input [unexpected-end]", diag.String())

	for _, code := range pipeline.Codes() {
		assert.NotEqual(t, string(code), code.Describe())
	}
}
