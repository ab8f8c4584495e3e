package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/structparse/pkg/ast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []ast.LineInfo
	}{
		{
			name:    "empty content",
			content: "",
			expected: []ast.LineInfo{
				{StartOffset: 0, NewlineStart: 0, EndOffset: 0},
			},
		},
		{
			name:    "single line no newline",
			content: "struct A {}",
			expected: []ast.LineInfo{
				{StartOffset: 0, NewlineStart: 11, EndOffset: 11},
			},
		},
		{
			name:    "trailing LF",
			content: "a\n",
			expected: []ast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 2, EndOffset: 2},
			},
		},
		{
			name:    "CRLF",
			content: "ab\r\ncd",
			expected: []ast.LineInfo{
				{StartOffset: 0, NewlineStart: 2, EndOffset: 4},
				{StartOffset: 4, NewlineStart: 6, EndOffset: 6},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, ast.BuildLines(testCase.content))
		})
	}
}

func TestSource_LineAt(t *testing.T) {
	t.Parallel()

	src := ast.NewSource("a.sdef", "struct A {\n  x: u8\n}")

	tests := []struct {
		name     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{name: "start", offset: 0, wantLine: 1, wantCol: 1},
		{name: "brace", offset: 9, wantLine: 1, wantCol: 10},
		{name: "newline byte", offset: 10, wantLine: 1, wantCol: 11},
		{name: "second line", offset: 13, wantLine: 2, wantCol: 3},
		{name: "last byte", offset: 19, wantLine: 3, wantCol: 1},
		{name: "end of input", offset: 20, wantLine: 3, wantCol: 2},
		{name: "past end", offset: 21, wantLine: 0, wantCol: 0},
		{name: "negative", offset: -1, wantLine: 0, wantCol: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			line, col := src.LineAt(testCase.offset)
			assert.Equal(t, testCase.wantLine, line)
			assert.Equal(t, testCase.wantCol, col)
		})
	}
}

func TestSource_EmptyContent(t *testing.T) {
	t.Parallel()

	src := ast.NewSource("", "")
	assert.Equal(t, 1, src.LineCount())

	line, col := src.LineAt(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
	assert.Empty(t, src.LineContent(1))
}

func TestSource_OffsetAndLineContent(t *testing.T) {
	t.Parallel()

	src := ast.NewSource("", "struct A {\r\n  x: u8\r\n}")

	offset, ok := src.Offset(2, 3)
	assert.True(t, ok)
	assert.Equal(t, 14, offset)
	assert.Equal(t, "x", src.Content[offset:offset+1])

	_, ok = src.Offset(4, 1)
	assert.False(t, ok)

	_, ok = src.Offset(1, 0)
	assert.False(t, ok)

	assert.Equal(t, "struct A {", src.LineContent(1))
	assert.Equal(t, "  x: u8", src.LineContent(2))
	assert.Equal(t, "}", src.LineContent(3))
	assert.Empty(t, src.LineContent(0))
	assert.Empty(t, src.LineContent(4))
}
