package ast

import "sort"

// Source is the text a parse ran over, with a line index for converting
// byte offsets into line/column positions.
type Source struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full source text.
	Content string

	// Lines contains metadata for each line.
	Lines []LineInfo
}

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For a last line without a trailing newline, this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of content).
	EndOffset int
}

// NewSource creates a Source and builds its line index.
func NewSource(path, content string) *Source {
	return &Source{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// BuildLines constructs line metadata from content.
// It handles both LF (\n) and CRLF (\r\n) line endings. Empty content
// has a single empty line so that offset 0 maps to 1:1.
func BuildLines(content string) []LineInfo {
	var lines []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		if content[idx] != '\n' {
			continue
		}

		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line, possibly empty after a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines.
func (s *Source) LineCount() int {
	return len(s.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (s *Source) LineAt(offset int) (int, int) {
	if offset < 0 || len(s.Lines) == 0 || offset > len(s.Content) {
		return 0, 0
	}

	if offset == len(s.Content) {
		last := s.Lines[len(s.Lines)-1]
		return len(s.Lines), offset - last.StartOffset + 1
	}

	lineIdx := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(s.Lines) {
		lineIdx = len(s.Lines) - 1
	}

	line := s.Lines[lineIdx]
	if offset < line.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - line.StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (s *Source) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(s.Lines) || col < 1 {
		return 0, false
	}

	info := s.Lines[line-1]
	offset := info.StartOffset + col - 1

	// Column may point just past the line end for cursor positioning.
	if offset > info.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineContent returns the text of a 1-based line, excluding the newline.
// Returns "" if the line number is out of range.
func (s *Source) LineContent(line int) string {
	if line < 1 || line > len(s.Lines) {
		return ""
	}

	info := s.Lines[line-1]
	return s.Content[info.StartOffset:info.NewlineStart]
}
