// Package mdextract pulls struct definitions out of Markdown documents.
//
// Definitions live in fenced code blocks whose info string names one of
// the configured languages:
//
//	```structdef
//	struct Point { x: i32, y: i32 }
//	```
//
// Each block keeps enough position data to map a span inside the block
// back to a byte range of the enclosing file.
package mdextract

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/structparse/pkg/ast"
)

// DefaultInfoStrings are the fence languages extracted when none are configured.
var DefaultInfoStrings = []string{"structdef", "sdef"}

const markdownLanguage = "Markdown"

// Block is the body of one matching fenced code block.
type Block struct {
	// Info is the fence language that matched.
	Info string

	// Content is the block body with fence indentation removed.
	Content string

	// Line is the 1-based line of the opening fence in the file.
	Line int

	lines []lineSegment
}

// lineSegment maps one body line of a block to the file.
type lineSegment struct {
	blockStart int // offset of the line within Block.Content
	fileStart  int // offset of the first real byte in the file
	padding    int // leading spaces synthesized from tabs
}

// FileOffset maps an offset within Content to an offset in the file.
// Offsets past the end map to the end of the last line.
func (b *Block) FileOffset(offset int) int {
	if len(b.lines) == 0 {
		return 0
	}

	idx := 0
	for idx+1 < len(b.lines) && b.lines[idx+1].blockStart <= offset {
		idx++
	}

	seg := b.lines[idx]
	rel := offset - seg.blockStart - seg.padding
	if rel < 0 {
		rel = 0
	}
	return seg.fileStart + rel
}

// MapSpan maps a span within Content to a span in the file.
func (b *Block) MapSpan(span ast.Span) ast.Span {
	start := b.FileOffset(span.Start)
	if span.IsEmpty() {
		return ast.Span{Start: start, End: start}
	}
	// Map the last covered byte so a span never stretches across a gap
	// between lines.
	return ast.Span{Start: start, End: b.FileOffset(span.End-1) + 1}
}

// Extractor finds struct-definition blocks in Markdown content.
type Extractor struct {
	md    goldmark.Markdown
	infos map[string]struct{}
}

// New creates an Extractor for the given fence languages. Matching is
// case-insensitive. An empty list means DefaultInfoStrings.
func New(infoStrings []string) *Extractor {
	if len(infoStrings) == 0 {
		infoStrings = DefaultInfoStrings
	}

	infos := make(map[string]struct{}, len(infoStrings))
	for _, info := range infoStrings {
		infos[strings.ToLower(strings.TrimSpace(info))] = struct{}{}
	}

	return &Extractor{
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		infos: infos,
	}
}

// Extract returns the matching blocks of content in document order.
func (e *Extractor) Extract(ctx context.Context, content []byte) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))
	lines := ast.BuildLines(string(content))

	var blocks []Block
	err := gast.Walk(doc, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}

		fenced, ok := node.(*gast.FencedCodeBlock)
		if !ok {
			return gast.WalkContinue, nil
		}

		info := strings.ToLower(string(fenced.Language(content)))
		if _, want := e.infos[info]; !want {
			return gast.WalkSkipChildren, nil
		}

		blocks = append(blocks, buildBlock(info, fenced, content, lines))
		return gast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return blocks, nil
}

func buildBlock(info string, fenced *gast.FencedCodeBlock, content []byte, lines []ast.LineInfo) Block {
	segments := fenced.Lines()
	block := Block{
		Info:  info,
		lines: make([]lineSegment, 0, segments.Len()),
	}

	var body strings.Builder
	for i := range segments.Len() {
		seg := segments.At(i)
		block.lines = append(block.lines, lineSegment{
			blockStart: body.Len(),
			fileStart:  seg.Start,
			padding:    seg.Padding,
		})
		body.Write(seg.Value(content))
	}
	block.Content = body.String()

	block.Line = fenceLine(fenced, content, lines)
	return block
}

// fenceLine finds the line of the opening fence. The info text sits on
// that line; a fence without a body or info has no position, so the
// line before the first body line is used.
func fenceLine(fenced *gast.FencedCodeBlock, content []byte, lines []ast.LineInfo) int {
	src := &ast.Source{Content: string(content), Lines: lines}

	if fenced.Info != nil {
		line, _ := src.LineAt(fenced.Info.Segment.Start)
		return line
	}
	if fenced.Lines().Len() > 0 {
		line, _ := src.LineAt(fenced.Lines().At(0).Start)
		return line - 1
	}
	return 0
}

// IsMarkdownPath reports whether path names a Markdown file, either by the
// linguist extension table or by one of extraExtensions.
func IsMarkdownPath(path string, extraExtensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, extra := range extraExtensions {
		if ext != "" && ext == strings.ToLower(extra) {
			return true
		}
	}

	// ".md" is ambiguous in the linguist table, so look at every candidate.
	return slices.Contains(enry.GetLanguagesByExtension(path, nil, nil), markdownLanguage)
}
