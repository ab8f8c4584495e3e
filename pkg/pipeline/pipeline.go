// Package pipeline processes a single struct-definition file: it reads
// the file, parses every definition unit in it, converts parse failures
// into located diagnostics, and optionally rewrites the file in
// canonical form.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/structparse/pkg/ast"
	"github.com/yaklabco/structparse/pkg/fsutil"
	"github.com/yaklabco/structparse/pkg/mdextract"
	"github.com/yaklabco/structparse/pkg/parser"
)

// ErrWriteFailure wraps failures to write formatted output back to disk.
var ErrWriteFailure = errors.New("write failure")

// FileKind tells how a file was interpreted.
type FileKind uint8

const (
	// KindSource is a plain struct-definition document.
	KindSource FileKind = iota

	// KindMarkdown is a Markdown file with definitions in fenced blocks.
	KindMarkdown
)

// String returns "source" or "markdown".
func (k FileKind) String() string {
	if k == KindMarkdown {
		return "markdown"
	}
	return "source"
}

// Options controls per-file processing.
type Options struct {
	// Markdown enables fenced block extraction for Markdown files.
	// When false, Markdown files are parsed as plain documents.
	Markdown bool

	// InfoStrings are the fence languages holding definitions.
	InfoStrings []string

	// MarkdownExtensions are extensions treated as Markdown in addition
	// to the ones go-enry knows.
	MarkdownExtensions []string

	// Format renders the canonical form of files that parse cleanly.
	Format bool

	// Inline selects the one-line form instead of the multi-line form.
	Inline bool

	// Indent is the field indentation of the multi-line form.
	Indent string

	// Write rewrites source files whose canonical form differs.
	// Markdown files are never rewritten, nor are files holding comments
	// or no definitions at all.
	Write bool
}

// Unit is one independently parsed document inside a file: the whole
// file for a source file, or one fenced block of a Markdown file.
type Unit struct {
	// Line is the 1-based line where the unit starts.
	Line int

	// Structs holds the parsed definitions. Nil if the unit failed.
	Structs []*ast.Struct
}

// Result is the outcome of processing one file.
type Result struct {
	Path string
	Kind FileKind

	// Source is the file content with its line index.
	Source *ast.Source

	// Info is the file snapshot taken on read. Nil for in-memory content.
	Info *fsutil.FileInfo

	Units       []Unit
	Diagnostics []Diagnostic

	// Formatted is the canonical rendering when Options.Format is set and
	// the file has no diagnostics.
	Formatted []byte

	// Changed reports whether Formatted differs from the content.
	Changed bool

	// Written is true if the file was rewritten.
	Written bool

	// Skipped is true if a rewrite was abandoned; SkipReason says why.
	Skipped    bool
	SkipReason string
}

// Structs returns the definitions of all units in order.
func (r *Result) Structs() []*ast.Struct {
	var all []*ast.Struct
	for _, unit := range r.Units {
		all = append(all, unit.Structs...)
	}
	return all
}

// HasDiagnostics reports whether any unit failed to parse.
func (r *Result) HasDiagnostics() bool {
	return r != nil && len(r.Diagnostics) > 0
}

// Pipeline processes files with a fixed set of options.
// It is safe for concurrent use.
type Pipeline struct {
	opts      Options
	extractor *mdextract.Extractor
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:      opts,
		extractor: mdextract.New(opts.InfoStrings),
	}
}

// Options returns the options the pipeline was created with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// ProcessFile reads and processes the file at path. Errors are file-level
// failures such as a missing or binary file; parse failures are reported
// as Diagnostics.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := p.ProcessContent(ctx, path, content)
	if err != nil {
		return nil, err
	}
	result.Info = info

	if !p.opts.Write || !result.Changed || result.Kind != KindSource {
		return result, nil
	}

	if reason := rewriteHazard(result); reason != "" {
		result.Skipped = true
		result.SkipReason = reason
		return result, nil
	}

	written, err := fsutil.RewriteSource(ctx, info, result.Formatted)
	switch {
	case errors.Is(err, fsutil.ErrModified):
		result.Skipped = true
		result.SkipReason = "file modified during processing"
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	default:
		result.Written = written
	}

	return result, nil
}

// ProcessContent processes in-memory content without file I/O.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &Result{
		Path:   path,
		Kind:   KindSource,
		Source: ast.NewSource(path, string(content)),
	}

	if p.opts.Markdown && mdextract.IsMarkdownPath(path, p.opts.MarkdownExtensions) {
		result.Kind = KindMarkdown
		if err := p.processMarkdown(ctx, result, content); err != nil {
			return nil, err
		}
	} else {
		p.processSource(result)
	}

	if p.opts.Format && !result.HasDiagnostics() {
		result.Formatted = p.render(result.Structs())
		result.Changed = result.Kind == KindSource && !bytes.Equal(result.Formatted, content)
	}

	return result, nil
}

func (p *Pipeline) processSource(result *Result) {
	structs, err := parser.ParseAll(result.Source.Content)
	if err != nil {
		result.Units = append(result.Units, Unit{Line: 1})
		result.Diagnostics = append(result.Diagnostics, NewDiagnostic(result.Source, err, nil))
		return
	}
	result.Units = append(result.Units, Unit{Line: 1, Structs: structs})
}

func (p *Pipeline) processMarkdown(ctx context.Context, result *Result, content []byte) error {
	blocks, err := p.extractor.Extract(ctx, content)
	if err != nil {
		return fmt.Errorf("extract %s: %w", result.Path, err)
	}

	for i := range blocks {
		block := &blocks[i]

		structs, err := parser.ParseAll(block.Content)
		if err != nil {
			result.Units = append(result.Units, Unit{Line: block.Line})
			result.Diagnostics = append(result.Diagnostics, NewDiagnostic(result.Source, err, block.MapSpan))
			continue
		}
		result.Units = append(result.Units, Unit{Line: block.Line, Structs: structs})
	}

	return nil
}

// rewriteHazard returns why replacing the file with its canonical form
// would lose content, or "" if the rewrite is safe.
func rewriteHazard(result *Result) string {
	content := result.Source.Content
	if len(result.Structs()) == 0 {
		return "no struct definitions"
	}

	tokens, err := parser.Tokenize(content)
	if err != nil {
		return "content does not tokenize"
	}

	pos := 0
	for _, tok := range tokens {
		if strings.TrimSpace(content[pos:tok.Span.Start]) != "" {
			return "comments would be lost"
		}
		pos = tok.Span.End
	}
	if strings.TrimSpace(content[pos:]) != "" {
		return "comments would be lost"
	}
	return ""
}

func (p *Pipeline) render(structs []*ast.Struct) []byte {
	if !p.opts.Inline {
		return []byte(ast.FormatAll(structs, p.opts.Indent))
	}

	var buf bytes.Buffer
	for _, s := range structs {
		buf.WriteString(s.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
