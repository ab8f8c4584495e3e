package pipeline

import (
	"errors"
	"fmt"

	"github.com/yaklabco/structparse/pkg/ast"
	"github.com/yaklabco/structparse/pkg/parser"
)

// Code identifies the class of a diagnostic in reports.
type Code string

// Diagnostic codes, one per parser error kind.
const (
	CodeUnexpectedByte  Code = "unexpected-byte"
	CodeUnexpectedEnd   Code = "unexpected-end"
	CodeUnexpectedToken Code = "unexpected-token"
	CodeInvalidNumber   Code = "invalid-number"
)

// Codes lists every diagnostic code in a stable order.
func Codes() []Code {
	return []Code{CodeUnexpectedByte, CodeUnexpectedEnd, CodeUnexpectedToken, CodeInvalidNumber}
}

// Describe returns a one-line description of the code.
func (c Code) Describe() string {
	switch c {
	case CodeUnexpectedByte:
		return "A byte that cannot start any token, such as a lone '/'."
	case CodeUnexpectedEnd:
		return "The input ended before the struct definition was complete."
	case CodeUnexpectedToken:
		return "A token appeared where the grammar does not allow it."
	case CodeInvalidNumber:
		return "An array length is not a decimal integer that fits in 64 bits."
	default:
		return string(c)
	}
}

// Diagnostic is a parse failure located in a file.
type Diagnostic struct {
	// Path is the file the diagnostic belongs to.
	Path string

	// Span is the byte range in the file.
	Span ast.Span

	// StartLine and StartColumn locate Span.Start (1-based).
	StartLine   int
	StartColumn int

	// EndLine and EndColumn locate Span.End (1-based, exclusive).
	EndLine   int
	EndColumn int

	Code    Code
	Message string
}

// String renders the diagnostic as "path:line:col: message [code]".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]", d.Path, d.StartLine, d.StartColumn, d.Message, d.Code)
}

// NewDiagnostic converts an error returned by the parser into a
// Diagnostic. mapSpan translates the error span into file coordinates;
// nil means the span is already a file span.
func NewDiagnostic(src *ast.Source, err error, mapSpan func(ast.Span) ast.Span) Diagnostic {
	span, code, message := classify(err)
	if mapSpan != nil {
		span = mapSpan(span)
	}

	diag := Diagnostic{
		Path:    src.Path,
		Span:    span,
		Code:    code,
		Message: message,
	}
	diag.StartLine, diag.StartColumn = src.LineAt(span.Start)
	diag.EndLine, diag.EndColumn = src.LineAt(span.End)

	return diag
}

func classify(err error) (ast.Span, Code, string) {
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return parseErr.Span, codeFor(parseErr.Kind), parseErr.Message()
	}

	var tokErr *parser.TokenizeError
	if errors.As(err, &tokErr) {
		return tokErr.Span, CodeUnexpectedByte, tokErr.Message()
	}

	return ast.Span{}, CodeUnexpectedToken, err.Error()
}

func codeFor(kind parser.ErrorKind) Code {
	switch kind {
	case parser.KindTokenize:
		return CodeUnexpectedByte
	case parser.KindUnexpectedEnd:
		return CodeUnexpectedEnd
	case parser.KindNumParse:
		return CodeInvalidNumber
	default:
		return CodeUnexpectedToken
	}
}
