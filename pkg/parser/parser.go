// Package parser turns struct-definition source text into an ast.Struct.
//
// Parsing runs in two layers: Tokenize produces a flat token stream, and a
// recursive-descent parser consumes it, one function per grammar rule:
//
//	struct := 'struct' IDENT '{' fields '}'
//	fields := (field (',' field)*)? ','?
//	field  := IDENT ':' type
//	type   := IDENT | array
//	array  := '[' type ';' INT ']'
//
// The first error aborts the parse. All functions are pure and safe for
// concurrent use.
package parser

import (
	"errors"
	"strconv"

	"github.com/yaklabco/structparse/pkg/ast"
)

// parser holds the transient state of one parse.
type parser struct {
	src    string
	tokens []ast.Token
	pos    int
}

// Parse parses exactly one struct definition from src.
// Tokens after the closing brace are an error.
func Parse(src string) (*ast.Struct, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, tokenizeFailure(err)
	}
	return ParseTokens(src, tokens)
}

// ParseTokens parses exactly one struct definition from a token stream
// previously produced by Tokenize(src).
func ParseTokens(src string, tokens []ast.Token) (*ast.Struct, error) {
	p := &parser{src: src, tokens: tokens}

	result, err := p.parseStruct()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		return nil, unexpected(tok)
	}

	return result, nil
}

// ParseAll parses a document of zero or more struct definitions.
func ParseAll(src string) ([]*ast.Struct, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, tokenizeFailure(err)
	}

	p := &parser{src: src, tokens: tokens}

	var structs []*ast.Struct
	for !p.atEnd() {
		result, err := p.parseStruct()
		if err != nil {
			return nil, err
		}
		structs = append(structs, result)
	}

	return structs, nil
}

// parseStruct parses: 'struct' IDENT '{' fields '}'.
func (p *parser) parseStruct() (*ast.Struct, error) {
	if _, err := p.expect(ast.TokKwStruct); err != nil {
		return nil, err
	}

	name, err := p.expect(ast.TokIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(ast.TokLBrace); err != nil {
		return nil, err
	}

	fields, err := p.parseFields()
	if err != nil {
		return nil, err
	}

	return &ast.Struct{
		Name:   name.Text(p.src),
		Fields: fields,
	}, nil
}

// parseFields parses fields up to and including the closing '}'.
// A comma after a field is consumed and field parsing resumes, so runs of
// commas and trailing commas are accepted. A comma before the first field
// is not.
func (p *parser) parseFields() ([]ast.Field, error) {
	var fields []ast.Field
	separated := false

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case ast.TokRBrace:
			return fields, nil

		case ast.TokComma:
			if len(fields) == 0 {
				return nil, unexpected(tok)
			}
			separated = true

		case ast.TokIdent:
			if len(fields) > 0 && !separated {
				return nil, unexpected(tok)
			}
			field, err := p.parseField(tok)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			separated = false

		default:
			return nil, unexpected(tok)
		}
	}
}

// parseField parses the rest of: IDENT ':' type, given the name token.
func (p *parser) parseField(name ast.Token) (ast.Field, error) {
	if _, err := p.expect(ast.TokColon); err != nil {
		return ast.Field{}, err
	}

	ty, err := p.parseType()
	if err != nil {
		return ast.Field{}, err
	}

	return ast.Field{Name: name.Text(p.src), Type: ty}, nil
}

// parseType parses: IDENT | array, choosing by the next token.
func (p *parser) parseType() (ast.Ty, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case ast.TokIdent:
		return ast.Ident{Name: tok.Text(p.src)}, nil
	case ast.TokLSqBracket:
		return p.parseArray()
	default:
		return nil, unexpected(tok)
	}
}

// parseArray parses the rest of: '[' type ';' INT ']'.
func (p *parser) parseArray() (ast.Ty, error) {
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(ast.TokSemi); err != nil {
		return nil, err
	}

	lenTok, err := p.expect(ast.TokNumLit)
	if err != nil {
		return nil, err
	}

	length, err := strconv.ParseUint(lenTok.Text(p.src), 10, 64)
	if err != nil {
		return nil, &Error{
			Span: lenTok.Span,
			Kind: KindNumParse,
			Err:  err,
		}
	}

	if _, err := p.expect(ast.TokRSqBracket); err != nil {
		return nil, err
	}

	return ast.Array{Elem: elem, Len: length}, nil
}

// next consumes and returns the next token.
func (p *parser) next() (ast.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return ast.Token{}, p.unexpectedEnd()
	}
	p.pos++
	return tok, nil
}

// expect consumes the next token and checks its kind.
func (p *parser) expect(kind ast.TokenKind) (ast.Token, error) {
	tok, err := p.next()
	if err != nil {
		return ast.Token{}, err
	}
	if tok.Kind != kind {
		return ast.Token{}, unexpected(tok)
	}
	return tok, nil
}

func (p *parser) peek() (ast.Token, bool) {
	if p.pos >= len(p.tokens) {
		return ast.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) unexpectedEnd() error {
	end := len(p.src)
	return &Error{
		Span: ast.Span{Start: end, End: end},
		Kind: KindUnexpectedEnd,
	}
}

func unexpected(tok ast.Token) error {
	return &Error{
		Span:  tok.Span,
		Kind:  KindUnexpectedToken,
		Token: tok.Kind,
	}
}

// tokenizeFailure lifts a tokenizer error into a parse error.
func tokenizeFailure(err error) error {
	var tokErr *TokenizeError
	if !errors.As(err, &tokErr) {
		return err
	}
	return &Error{
		Span: tokErr.Span,
		Kind: KindTokenize,
		Err:  tokErr,
	}
}
