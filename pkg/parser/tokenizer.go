package parser

import "github.com/yaklabco/structparse/pkg/ast"

// scanState is the state of the tokenizer between bytes.
type scanState uint8

const (
	stateInit      scanState = iota // outside any token
	stateInToken                    // accumulating an identifier or literal
	stateSawSlash                   // saw '/', awaiting a second '/'
	stateInComment                  // skipping to end of line
)

// scanner performs a single left-to-right scan of the source.
type scanner struct {
	src    string
	tokens []ast.Token
	state  scanState

	// start is the first byte of the pending token in stateInToken, or the
	// offset of the '/' in stateSawSlash.
	start int

	// kind is fixed by the first byte of the pending token.
	kind ast.TokenKind
}

// Tokenize converts source text into an ordered token stream.
// Whitespace and "//" line comments produce no tokens; bytes that cannot
// start a token are skipped. A '/' not followed by a second '/' is a
// *TokenizeError located at the '/', and no tokens are returned.
func Tokenize(src string) ([]ast.Token, error) {
	const initialCapacityDivisor = 4 // rough tokens-per-byte estimate

	scan := &scanner{
		src:    src,
		tokens: make([]ast.Token, 0, len(src)/initialCapacityDivisor),
		state:  stateInit,
	}

	for pos := 0; pos < len(src); {
		consumed, err := scan.step(pos)
		if err != nil {
			return nil, err
		}
		// A byte that terminates a token is re-evaluated from stateInit.
		if consumed {
			pos++
		}
	}

	if err := scan.finish(); err != nil {
		return nil, err
	}

	return scan.tokens, nil
}

// step applies the transition for the byte at pos and reports whether the
// byte was consumed.
func (s *scanner) step(pos int) (bool, error) {
	b := s.src[pos]

	switch s.state {
	case stateInit:
		if kind, ok := punctuation(b); ok {
			s.emit(kind, pos, pos+1)
			return true, nil
		}
		switch {
		case isIdentStart(b):
			s.begin(pos, ast.TokIdent)
		case isDigit(b):
			s.begin(pos, ast.TokNumLit)
		case b == '/':
			s.state = stateSawSlash
			s.start = pos
		}
		return true, nil

	case stateInToken:
		if isIdentContinue(b) {
			return true, nil
		}
		s.closeToken(pos)
		return false, nil

	case stateSawSlash:
		if b != '/' {
			return false, s.loneSlash()
		}
		s.state = stateInComment
		return true, nil

	case stateInComment:
		if b == '\n' {
			s.state = stateInit
		}
		return true, nil
	}

	return true, nil
}

// finish handles end of input.
func (s *scanner) finish() error {
	switch s.state {
	case stateInToken:
		s.closeToken(len(s.src))
	case stateSawSlash:
		return s.loneSlash()
	case stateInit, stateInComment:
		// A comment may run to end of input.
	}
	return nil
}

// loneSlash reports the pending '/' that was not followed by a second '/'.
func (s *scanner) loneSlash() error {
	return &TokenizeError{
		Span: ast.Span{Start: s.start, End: s.start + 1},
		Kind: UnexpectedByte,
		Byte: '/',
	}
}

func (s *scanner) begin(pos int, kind ast.TokenKind) {
	s.state = stateInToken
	s.start = pos
	s.kind = kind
}

// closeToken emits the pending token ending at end and returns to stateInit.
func (s *scanner) closeToken(end int) {
	kind := s.kind
	if s.src[s.start:end] == "struct" {
		kind = ast.TokKwStruct
	}
	s.emit(kind, s.start, end)
	s.state = stateInit
}

func (s *scanner) emit(kind ast.TokenKind, start, end int) {
	s.tokens = append(s.tokens, ast.Token{
		Kind: kind,
		Span: ast.Span{Start: start, End: end},
	})
}

// punctuation maps single-byte tokens to their kind.
func punctuation(b byte) (ast.TokenKind, bool) {
	switch b {
	case '{':
		return ast.TokLBrace, true
	case '}':
		return ast.TokRBrace, true
	case '[':
		return ast.TokLSqBracket, true
	case ']':
		return ast.TokRSqBracket, true
	case ':':
		return ast.TokColon, true
	case ';':
		return ast.TokSemi, true
	case ',':
		return ast.TokComma, true
	default:
		return 0, false
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentStart(b byte) bool {
	return isAlpha(b) || b == '_'
}

func isIdentContinue(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_'
}
