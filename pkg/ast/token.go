package ast

//go:generate stringer -type=TokenKind -trimprefix=Tok

// TokenKind classifies a lexical token of the struct-definition grammar.
type TokenKind uint8

// Token kinds. The set is closed; whitespace and comments produce no tokens.
const (
	TokKwStruct   TokenKind = iota // 'struct'
	TokIdent                       // identifier
	TokNumLit                      // decimal literal
	TokLBrace                      // '{'
	TokRBrace                      // '}'
	TokLSqBracket                  // '['
	TokRSqBracket                  // ']'
	TokColon                       // ':'
	TokSemi                        // ';'
	TokComma                       // ','
)

// Describe returns a human-readable name of the token kind for messages.
func (k TokenKind) Describe() string {
	switch k {
	case TokKwStruct:
		return "keyword `struct`"
	case TokIdent:
		return "identifier"
	case TokNumLit:
		return "integer literal"
	case TokLBrace:
		return "`{`"
	case TokRBrace:
		return "`}`"
	case TokLSqBracket:
		return "`[`"
	case TokRSqBracket:
		return "`]`"
	case TokColon:
		return "`:`"
	case TokSemi:
		return "`;`"
	case TokComma:
		return "`,`"
	default:
		return k.String()
	}
}

// Token is a classified, span-located lexical unit.
// Tokens never overlap and appear in source order; gaps between them are
// whitespace, comments, or skipped bytes.
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// Span locates the token in the source.
	Span Span
}

// Text returns the source text of this token.
func (t Token) Text(src string) string {
	return t.Span.Text(src)
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.Span.Len()
}
