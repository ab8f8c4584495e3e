package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yaklabco/structparse/pkg/ast"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrUnexpectedByte  = errors.New("unexpected byte")
	ErrUnexpectedEnd   = errors.New("unexpected end of input")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrNumParse        = errors.New("invalid array length")
)

// TokenizeErrorKind classifies a lexical failure.
type TokenizeErrorKind uint8

const (
	// UnexpectedByte means a byte cannot begin or continue any token,
	// e.g. a lone '/'.
	UnexpectedByte TokenizeErrorKind = iota
)

// String returns the name of the kind.
func (k TokenizeErrorKind) String() string {
	switch k {
	case UnexpectedByte:
		return "UnexpectedByte"
	default:
		return "TokenizeErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// TokenizeError is returned by Tokenize. It aborts tokenization; no
// partial token stream accompanies it.
type TokenizeError struct {
	// Span covers the offending byte.
	Span ast.Span

	// Kind classifies the failure.
	Kind TokenizeErrorKind

	// Byte is the offending byte.
	Byte byte
}

// Error implements error.
func (e *TokenizeError) Error() string {
	return e.Span.String() + ": " + e.Message()
}

// Message describes the failure without location.
func (e *TokenizeError) Message() string {
	return fmt.Sprintf("unexpected byte %q", e.Byte)
}

// Is reports whether target is the sentinel for this kind.
func (e *TokenizeError) Is(target error) bool {
	return target == ErrUnexpectedByte && e.Kind == UnexpectedByte
}

// ErrorKind classifies a parse failure.
type ErrorKind uint8

const (
	// KindTokenize wraps a *TokenizeError.
	KindTokenize ErrorKind = iota

	// KindUnexpectedEnd means the token stream ended where a token was required.
	KindUnexpectedEnd

	// KindUnexpectedToken means a token of the wrong kind was found.
	KindUnexpectedToken

	// KindNumParse means an array length literal is not a valid uint64.
	KindNumParse
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTokenize:
		return "Tokenize"
	case KindUnexpectedEnd:
		return "UnexpectedEnd"
	case KindUnexpectedToken:
		return "UnexpectedTok"
	case KindNumParse:
		return "NumParse"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is the error returned by Parse, ParseTokens and ParseAll.
// Every Error carries a span into the original source.
type Error struct {
	// Span locates the failure. For KindUnexpectedEnd it is the empty
	// range at the end of the source.
	Span ast.Span

	// Kind classifies the failure.
	Kind ErrorKind

	// Token is the kind of the offending token for KindUnexpectedToken.
	Token ast.TokenKind

	// Err is the underlying cause: a *TokenizeError for KindTokenize,
	// a *strconv.NumError for KindNumParse, nil otherwise.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return e.Span.String() + ": " + e.Message()
}

// Message describes the failure without location.
func (e *Error) Message() string {
	switch e.Kind {
	case KindTokenize:
		var tokErr *TokenizeError
		if errors.As(e.Err, &tokErr) {
			return tokErr.Message()
		}
		return ErrUnexpectedByte.Error()
	case KindUnexpectedEnd:
		return ErrUnexpectedEnd.Error()
	case KindUnexpectedToken:
		return "unexpected " + e.Token.Describe()
	case KindNumParse:
		var numErr *strconv.NumError
		if errors.As(e.Err, &numErr) {
			return fmt.Sprintf("%s %q: %v", ErrNumParse, numErr.Num, numErr.Err)
		}
		return ErrNumParse.Error()
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
// KindTokenize matches ErrUnexpectedByte through Unwrap.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnexpectedEnd:
		return e.Kind == KindUnexpectedEnd
	case ErrUnexpectedToken:
		return e.Kind == KindUnexpectedToken
	case ErrNumParse:
		return e.Kind == KindNumParse
	default:
		return false
	}
}
