package phplit

import (
	"fmt"
	"reflect"
)

// ErrKind identifies the class of a syntax error.
type ErrKind string

const (
	ErrUnexpectedToken    ErrKind = "unexpected token"
	ErrUnexpectedEOF      ErrKind = "unexpected end of input"
	ErrUnexpectedChar     ErrKind = "unexpected character"
	ErrUnterminatedString ErrKind = "unterminated string"
	ErrInvalidEscape      ErrKind = "invalid escape"
	ErrInvalidNumber      ErrKind = "invalid number"
	ErrInvalidArrayKey    ErrKind = "invalid array key"
	ErrMismatchedBracket  ErrKind = "mismatched bracket"
	ErrMaxDepth           ErrKind = "max depth exceeded"
)

// ParseError describes a syntax error with the 1-based source position
// where it was detected. A failed parse never yields a partial Value.
type ParseError struct {
	Kind    ErrKind
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("phplit: parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// DecodeError describes a mismatch between a Value and the Go value it
// was being decoded into. Path names the exact location of the mismatch,
// e.g. "bars[2]" or "nested.foo"; it is empty for the top-level value.
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "phplit: " + e.Message
	}
	return fmt.Sprintf("phplit: %s: %s", e.Path, e.Message)
}

// An UnmarshalerError wraps an error returned by a custom UnmarshalPHP
// or UnmarshalText method.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "phplit: error calling unmarshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
