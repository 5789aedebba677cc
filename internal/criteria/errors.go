package criteria

import (
	"errors"
	"fmt"
)

// Error codes carried by QueryParseError.
const (
	CodeSyntax        = "SYNTAX"
	CodeUnknownLayout = "UNKNOWN_LAYOUT"
	CodeOperatorMix   = "OPERATOR_MIX"
	CodeInvalidValue  = "INVALID_VALUE"
	CodeInvalidPage   = "INVALID_PAGE"
)

// QueryParseError is the single failure kind surfaced while turning AQL
// into a Selector. A query either compiles fully or fails with one of these.
type QueryParseError struct {
	Code    string
	Message string
	Value   string // offending input, if any
	Err     error
}

func (e *QueryParseError) Error() string {
	msg := fmt.Sprintf("query parse error [%s]: %s", e.Code, e.Message)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *QueryParseError) Unwrap() error {
	return e.Err
}

// NewQueryParseError builds a QueryParseError.
func NewQueryParseError(code, value, format string, args ...any) *QueryParseError {
	return &QueryParseError{Code: code, Message: fmt.Sprintf(format, args...), Value: value}
}

// IsQueryParseError reports whether err wraps a QueryParseError.
func IsQueryParseError(err error) bool {
	var qe *QueryParseError
	return errors.As(err, &qe)
}

// HasCode reports whether err wraps a QueryParseError with the given code.
func HasCode(err error, code string) bool {
	var qe *QueryParseError
	return errors.As(err, &qe) && qe.Code == code
}
