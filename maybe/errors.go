package maybe

import "fmt"

// Code identifies the kind of holder failure.
type Code int

// Stable error codes - do not change values.
const (
	CodeAliasing        Code = 2001 // MO2001: conflicting checkout of a guarded value
	CodeUseAfterRelease Code = 2002 // MO2002: holder used after IntoOwned/Release
	CodeNilReference    Code = 2003 // MO2003: borrowed holder built from a nil pointer
	CodeIneligible      Code = 2004 // MO2004: operator lacks one of its owned/borrowed forms
	CodeNoOperator      Code = 2005 // MO2005: operator not registered in a table
	CodeUnsupported     Code = 2006 // MO2006: conversion or codec not supported by T
	CodeDivideByZero    Code = 2007 // MO2007: integer division by zero
	CodeShiftRange      Code = 2008 // MO2008: negative shift count
)

// String returns the code as "MO2001" format.
func (c Code) String() string {
	return fmt.Sprintf("MO%d", c)
}

// Error is the failure type of the maybe package.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("maybe %s: %s", e.Code, defaultMessage(e.Code))
	}
	return fmt.Sprintf("maybe %s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrAliasing        = &Error{Code: CodeAliasing}
	ErrUseAfterRelease = &Error{Code: CodeUseAfterRelease}
	ErrNilReference    = &Error{Code: CodeNilReference}
	ErrIneligible      = &Error{Code: CodeIneligible}
	ErrNoOperator      = &Error{Code: CodeNoOperator}
	ErrUnsupported     = &Error{Code: CodeUnsupported}
	ErrDivideByZero    = &Error{Code: CodeDivideByZero}
	ErrShiftRange      = &Error{Code: CodeShiftRange}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func defaultMessage(c Code) string {
	switch c {
	case CodeAliasing:
		return "aliasing violation"
	case CodeUseAfterRelease:
		return "use after release"
	case CodeNilReference:
		return "nil reference"
	case CodeIneligible:
		return "operator is not defined for every owned/borrowed combination"
	case CodeNoOperator:
		return "operator not registered"
	case CodeUnsupported:
		return "unsupported"
	case CodeDivideByZero:
		return "integer divide by zero"
	case CodeShiftRange:
		return "negative shift count"
	default:
		return "unknown error"
	}
}
