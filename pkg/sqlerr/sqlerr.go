// Package sqlerr defines the structured error type shared by every layer of
// the engine. Errors carry a stable code, a category that decides how the
// caller treats them, and optional operation/component context added as the
// error climbs out of the storage layers.
package sqlerr

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Category classifies errors by their nature and appropriate handling strategy.
type Category int

const (
	// CategoryIO represents failures of the underlying file: open errors,
	// short reads, seek failures. Fatal for the session when they occur at
	// open time; surfaced verbatim.
	CategoryIO Category = iota

	// CategoryFormat represents a database file that does not conform to the
	// expected on-disk layout. The file is untrusted input, so no partial or
	// best-effort decoding is attempted: the current query fails.
	CategoryFormat

	// CategoryQuery represents errors in the request itself: unsupported
	// syntax, unknown objects, unresolvable columns. The open database and
	// its catalog remain valid; only the current query fails.
	CategoryQuery
)

// String returns the category name used in log fields.
func (c Category) String() string {
	switch c {
	case CategoryIO:
		return "io"
	case CategoryFormat:
		return "format"
	case CategoryQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Code is a stable identifier for an error condition. Codes survive message
// rewording, so tests and callers branch on codes, never on text.
type Code string

const (
	CodeIO Code = "IO_ERROR"

	CodeNotASQLiteFile    Code = "NOT_A_SQLITE_FILE"
	CodeMalformedVarint   Code = "MALFORMED_VARINT"
	CodeUnknownSerialType Code = "UNKNOWN_SERIAL_TYPE"
	CodeTruncatedRecord   Code = "TRUNCATED_RECORD"
	CodeCorruptBTree      Code = "CORRUPT_BTREE"
	CodePageOutOfRange    Code = "PAGE_OUT_OF_RANGE"

	CodeUnsupportedQuery Code = "UNSUPPORTED_QUERY"
	CodeUnknownTable     Code = "UNKNOWN_TABLE"
	CodeUnknownIndex     Code = "UNKNOWN_INDEX"
	CodeColumnNotFound   Code = "COLUMN_NOT_FOUND"
)

// Category returns the handling category a code belongs to.
func (c Code) Category() Category {
	switch c {
	case CodeIO:
		return CategoryIO
	case CodeNotASQLiteFile, CodeMalformedVarint, CodeUnknownSerialType,
		CodeTruncatedRecord, CodeCorruptBTree, CodePageOutOfRange:
		return CategoryFormat
	default:
		return CategoryQuery
	}
}

// Error is the structured error value returned by the engine.
type Error struct {
	// Code is the stable identifier for this error condition.
	Code Code

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides context about the specific instance, such as the page
	// number or object name involved.
	Detail string

	// Operation identifies what was being performed when the error occurred.
	// Examples: "Page", "DecodeRecord", "Seek", "Plan".
	Operation string

	// Component identifies where the error originated.
	// Examples: "PageStore", "RecordDecoder", "BTree", "Catalog", "Planner".
	Component string

	// Cause is the underlying error, if any. Enables error chaining while
	// preserving the original context.
	Cause error

	// stack is the call stack captured at creation, for debug logging.
	stack []uintptr
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		stack:   captureStack(),
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with engine context. If err is already an
// *Error it is enriched with operation and component context (only where not
// already set) rather than re-wrapped, so the original code survives.
func Wrap(err error, code Code, operation, component string) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Operation == "" {
			e.Operation = operation
		}
		if e.Component == "" {
			e.Component = component
		}
		return e
	}

	return &Error{
		Code:      code,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		stack:     captureStack(),
	}
}

// WithDetail returns e with its detail set. Intended for call-site chaining:
//
//	sqlerr.New(sqlerr.CodeCorruptBTree, "child page out of range").WithDetail(fmt.Sprintf("page %d", n))
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// Category returns the handling category for this error.
func (e *Error) Category() Category {
	return e.Code.Category()
}

// Error implements the standard error interface.
//
// The format follows the pattern:
// [ERROR_CODE] Message: Detail (operation: Operation, component: Component) caused by: underlying error
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As
// traversal through the chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf extracts the code from an error chain, or "" if no *Error is present.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether the error chain contains an *Error with the code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsFormat reports whether the error chain is a format error: the file does
// not match the expected on-disk layout.
func IsFormat(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Category() == CategoryFormat
}

// IsQuery reports whether the error chain is a query error, leaving the open
// database usable.
func IsQuery(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Category() == CategoryQuery
}

// IsIO reports whether the error chain is an I/O error.
func IsIO(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Category() == CategoryIO
}

// captureStack captures the current call stack for debugging purposes.
// It skips the first 3 frames to exclude captureStack, New/Wrap, and the
// immediate caller, focusing on the actual error origin.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// FormatStack returns a human-readable stack trace for debug logging.
func (e *Error) FormatStack() string {
	if len(e.stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}
