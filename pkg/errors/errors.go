// Package errors provides coded errors shared by the CLI and the HTTP API.
//
// Library packages return plain sentinel errors (dag.ErrDuplicateNode,
// layout.ErrInfeasible, ...). The frontends turn them into an [*Error] with
// [Classify] so they can pick an exit status or HTTP status from the code
// instead of matching sentinels themselves.
//
// # Error Codes
//
//   - INVALID_*: the input document or a request parameter is wrong
//   - DUPLICATE_NODE, UNKNOWN_*: the document declares an impossible graph
//   - LAYOUT_INFEASIBLE: the graph has no tower drawing
//   - TIMEOUT, CANCELED: the solver was stopped before finding a drawing
//   - PACKAGE_NOT_FOUND, NETWORK_ERROR: a registry scrape failed
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	coded := errors.Classify(runErr)
//	fmt.Println(coded.Code, errors.UserMessage(coded))
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/boxtower/pkg/boxfile"
	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/deps"
	"github.com/matzehuels/boxtower/pkg/integrations"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSyntax Code = "INVALID_SYNTAX"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Graph errors
	ErrCodeDuplicateNode     Code = "DUPLICATE_NODE"
	ErrCodeUnknownDependency Code = "UNKNOWN_DEPENDENCY"
	ErrCodeUnknownNode       Code = "UNKNOWN_NODE"

	// Layout errors
	ErrCodeLayoutInfeasible Code = "LAYOUT_INFEASIBLE"
	ErrCodeTimeout          Code = "TIMEOUT"
	ErrCodeCanceled         Code = "CANCELED"

	// Registry errors
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeNetwork         Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err has the given error code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. For uncoded
// errors it returns the error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Classify maps err to a coded error. An err that already carries a code
// is returned as is; nil stays nil. The message is the innermost
// meaningful description, suitable for showing to a user.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var syntax *boxfile.SyntaxError
	switch {
	case errors.As(err, &syntax):
		return Wrap(ErrCodeInvalidSyntax, err, "line %d: cannot parse %q", syntax.Line, syntax.Text)
	case errors.Is(err, dag.ErrDuplicateNode):
		return Wrap(ErrCodeDuplicateNode, err, "a node is declared twice")
	case errors.Is(err, dag.ErrUnknownDependency):
		return Wrap(ErrCodeUnknownDependency, err, "a dependency is used before it is declared")
	case errors.Is(err, dag.ErrUnknownNode):
		return Wrap(ErrCodeUnknownNode, err, "no such node")
	case errors.Is(err, dag.ErrInvalidNodeID):
		return Wrap(ErrCodeInvalidInput, err, "invalid node id")
	case errors.Is(err, layout.ErrInfeasible):
		return Wrap(ErrCodeLayoutInfeasible, err, "You seem to be in dependency hell.")
	case errors.Is(err, layout.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, "no layout found within the time limit")
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCanceled, err, "canceled")
	case errors.Is(err, integrations.ErrNotFound):
		return Wrap(ErrCodePackageNotFound, err, "package not found in the registry")
	case errors.Is(err, integrations.ErrNetwork):
		return Wrap(ErrCodeNetwork, err, "registry request failed")
	case errors.Is(err, layout.ErrEmptyGraph), errors.Is(err, transform.ErrInvalidOptions), errors.Is(err, deps.ErrEmptyName):
		return Wrap(ErrCodeInvalidInput, err, "invalid request")
	}
	return Wrap(ErrCodeInternal, err, "internal error")
}
