// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (APIs, computations, side effects) with schema
// validated arguments, consistent error handling and rich metadata for LLM guidance.
//
// Tools are plain values implementing core.Tool. Beyond returning a string
// result, a tool may return a core.Result carrying context variable updates
// and a handoff to another agent, which the run loop merges after the whole
// tool batch has finished.
package tool

import (
	"fmt"

	"github.com/hupe1980/agentswarm/core"
)

// Tool is the interface implemented by every tool in this package.
//
// It is an alias for core.Tool so that tool implementations, the run loop and
// user code all speak the same type without import cycles.
type Tool = core.Tool

// Error codes used by this package. The run loop converts every *Error into
// a tool role message so a failing tool never aborts the surrounding run.
const (
	// CodeValidation marks arguments that failed schema validation.
	CodeValidation = "VALIDATION_ERROR"

	// CodeExecution marks errors returned by the tool implementation itself.
	CodeExecution = "EXECUTION_ERROR"

	// CodeCancelled marks tool calls abandoned because the run was cancelled
	// or a deadline expired.
	CodeCancelled = "CANCELLED"

	// CodeUnknownTool marks calls to a tool name the active agent does not
	// declare. Emitted by the executor, never by a tool itself.
	CodeUnknownTool = "UNKNOWN_TOOL"
)

// Error represents errors that occur during tool execution.
type Error struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the underlying cause when Details carries one, so callers
// can classify wrapped errors with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// NewError creates a new Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
