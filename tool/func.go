package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
)

// HandlerFunc is the signature of a tool implementation. It receives a
// ToolContext carrying the call metadata and a read-only snapshot of the
// run's context variables, plus the already validated arguments.
//
// The returned value may be:
//   - a string, used verbatim as the tool message content
//   - a core.Result, carrying a value plus context variable updates and/or
//     a handoff target
//   - a core.Agent, shorthand for a pure handoff
//   - any JSON-serializable value, marshaled into the tool message
type HandlerFunc func(toolCtx *core.ToolContext, args map[string]any) (any, error)

// Options configures a Func tool.
//
// Use functional options with New to override defaults.
type Options struct {
	// UsesContextVars requests a snapshot of the run's context variables in
	// the ToolContext. Tools that leave this false see an empty snapshot.
	UsesContextVars bool

	// ProducesHandoff declares that the tool may return a handoff target.
	// Handoffs returned by tools without this flag are ignored and logged.
	ProducesHandoff bool
}

// Func is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds a JSON Schema parameter specification, compiled at construction
//   - Validates model supplied arguments against that schema before execution
//   - Invokes the wrapped function with a *core.ToolContext giving access to
//     the call ID, the agent name and the context variable snapshot
//   - Normalizes error handling so callers receive *Error with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-Error)
//     CANCELLED         -> the function returned a context cancellation error
//     (custom codes preserved if the function returns *Error directly)
//
// Concurrency:
//
//	A Func has no internal mutable state after construction and is safe for
//	concurrent use by multiple goroutines.
type Func struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// JSON schema describing accepted arguments
	parameters map[string]any
	// Compiled form of parameters, used for validation
	schema *jsonschema.Schema
	// User supplied implementation
	fn HandlerFunc
	// Capability flags, see Options
	usesContextVars bool
	producesHandoff bool
}

// New constructs a Func from an explicit schema and function.
//
// The parameters map must be a valid JSON Schema document; it is compiled at
// construction so schema mistakes surface as a *core.ConfigurationError
// before any run starts rather than on the first call. A nil parameters map
// is treated as an empty object schema (a tool without arguments).
//
// Example:
//
//	sumTool, err := tool.New(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(tc *core.ToolContext, args map[string]any) (any, error) {
//	    a := args["a"].(float64)
//	    b := args["b"].(float64)
//	    return a + b, nil
//	  },
//	)
func New(
	name, description string,
	parameters map[string]any,
	fn HandlerFunc,
	optFns ...func(o *Options),
) (*Func, error) {
	if name == "" {
		return nil, core.NewConfigurationError("tool name must not be empty")
	}

	if fn == nil {
		return nil, core.NewConfigurationError("tool %q: handler must not be nil", name)
	}

	if parameters == nil {
		parameters = map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}

	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	schema, err := compileSchema(parameters)
	if err != nil {
		return nil, core.NewConfigurationError("tool %q: invalid parameter schema: %v", name, err)
	}

	return &Func{
		name:            name,
		description:     description,
		parameters:      parameters,
		schema:          schema,
		fn:              fn,
		usesContextVars: opts.UsesContextVars,
		producesHandoff: opts.ProducesHandoff,
	}, nil
}

// NewFromStruct derives the parameter schema from a struct using reflection.
// It is a convenience for simple argument containers and produces a schema
// equivalent to util.CreateSchema(structType).
//
// Example:
//
//	type SumArgs struct {
//	  A float64 `json:"a" description:"First addend"`
//	  B float64 `json:"b" description:"Second addend"`
//	}
//
//	sumTool, err := tool.NewFromStruct(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  SumArgs{},
//	  func(tc *core.ToolContext, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFromStruct(
	name, description string,
	structType any,
	fn HandlerFunc,
	optFns ...func(o *Options),
) (*Func, error) {
	return New(name, description, util.CreateSchema(structType), fn, optFns...)
}

// compileSchema round-trips the schema map through JSON so the compiler sees
// canonical decoded values, then compiles it.
func compileSchema(parameters map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(parameters)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	return c.Compile("schema.json")
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *Func) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *Func) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *Func) Parameters() map[string]any { return t.parameters }

// UsesContextVars reports whether the tool receives a context variable snapshot.
func (t *Func) UsesContextVars() bool { return t.usesContextVars }

// ProducesHandoff reports whether the tool may return a handoff target.
func (t *Func) ProducesHandoff() bool { return t.producesHandoff }

// Call validates the provided args against the declared schema then invokes
// the underlying function. Validation or execution failures are wrapped (or
// passed through) as *Error for uniform downstream handling.
//
// Error Semantics:
//
//	*Error (returned directly)  -> forwarded unchanged
//	validation failure          -> *Error{Code: "VALIDATION_ERROR"}
//	context cancellation        -> *Error{Code: "CANCELLED"}
//	other error                 -> *Error{Code: "EXECUTION_ERROR"}
//
// Logging Fields:
//
//	tool: tool name
//	call_id: tool call identifier (correlates model request & tool execution)
//	duration_ms: execution time in milliseconds
func (t *Func) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	logger := toolCtx.Logger()
	start := time.Now()

	logger.Debug("tool.call.start", "tool", t.name, "call_id", toolCtx.CallID())

	if args == nil {
		args = map[string]any{}
	}

	if err := t.schema.Validate(args); err != nil {
		logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

		return nil, &Error{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	result, err := t.fn(toolCtx, args)
	if err != nil {
		if toolErr, ok := err.(*Error); ok { // Already an Error -> just log and forward
			logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)

			return nil, toolErr
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("tool.call.cancelled", "tool", t.name, "error", err.Error())

			return nil, &Error{
				Tool:    t.name,
				Message: err.Error(),
				Code:    CodeCancelled,
				Details: err,
			}
		}

		logger.Error("tool.call.error", "tool", t.name, "error", err.Error())

		return nil, &Error{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
			Details: err,
		}
	}

	logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
