package core

// Tool defines the interface for extending agent capabilities with callable
// functions the model may invoke.
//
// The two capability accessors declare the tool's calling convention up
// front instead of leaving it to runtime discovery:
//
//   - UsesContextVars: the invocation receives a read-only snapshot of the
//     run's context variables through the ToolContext.
//   - ProducesHandoff: results of this tool may carry an Agent reference;
//     handoffs from tools that do not declare this are dropped with a
//     warning.
//
// Tool implementations should provide clear names and descriptions, define a
// proper JSON schema for parameters, handle errors gracefully and be safe for
// concurrent use; a batch may invoke several tools at once.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case
	// recommended), referenced by model issued tool calls.
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is provided to the model to guide tool selection.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// UsesContextVars reports whether the tool reads context variables.
	UsesContextVars() bool

	// ProducesHandoff reports whether results may request an agent handoff.
	ProducesHandoff() bool

	// Call executes the tool with decoded arguments. The returned value is
	// normalized by the executor: a plain string (or any JSON serializable
	// value) becomes the tool message text, a Result may additionally carry
	// a context delta and a handoff, and a bare Agent requests a handoff.
	Call(tc *ToolContext, args map[string]any) (any, error)
}
