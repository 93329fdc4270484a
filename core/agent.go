package core

// Agent describes an agent definition to the run loop.
//
// Agents are immutable values: a handoff never mutates an Agent, it only
// changes which Agent reference is active for the remainder of the run.
// The agent package provides the standard implementation; custom
// implementations are possible as long as they behave as pure values.
type Agent interface {
	// Name is the unique identifier, used as the Sender of assistant
	// messages and in handoff chains.
	Name() string

	// Description is a short human readable summary, surfaced in generated
	// handoff tool descriptions.
	Description() string

	// Model returns the model identifier requests are issued against.
	Model() string

	// Instructions resolves the system prompt against a read-only view of
	// the current context variables. Static instructions ignore the
	// argument; dynamic resolvers must be pure and must not retain vars.
	Instructions(vars ContextVars) (string, error)

	// Tools returns the agent's tool set in declaration order.
	Tools() []Tool

	// ParallelToolCalls reports whether a batch of tool calls issued in one
	// assistant message may execute concurrently.
	ParallelToolCalls() bool
}
