package core

// Result is the rich shape a tool function may return when it needs to do
// more than answer the model: update context variables, hand control to
// another agent, or both. Tools that only answer can return a plain string
// (or any JSON serializable value) instead.
type Result struct {
	// Value is the text fed back to the model as the tool's answer.
	Value string
	// ContextVars is a delta merged into the run's state after the batch.
	ContextVars ContextVars
	// Agent, when non-nil, requests a handoff to that agent.
	Agent Agent
}

// ToolResult is the uniform, normalized outcome of one tool invocation,
// regardless of what shape the underlying function returned. Exactly one
// ToolResult exists per ToolCall of a batch.
type ToolResult struct {
	// CallID correlates the result with the originating ToolCall.
	CallID string
	// ToolName is the invoked tool's name.
	ToolName string
	// Content is the text recorded in the tool message for the model.
	Content string
	// ContextDelta holds the context variable changes contributed by the call.
	ContextDelta ContextVars
	// Handoff, when non-nil, is the agent elected by this call.
	Handoff Agent
	// Err records the invocation failure, if any. The failure text is also
	// reflected in Content so the model sees it; the run itself continues.
	Err error
}

// Message converts the result into its tool message for the history.
func (r ToolResult) Message() Message {
	return NewToolMessage(r.CallID, r.ToolName, r.Content)
}
