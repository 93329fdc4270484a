package core

// RunResult is the outcome of one orchestration run: the messages produced
// since the run started, the agent left in control, and the merged context
// variables. On failure the run loop still returns a RunResult carrying
// whatever was accumulated; conversation progress is never discarded.
type RunResult struct {
	// Messages are the new messages this run appended, in order.
	Messages []Message
	// Agent is the final active agent (possibly unchanged).
	Agent Agent
	// ContextVars is the merged state after this run.
	ContextVars ContextVars
}

// LastContent returns the content of the last assistant message of the run,
// or the empty string if none was produced.
func (r RunResult) LastContent() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleAssistant {
			return r.Messages[i].Content
		}
	}
	return ""
}

// StreamChunk is one element of a streaming run. It is a closed union:
// ContentDelta, ToolCallDelta and Final are the only implementations. A
// stream emits zero or more delta chunks and is terminated by exactly one
// Final chunk carrying the same RunResult a blocking run would have produced.
type StreamChunk interface {
	isStreamChunk()
}

// ContentDelta is an incremental piece of assistant text.
type ContentDelta struct {
	// Sender is the name of the agent producing the text.
	Sender string
	// Delta is the text fragment, in arrival order.
	Delta string
}

// ToolCallDelta is an incremental piece of an assembling tool call. Index
// identifies the call within the current assistant message; ID and Name are
// filled once known, Arguments grows as fragments arrive.
type ToolCallDelta struct {
	Sender    string
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Final carries the materialized run result and terminates the stream.
type Final struct {
	Result RunResult
}

func (ContentDelta) isStreamChunk()  {}
func (ToolCallDelta) isStreamChunk() {}
func (Final) isStreamChunk()         {}
