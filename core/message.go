package core

// Role identifies the conversational role of a Message.
type Role string

const (
	// RoleSystem marks resolved agent instructions sent to the model.
	RoleSystem Role = "system"
	// RoleUser marks caller supplied input.
	RoleUser Role = "user"
	// RoleAssistant marks model output, possibly carrying tool calls.
	RoleAssistant Role = "assistant"
	// RoleTool marks the result of a single tool invocation.
	RoleTool Role = "tool"
)

// ToolCall is a model issued request to invoke a named tool. The ID correlates
// the call with the tool message answering it; Arguments is the raw JSON
// payload exactly as produced by the provider.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one entry of the append-only conversation history.
//
// Sender carries the producing agent's name on assistant messages so callers
// can attribute replies after handoffs. Tool messages answer exactly one
// ToolCall, identified by ToolCallID.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	Sender     string     `json:"sender,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// NewSystemMessage constructs a system message.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewUserMessage constructs a user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage constructs an assistant message attributed to the named
// agent, optionally carrying tool calls.
func NewAssistantMessage(sender, text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, Sender: sender, ToolCalls: calls}
}

// NewToolMessage constructs a tool message answering the identified call.
func NewToolMessage(callID, toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, ToolName: toolName}
}

// HasToolCalls reports whether the message carries at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// Clone returns a copy of the message with its own tool call slice.
func (m Message) Clone() Message {
	out := m
	if len(m.ToolCalls) > 0 {
		out.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(out.ToolCalls, m.ToolCalls)
	}
	return out
}

// CloneMessages returns a deep copy of a message history slice.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = m.Clone()
	}
	return out
}
