package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/agentswarm/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// ToolDefinitionsFor converts an agent's declared tools into the wire shape
// shared by the provider adapters.
func ToolDefinitionsFor(agent core.Agent) []ToolDefinition {
	tools := agent.Tools()
	if len(tools) == 0 {
		return nil
	}

	defs := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToolDefinition{
			Type: "function",
			Function: FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return defs
}

// Request captures the normalized model input produced by the run loop.
type Request struct {
	Model             string           `json:"model"`        // Target model name
	Instructions      string           `json:"instructions"` // System prompt for the model
	Messages          []core.Message   `json:"messages"`     // Conversation history
	Tools             []ToolDefinition `json:"tools,omitempty"`
	ParallelToolCalls bool             `json:"parallel_tool_calls,omitempty"`
	Stream            bool             `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToolCallChunk is a streamed fragment of a function call. Fragments with the
// same Index belong to the same call; Arguments pieces concatenate in arrival
// order into the call's argument JSON.
type ToolCallChunk struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Response is a (partial or final) chunk emitted by a model.
//
// Partial responses carry a text Delta and/or ToolCallChunks. Exactly one
// final response (Partial false) closes every generation; it carries the
// complete Content and the fully aggregated ToolCalls in the order the model
// issued them.
type Response struct {
	ID             string          `json:"id"`
	Partial        bool            `json:"partial"`
	Delta          string          `json:"delta,omitempty"`
	ToolCallChunks []ToolCallChunk `json:"tool_call_chunks,omitempty"`
	Content        string          `json:"content,omitempty"`
	ToolCalls      []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason   string          `json:"finish_reason,omitempty"` // "stop", "length", "tool_calls", etc.
	Usage          *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the run loop to drive generation.
//
// Generate returns a response channel and an error channel; both are closed
// when the generation finishes. When req.Stream is false, implementations
// emit exactly one final Response. When req.Stream is true, implementations
// emit zero or more partial responses followed by exactly one final Response
// carrying the aggregated result, so callers get identical final data either
// way.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockTurn is one scripted assistant turn for the Mock model.
type MockTurn struct {
	Content   string
	ToolCalls []core.ToolCall
	Err       error
}

// Mock is a lightweight in-memory Model useful for tests & examples.
//
// Turns are consumed in FIFO order, one per Generate call, which makes
// multi-turn tool calling loops fully scriptable:
//
//	m := model.NewMock()
//	m.AddToolCallTurn(core.ToolCall{Name: "get_weather", Arguments: `{"city":"Paris"}`})
//	m.AddTextTurn("It is sunny in Paris.")
//
// Once the script is exhausted, Generate echoes the last user message, which
// keeps quick experiments working without any scripting.
type Mock struct {
	info Info

	mu       sync.Mutex
	script   []MockTurn
	requests []Request
}

// NewMock constructs a Mock with basic tool support enabled.
func NewMock() *Mock {
	return &Mock{
		info: Info{
			Name:          "mock",
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// AddTextTurn appends a plain assistant text turn to the script.
func (m *Mock) AddTextTurn(content string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, MockTurn{Content: content})

	return m
}

// AddToolCallTurn appends an assistant turn that requests the given tool
// calls. Calls without an ID are assigned a generated one.
func (m *Mock) AddToolCallTurn(calls ...core.ToolCall) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = "call_" + uuid.NewString()[:8]
		}
	}

	m.script = append(m.script, MockTurn{ToolCalls: calls})

	return m
}

// AddTurn appends a fully specified turn to the script.
func (m *Mock) AddTurn(turn MockTurn) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, turn)

	return m
}

// AddErrorTurn appends a turn that fails with err.
func (m *Mock) AddErrorTurn(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, MockTurn{Err: err})

	return m
}

// Requests returns a copy of every Request seen so far, in call order.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)

	return out
}

// next records the request and pops the next scripted turn, if any.
func (m *Mock) next(req Request) (MockTurn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.script) == 0 {
		return MockTurn{}, false
	}

	turn := m.script[0]
	m.script = m.script[1:]

	return turn, true
}

// Generate implements Model; emits optional streaming chunks then the final response.
func (m *Mock) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	turn, scripted := m.next(req)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if turn.Err != nil {
			errCh <- turn.Err
			return
		}

		if !scripted {
			turn.Content = fmt.Sprintf("Mock response to: %s", lastUserContent(req.Messages))
		}

		id := "mock-" + uuid.NewString()[:8]

		if req.Stream {
			for _, r := range turn.Content {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{ID: id, Partial: true, Delta: string(r)}:
				}
			}

			for i, call := range turn.ToolCalls {
				// Split the arguments so consumers exercise fragment aggregation.
				head, tail := splitArgs(call.Arguments)

				chunks := []ToolCallChunk{{Index: i, ID: call.ID, Name: call.Name, Arguments: head}}
				if tail != "" {
					chunks = append(chunks, ToolCallChunk{Index: i, Arguments: tail})
				}

				for _, chunk := range chunks {
					select {
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					case respCh <- Response{ID: id, Partial: true, ToolCallChunks: []ToolCallChunk{chunk}}:
					}
				}
			}
		}

		finishReason := "stop"
		if len(turn.ToolCalls) > 0 {
			finishReason = "tool_calls"
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{
			ID:           id,
			Content:      turn.Content,
			ToolCalls:    turn.ToolCalls,
			FinishReason: finishReason,
		}:
		}
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *Mock) Info() Info { return m.info }

func lastUserContent(messages []core.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleUser {
			return messages[i].Content
		}
	}

	return ""
}

func splitArgs(args string) (string, string) {
	if len(args) < 2 {
		return args, ""
	}

	mid := len(args) / 2

	return args[:mid], args[mid:]
}
