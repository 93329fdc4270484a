package model

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/retry"
)

// collect drains both channels, returning every response and the first error.
func collect(t *testing.T, respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	t.Helper()

	var responses []Response
	var firstErr error

	for respCh != nil || errCh != nil {
		select {
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			responses = append(responses, r)
		case e, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if e != nil && firstErr == nil {
				firstErr = e
			}
		}
	}

	return responses, firstErr
}

func finalOf(t *testing.T, responses []Response) Response {
	t.Helper()

	var finals []Response
	for _, r := range responses {
		if !r.Partial {
			finals = append(finals, r)
		}
	}
	require.Len(t, finals, 1, "expected exactly one final response")

	return finals[0]
}

// -------------------- Mock Tests --------------------

func TestMock_TextTurn(t *testing.T) {
	m := NewMock()
	m.AddTextTurn("Hello there.")

	responses, err := collect(t, m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Hi")},
	}))
	require.NoError(t, err)

	final := finalOf(t, responses)
	assert.Equal(t, "Hello there.", final.Content)
	assert.Equal(t, "stop", final.FinishReason)
	assert.Empty(t, final.ToolCalls)
}

func TestMock_ToolCallTurn(t *testing.T) {
	m := NewMock()
	m.AddToolCallTurn(core.ToolCall{Name: "get_weather", Arguments: `{"city":"Paris"}`})

	responses, err := collect(t, m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Weather in Paris?")},
	}))
	require.NoError(t, err)

	final := finalOf(t, responses)
	assert.Equal(t, "tool_calls", final.FinishReason)
	require.Len(t, final.ToolCalls, 1)
	assert.Equal(t, "get_weather", final.ToolCalls[0].Name)
	assert.True(t, strings.HasPrefix(final.ToolCalls[0].ID, "call_"), "expected generated call id, got %q", final.ToolCalls[0].ID)
}

func TestMock_StreamMatchesFinal(t *testing.T) {
	m := NewMock()
	m.AddTurn(MockTurn{
		Content:   "Checking the weather.",
		ToolCalls: []core.ToolCall{{ID: "call_1", Name: "get_weather", Arguments: `{"city":"Paris"}`}},
	})

	responses, err := collect(t, m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Weather in Paris?")},
		Stream:   true,
	}))
	require.NoError(t, err)

	var deltas strings.Builder
	argsByIndex := map[int]string{}
	for _, r := range responses {
		if !r.Partial {
			continue
		}
		deltas.WriteString(r.Delta)
		for _, chunk := range r.ToolCallChunks {
			argsByIndex[chunk.Index] += chunk.Arguments
		}
	}

	final := finalOf(t, responses)
	assert.Equal(t, final.Content, deltas.String())
	require.Len(t, final.ToolCalls, 1)
	assert.Equal(t, final.ToolCalls[0].Arguments, argsByIndex[0])
}

func TestMock_EchoWhenScriptExhausted(t *testing.T) {
	m := NewMock()

	responses, err := collect(t, m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("anyone home?")},
	}))
	require.NoError(t, err)

	final := finalOf(t, responses)
	assert.Contains(t, final.Content, "anyone home?")
}

func TestMock_ErrorTurn(t *testing.T) {
	boom := errors.New("boom")
	m := NewMock()
	m.AddErrorTurn(boom)

	responses, err := collect(t, m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Hi")},
	}))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, responses)
}

func TestMock_RecordsRequests(t *testing.T) {
	m := NewMock()
	m.AddTextTurn("one").AddTextTurn("two")

	_, err := collect(t, m.Generate(context.Background(), Request{Model: "gpt-4o", Instructions: "first"}))
	require.NoError(t, err)
	_, err = collect(t, m.Generate(context.Background(), Request{Model: "gpt-4o-mini", Instructions: "second"}))
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "first", reqs[0].Instructions)
	assert.Equal(t, "gpt-4o-mini", reqs[1].Model)
}

// -------------------- ToolDefinitionsFor Tests --------------------

type defTool struct{ name string }

func (d defTool) Name() string               { return d.name }
func (d defTool) Description() string        { return "desc " + d.name }
func (d defTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (d defTool) UsesContextVars() bool      { return false }
func (d defTool) ProducesHandoff() bool      { return false }
func (d defTool) Call(*core.ToolContext, map[string]any) (any, error) {
	return nil, nil
}

type defAgent struct{ tools []core.Tool }

func (a defAgent) Name() string                                  { return "Agent" }
func (a defAgent) Description() string                           { return "" }
func (a defAgent) Model() string                                 { return "gpt-4o" }
func (a defAgent) Instructions(core.ContextVars) (string, error) { return "", nil }
func (a defAgent) Tools() []core.Tool                            { return a.tools }
func (a defAgent) ParallelToolCalls() bool                       { return true }

func TestToolDefinitionsFor(t *testing.T) {
	agent := defAgent{tools: []core.Tool{defTool{name: "alpha"}, defTool{name: "beta"}}}

	defs := ToolDefinitionsFor(agent)
	require.Len(t, defs, 2)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "alpha", defs[0].Function.Name)
	assert.Equal(t, "desc alpha", defs[0].Function.Description)
	assert.Equal(t, "beta", defs[1].Function.Name)

	assert.Nil(t, ToolDefinitionsFor(defAgent{}))
}

// -------------------- WithRetry Tests --------------------

func fastRetry(maxAttempts int) func(o *RetryOptions) {
	return func(o *RetryOptions) {
		o.Config = retry.Config{
			MaxAttempts:       maxAttempts,
			InitialBackoff:    1,
			MaxBackoff:        1,
			BackoffMultiplier: 1,
		}
	}
}

func TestWithRetry_RecoversFromRetryableError(t *testing.T) {
	m := NewMock()
	m.AddErrorTurn(&retry.HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"})
	m.AddTextTurn("recovered")

	wrapped := WithRetry(m, fastRetry(3))

	responses, err := collect(t, wrapped.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Hi")},
	}))
	require.NoError(t, err)

	final := finalOf(t, responses)
	assert.Equal(t, "recovered", final.Content)
	assert.Len(t, m.Requests(), 2)
}

func TestWithRetry_NonRetryableFailsFast(t *testing.T) {
	boom := errors.New("bad request")
	m := NewMock()
	m.AddErrorTurn(boom)
	m.AddTextTurn("never reached")

	wrapped := WithRetry(m, fastRetry(3))

	responses, err := collect(t, wrapped.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Hi")},
	}))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, responses)
	assert.Len(t, m.Requests(), 1)
}

func TestWithRetry_Exhausted(t *testing.T) {
	m := NewMock()
	for i := 0; i < 3; i++ {
		m.AddErrorTurn(&retry.HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"})
	}

	wrapped := WithRetry(m, fastRetry(2))

	_, err := collect(t, wrapped.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("Hi")},
	}))

	var exhausted *retry.ExhaustedError
	assert.ErrorAs(t, err, &exhausted)
	assert.Len(t, m.Requests(), 2)
}

// flakyStream emits one partial chunk and then fails, so retries would
// duplicate output if the decorator attempted them.
type flakyStream struct{ err error }

func (f *flakyStream) Info() Info { return Info{Name: "flaky", Provider: "mock"} }

func (f *flakyStream) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	out := make(chan Response, 1)
	errCh := make(chan error, 1)
	out <- Response{Partial: true, Delta: "par"}
	errCh <- f.err
	close(out)
	close(errCh)
	return out, errCh
}

func TestWithRetry_MidStreamErrorPassesThrough(t *testing.T) {
	streamErr := &retry.HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: "cut off"}
	wrapped := WithRetry(&flakyStream{err: streamErr}, fastRetry(5))

	responses, err := collect(t, wrapped.Generate(context.Background(), Request{Stream: true}))
	assert.ErrorIs(t, err, streamErr)
	require.Len(t, responses, 1)
	assert.Equal(t, "par", responses[0].Delta)
}

func TestWithRetry_InfoDelegates(t *testing.T) {
	m := NewMock()
	wrapped := WithRetry(m)
	assert.Equal(t, m.Info(), wrapped.Info())
}
