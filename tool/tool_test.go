package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
	"github.com/hupe1980/agentswarm/logging"
)

func newTestToolContext(vars core.ContextVars) *core.ToolContext {
	return core.NewToolContext(context.Background(), "call-1", "test_tool", "TestAgent", vars, logging.NoOpLogger{})
}

type stubAgent struct {
	name        string
	description string
}

func (a stubAgent) Name() string                                  { return a.name }
func (a stubAgent) Description() string                           { return a.description }
func (a stubAgent) Model() string                                 { return "gpt-4o" }
func (a stubAgent) Instructions(core.ContextVars) (string, error) { return "You are helpful.", nil }
func (a stubAgent) Tools() []core.Tool                            { return nil }
func (a stubAgent) ParallelToolCalls() bool                       { return true }

// -------------------- Schema Tests --------------------

type sampleSchema struct {
	A string   `json:"a" description:"Field A"`
	B *int     `json:"b" description:"Optional pointer field"`
	C int      `json:"c,omitempty" description:"Omit empty field"`
	D []string `json:"d,omitempty" description:"List field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	// Properties present
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	assert.Contains(t, props, "d")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
	// Slice fields carry an items schema
	list, ok := props["d"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "array", list["type"])
	items, ok := list["items"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "string", items["type"])
}

// -------------------- Func Tests --------------------

func TestFunc_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool, err := New("sum", "Add numbers", params, func(_ *core.ToolContext, args map[string]any) (any, error) {
		a := args["a"].(float64)
		b := args["b"].(float64)
		return a + b, nil
	})
	require.NoError(t, err)

	result, err := sumTool.Call(newTestToolContext(nil), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunc_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []string{"a"},
	}
	tTool, err := New("test", "Test", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return 0, nil
	})
	require.NoError(t, err)

	// Missing required field
	_, err = tTool.Call(newTestToolContext(nil), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, toolErr.Code)

	// Wrong type
	_, err = tTool.Call(newTestToolContext(nil), map[string]any{"a": "not-a-number"})
	assert.Error(t, err)
	toolErr, ok = err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunc_ExecutionError(t *testing.T) {
	execTool, err := New("fail", "Fails", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)

	_, err = execTool.Call(newTestToolContext(nil), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunc_ErrorPassthrough(t *testing.T) {
	custom := NewError("custom", "rate limited", "RATE_LIMITED")

	customTool, err := New("custom", "Custom", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, custom
	})
	require.NoError(t, err)

	_, err = customTool.Call(newTestToolContext(nil), map[string]any{})
	assert.Same(t, custom, err)
}

func TestFunc_Cancelled(t *testing.T) {
	cancelTool, err := New("slow", "Slow", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, context.Canceled
	})
	require.NoError(t, err)

	_, err = cancelTool.Call(newTestToolContext(nil), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeCancelled, toolErr.Code)
}

func TestFunc_ConstructionErrors(t *testing.T) {
	noop := func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil }

	_, err := New("", "no name", nil, noop)
	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New("no_fn", "no handler", nil, nil)
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New("bad_schema", "broken", map[string]any{"type": 123}, noop)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFunc_CapabilityFlags(t *testing.T) {
	noop := func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil }

	plain, err := New("plain", "Plain", nil, noop)
	require.NoError(t, err)
	assert.False(t, plain.UsesContextVars())
	assert.False(t, plain.ProducesHandoff())

	flagged, err := New("flagged", "Flagged", nil, noop, func(o *Options) {
		o.UsesContextVars = true
		o.ProducesHandoff = true
	})
	require.NoError(t, err)
	assert.True(t, flagged.UsesContextVars())
	assert.True(t, flagged.ProducesHandoff())
}

func TestNewFromStruct(t *testing.T) {
	type greetArgs struct {
		Name string `json:"name" description:"Who to greet"`
	}

	greet, err := NewFromStruct("greet", "Greet someone", greetArgs{}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return "Hello, " + args["name"].(string) + "!", nil
	})
	require.NoError(t, err)

	result, err := greet.Call(newTestToolContext(nil), map[string]any{"name": "Ada"})
	assert.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", result)

	// Missing required field derived from the struct
	_, err = greet.Call(newTestToolContext(nil), map[string]any{})
	assert.Error(t, err)
}

// -------------------- Handoff Tests --------------------

func TestNewHandoff(t *testing.T) {
	sales := stubAgent{name: "Sales Agent", description: "Handles sales questions."}

	transfer, err := NewHandoff(sales)
	require.NoError(t, err)
	assert.Equal(t, "transfer_to_sales_agent", transfer.Name())
	assert.Contains(t, transfer.Description(), "Sales Agent")
	assert.True(t, transfer.ProducesHandoff())

	raw, err := transfer.Call(newTestToolContext(nil), map[string]any{})
	require.NoError(t, err)

	result, ok := raw.(core.Result)
	require.True(t, ok)
	assert.Equal(t, sales, result.Agent)
	assert.Contains(t, result.Value, `"assistant"`)
	assert.Contains(t, result.Value, "Sales Agent")
}

func TestNewHandoff_Options(t *testing.T) {
	support := stubAgent{name: "Support"}

	transfer, err := NewHandoff(support, func(o *HandoffOptions) {
		o.Name = "escalate"
		o.Description = "Escalate to a human support agent."
	})
	require.NoError(t, err)
	assert.Equal(t, "escalate", transfer.Name())
	assert.Equal(t, "Escalate to a human support agent.", transfer.Description())
}

func TestNewHandoff_NilTarget(t *testing.T) {
	_, err := NewHandoff(nil)
	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

// -------------------- ContextVarsTool Tests --------------------

func TestContextVarsTool_Get(t *testing.T) {
	cv := NewContextVarsTool()
	tc := newTestToolContext(core.ContextVars{"user_name": "Ada"})

	res, err := cv.Call(tc, map[string]any{"operation": "get", "key": "user_name"})
	assert.NoError(t, err)

	m := res.(map[string]any)
	assert.True(t, m["exists"].(bool))
	assert.Equal(t, "Ada", m["value"])

	res, err = cv.Call(tc, map[string]any{"operation": "get", "key": "missing"})
	assert.NoError(t, err)
	m = res.(map[string]any)
	assert.False(t, m["exists"].(bool))
}

func TestContextVarsTool_Set(t *testing.T) {
	cv := NewContextVarsTool()
	tc := newTestToolContext(nil)

	res, err := cv.Call(tc, map[string]any{"operation": "set", "key": "plan", "value": "pro"})
	assert.NoError(t, err)

	result, ok := res.(core.Result)
	assert.True(t, ok)
	assert.Equal(t, core.ContextVars{"plan": "pro"}, result.ContextVars)
	// Snapshot stays untouched; the delta is merged by the run loop
	_, exists := tc.Var("plan")
	assert.False(t, exists)
}

func TestContextVarsTool_List(t *testing.T) {
	cv := NewContextVarsTool()
	tc := newTestToolContext(core.ContextVars{"b": 2, "a": 1})

	res, err := cv.Call(tc, map[string]any{"operation": "list"})
	assert.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, []string{"a", "b"}, m["keys"])
	assert.Equal(t, 2, m["count"])
}

func TestContextVarsTool_Errors(t *testing.T) {
	cv := NewContextVarsTool()
	tc := newTestToolContext(nil)

	_, err := cv.Call(tc, map[string]any{"operation": "explode"})
	assert.Error(t, err)
	toolErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, toolErr.Code)

	_, err = cv.Call(tc, map[string]any{"operation": "get"})
	assert.Error(t, err)

	_, err = cv.Call(tc, map[string]any{})
	assert.Error(t, err)
}

// -------------------- Error Formatting --------------------

func TestErrorFormatting(t *testing.T) {
	err := NewError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")

	bare := &Error{Tool: "demo", Message: "no code"}
	assert.Equal(t, "tool error in demo: no code", bare.Error())
}
