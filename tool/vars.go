package tool

import (
	"fmt"

	"github.com/hupe1980/agentswarm/core"
)

// ContextVarsTool lets a model read and update the run's context variables.
//
// Reads are served from the snapshot in the ToolContext. Writes are staged as
// a context delta on the returned core.Result; the run loop merges deltas
// after the whole tool batch has finished, so a write never becomes visible
// to tools running in the same batch.
type ContextVarsTool struct {
	name        string
	description string
}

// NewContextVarsTool creates a new context variable management tool.
//
// This tool provides operations for:
//   - Reading a single variable (get)
//   - Staging a variable update (set)
//   - Listing the variable keys visible to this call (list)
//
// Returns a fully initialized ContextVarsTool that implements the Tool interface.
func NewContextVarsTool() *ContextVarsTool {
	return &ContextVarsTool{
		name: "context_vars",
		description: "Manages the conversation's context variables. " +
			"Supports operations: get, set, list.",
	}
}

// Name returns the tool identifier.
func (t *ContextVarsTool) Name() string {
	return t.name
}

// Description returns the tool description.
func (t *ContextVarsTool) Description() string {
	return t.description
}

// Parameters returns the JSON schema for tool parameters.
func (t *ContextVarsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        []string{"get", "set", "list"},
				"description": "The context variable operation to perform",
			},
			"key": map[string]any{
				"type":        "string",
				"description": "Variable key for get/set operations",
			},
			"value": map[string]any{
				"description": "Value for set operations (any type)",
			},
		},
		"required": []string{"operation"},
	}
}

// UsesContextVars reports that the tool reads the context variable snapshot.
func (t *ContextVarsTool) UsesContextVars() bool { return true }

// ProducesHandoff reports that the tool never requests a handoff.
func (t *ContextVarsTool) ProducesHandoff() bool { return false }

// Call implements the Tool interface with structured arguments.
func (t *ContextVarsTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return nil, NewError(t.name, "operation parameter is required", CodeValidation)
	}

	switch operation {
	case "get":
		return t.handleGet(args, toolCtx)
	case "set":
		return t.handleSet(args, toolCtx)
	case "list":
		return t.handleList(toolCtx)
	default:
		return nil, NewError(t.name, fmt.Sprintf("unknown operation: %s", operation), CodeValidation)
	}
}

// handleGet retrieves a value from the context variable snapshot.
func (t *ContextVarsTool) handleGet(args map[string]any, toolCtx *core.ToolContext) (any, error) {
	key, ok := args["key"].(string)
	if !ok {
		return nil, NewError(t.name, "key parameter is required for get operation", CodeValidation)
	}

	value, exists := toolCtx.Var(key)
	if !exists {
		return map[string]any{
			"key":    key,
			"exists": false,
			"value":  nil,
		}, nil
	}

	return map[string]any{
		"key":    key,
		"exists": true,
		"value":  value,
	}, nil
}

// handleSet stages a context variable update as a delta.
func (t *ContextVarsTool) handleSet(args map[string]any, toolCtx *core.ToolContext) (any, error) {
	key, ok := args["key"].(string)
	if !ok {
		return nil, NewError(t.name, "key parameter is required for set operation", CodeValidation)
	}

	value := args["value"] // Can be any type

	return core.Result{
		Value:       fmt.Sprintf("context variable %q staged for update", key),
		ContextVars: core.ContextVars{key: value},
	}, nil
}

// handleList returns the variable keys visible to this call.
func (t *ContextVarsTool) handleList(toolCtx *core.ToolContext) (any, error) {
	keys := toolCtx.Vars().Keys()

	return map[string]any{
		"keys":  keys,
		"count": len(keys),
	}, nil
}
