package core

import (
	"context"

	"github.com/hupe1980/agentswarm/logging"
)

// ToolContext provides a constrained surface for tool implementations invoked
// during a run. It carries the run's cancellation context, call identity for
// correlation, and a snapshot of the context variables taken when the batch
// started.
//
// The snapshot is isolated: concurrent calls of the same batch never observe
// each other's changes, and writes to the snapshot never reach the run.
// Tools contribute changes by returning a Result carrying a delta.
type ToolContext struct {
	ctx       context.Context
	callID    string
	toolName  string
	agentName string
	vars      ContextVars

	*loggerAdapter
}

// NewToolContext constructs a tool context for a single invocation. vars may
// be nil for tools that do not declare context variable access.
func NewToolContext(
	ctx context.Context,
	callID, toolName, agentName string,
	vars ContextVars,
	logger logging.Logger,
) *ToolContext {
	return &ToolContext{
		ctx:           ctx,
		callID:        callID,
		toolName:      toolName,
		agentName:     agentName,
		vars:          vars,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Context returns the context associated with the tool invocation. Tools
// performing I/O should pass it on so cancellation propagates.
func (tc *ToolContext) Context() context.Context {
	if tc.ctx == nil {
		return context.Background()
	}
	return tc.ctx
}

// CallID returns the tool call ID associated with the invocation.
func (tc *ToolContext) CallID() string { return tc.callID }

// ToolName returns the invoked tool's name.
func (tc *ToolContext) ToolName() string { return tc.toolName }

// AgentName returns the name of the agent that issued the call.
func (tc *ToolContext) AgentName() string { return tc.agentName }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// Vars returns the context variable snapshot. It is the invocation's private
// copy; mutations affect neither the run nor sibling calls.
func (tc *ToolContext) Vars() ContextVars { return tc.vars }

// Var returns a single context variable from the snapshot.
func (tc *ToolContext) Var(key string) (any, bool) {
	if tc.vars == nil {
		return nil, false
	}
	return tc.vars.Get(key)
}
