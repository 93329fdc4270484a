package swarm

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/retry"
	"github.com/hupe1980/agentswarm/tool"
)

// executor runs one batch of tool calls (all calls issued by a single
// assistant message) and normalizes the heterogeneous return shapes into
// core.ToolResult values.
//
// Guarantees:
//   - Exactly one ToolResult per ToolCall, in call order
//   - Snapshot isolation: concurrent calls never observe each other's deltas
//   - A failing, panicking or unknown tool yields an error result, never an
//     aborted batch
//   - On cancellation, in-flight calls are awaited up to the grace period,
//     then recorded as cancelled results
type executor struct {
	logger      logging.Logger
	hooks       Hooks
	maxParallel int
	grace       time.Duration
	retryCfg    retry.Config
}

type indexedResult struct {
	index  int
	result core.ToolResult
}

// execute dispatches the batch serially or concurrently depending on the
// agent's parallel flag and returns the results in call order.
func (e *executor) execute(ctx context.Context, agent core.Agent, calls []core.ToolCall, vars core.ContextVars) []core.ToolResult {
	n := len(calls)
	if n == 0 {
		return nil
	}

	registry := toolRegistry(agent)

	maxPar := 1
	if agent.ParallelToolCalls() {
		maxPar = n
		if e.maxParallel > 0 && e.maxParallel < maxPar {
			maxPar = e.maxParallel
		}
	}

	start := time.Now()
	results := e.dispatch(ctx, agent, registry, calls, vars, maxPar)

	e.logger.Debug(
		"tool.batch.complete",
		"agent", agent.Name(),
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return results
}

// dispatch starts the calls bounded by maxPar and collects their results.
// Dispatch order is call order; with maxPar 1 the calls run strictly
// sequentially. The results slice is indexed by call order regardless of
// completion order.
func (e *executor) dispatch(
	ctx context.Context,
	agent core.Agent,
	registry map[string]core.Tool,
	calls []core.ToolCall,
	vars core.ContextVars,
	maxPar int,
) []core.ToolResult {
	n := len(calls)

	// Buffered to n so abandoned calls can still deliver without a reader.
	resCh := make(chan indexedResult, n)
	sem := make(chan struct{}, maxPar)

	go func() {
		for i := range calls {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				resCh <- indexedResult{i, e.cancelledResult(calls[i], ctx.Err())}
				continue
			}

			go func(idx int, call core.ToolCall) {
				defer func() { <-sem }()
				resCh <- indexedResult{idx, e.invoke(ctx, agent, registry, call, vars)}
			}(i, calls[i])
		}
	}()

	results := make([]core.ToolResult, n)
	have := make([]bool, n)
	received := 0

	done := ctx.Done()
	var grace <-chan time.Time

	for received < n {
		select {
		case r := <-resCh:
			results[r.index] = r.result
			have[r.index] = true
			received++
		case <-done:
			// Arm the grace timer once; in-flight calls may still finish.
			done = nil
			timer := time.NewTimer(e.grace)
			defer timer.Stop()
			grace = timer.C
		case <-grace:
			for i, call := range calls {
				if !have[i] {
					results[i] = e.cancelledResult(call, ctx.Err())
				}
			}

			e.logger.Warn(
				"tool.batch.abandoned",
				"agent", agent.Name(),
				"pending", n-received,
				"grace_ms", e.grace.Milliseconds(),
			)

			return results
		}
	}

	return results
}

// invoke runs a single tool call end to end: lookup, argument decoding,
// snapshot creation, execution and result normalization.
func (e *executor) invoke(
	ctx context.Context,
	agent core.Agent,
	registry map[string]core.Tool,
	call core.ToolCall,
	vars core.ContextVars,
) core.ToolResult {
	impl, ok := registry[call.Name]
	if !ok {
		e.logger.Warn("tool.unknown", "agent", agent.Name(), "tool", call.Name, "call_id", call.ID)

		toolErr := tool.NewError(
			call.Name,
			fmt.Sprintf("tool %q is not available to agent %s", call.Name, agent.Name()),
			tool.CodeUnknownTool,
		)

		return core.ToolResult{CallID: call.ID, ToolName: call.Name, Content: toolErr.Error(), Err: toolErr}
	}

	args, err := decodeArguments(call.Arguments)
	if err != nil {
		e.logger.Warn("tool.arguments.invalid", "agent", agent.Name(), "tool", call.Name, "call_id", call.ID, "error", err.Error())

		toolErr := tool.NewError(
			call.Name,
			fmt.Sprintf("invalid argument payload: %v", err),
			tool.CodeValidation,
		)

		return core.ToolResult{CallID: call.ID, ToolName: call.Name, Content: toolErr.Error(), Err: toolErr}
	}

	// Tools that do not declare context variable access get no snapshot.
	var snapshot core.ContextVars
	if impl.UsesContextVars() {
		snapshot = vars.Clone()
	}

	toolCtx := core.NewToolContext(ctx, call.ID, call.Name, agent.Name(), snapshot, e.logger)

	e.hooks.beforeToolCall(agent, call)

	raw, callErr := e.call(toolCtx, impl, args)
	result := e.normalize(agent, impl, call, raw, callErr)

	e.hooks.afterToolCall(agent, result)

	return result
}

// call executes the tool under the configured retry policy with panic
// recovery. Only transport-class errors are retried (retry.IsRetryable);
// business errors surface immediately.
func (e *executor) call(toolCtx *core.ToolContext, impl core.Tool, args map[string]any) (any, error) {
	var raw any

	err := retry.Do(toolCtx.Context(), e.retryCfg, func(context.Context) error {
		var callErr error

		func() {
			defer func() {
				if r := recover(); r != nil {
					callErr = tool.NewError(impl.Name(), fmt.Sprintf("panic: %v", r), tool.CodeExecution)

					e.logger.Error(
						"tool.call.panic",
						"tool", impl.Name(),
						"call_id", toolCtx.CallID(),
						"recover", fmt.Sprintf("%v", r),
						"stack", string(debug.Stack()),
					)
				}
			}()

			raw, callErr = impl.Call(toolCtx, args)
		}()

		return callErr
	})

	return raw, err
}

// normalize converts the raw tool return value into the uniform ToolResult
// shape. Accepted shapes: string, core.Result (by value or pointer), a bare
// core.Agent (pure handoff), fmt.Stringer, error and any JSON serializable
// value. Errors never abort the batch; their text becomes the tool message.
func (e *executor) normalize(agent core.Agent, impl core.Tool, call core.ToolCall, raw any, err error) core.ToolResult {
	result := core.ToolResult{CallID: call.ID, ToolName: call.Name}

	if err != nil {
		result.Err = err
		result.Content = err.Error()

		return result
	}

	switch v := raw.(type) {
	case nil:
	case string:
		result.Content = v
	case core.Result:
		e.applyResult(agent, impl, &result, v)
	case *core.Result:
		if v != nil {
			e.applyResult(agent, impl, &result, *v)
		}
	case core.Agent:
		e.applyResult(agent, impl, &result, core.Result{
			Value: fmt.Sprintf(`{"assistant": %q}`, v.Name()),
			Agent: v,
		})
	case error:
		result.Content = v.Error()
	case fmt.Stringer:
		result.Content = v.String()
	default:
		data, mErr := json.Marshal(v)
		if mErr != nil {
			result.Content = fmt.Sprintf("%v", v)
		} else {
			result.Content = string(data)
		}
	}

	return result
}

// applyResult copies a core.Result into the normalized ToolResult, honoring
// the handoff only when the tool declares the capability.
func (e *executor) applyResult(agent core.Agent, impl core.Tool, out *core.ToolResult, r core.Result) {
	out.Content = r.Value

	if len(r.ContextVars) > 0 {
		out.ContextDelta = r.ContextVars
	}

	if r.Agent != nil {
		if impl.ProducesHandoff() {
			out.Handoff = r.Agent
		} else {
			e.logger.Warn(
				"tool.handoff.ignored",
				"agent", agent.Name(),
				"tool", impl.Name(),
				"target", r.Agent.Name(),
			)
		}
	}
}

func (e *executor) cancelledResult(call core.ToolCall, cause error) core.ToolResult {
	toolErr := &tool.Error{
		Tool:    call.Name,
		Message: fmt.Sprintf("cancelled before completion: %v", cause),
		Code:    tool.CodeCancelled,
		Details: cause,
	}

	return core.ToolResult{CallID: call.ID, ToolName: call.Name, Content: toolErr.Error(), Err: toolErr}
}

// toolRegistry indexes the agent's tools by name for call routing.
func toolRegistry(agent core.Agent) map[string]core.Tool {
	tools := agent.Tools()

	registry := make(map[string]core.Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}

	return registry
}

// decodeArguments parses the raw JSON argument payload of a tool call. An
// empty payload decodes to an empty argument map.
func decodeArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}

	if args == nil {
		args = map[string]any{}
	}

	return args, nil
}
