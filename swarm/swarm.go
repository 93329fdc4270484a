package swarm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/retry"
)

const (
	// DefaultMaxHandoffs bounds agent switches within one run.
	DefaultMaxHandoffs = 10

	// DefaultCancelGrace is how long a cancelled run waits for in-flight
	// tool calls before recording them as cancelled.
	DefaultCancelGrace = 5 * time.Second

	// streamBufferSize is the chunk channel capacity of streaming runs.
	streamBufferSize = 64
)

// Options configures a Swarm instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Logger receives run lifecycle events. Defaults to logging.NoOpLogger.
	Logger logging.Logger

	// MaxHandoffs bounds the number of agent switches within one run.
	// Exceeding it terminates the run with *core.HandoffLoopError, most
	// likely caused by two agents transferring to each other without making
	// progress. Zero or negative selects DefaultMaxHandoffs.
	MaxHandoffs int

	// MaxParallelTools caps concurrent tool invocations within one batch.
	// Zero means the batch size (all calls of the batch at once).
	MaxParallelTools int

	// CancelGrace bounds how long a cancelled run waits for in-flight tool
	// calls before recording them as cancelled results. Zero or negative
	// selects DefaultCancelGrace.
	CancelGrace time.Duration

	// ToolRetry is the retry policy applied around every tool invocation.
	// The default (MaxAttempts 1) disables retries. Only transport-class
	// errors are ever retried (retry.IsRetryable); tool business errors
	// surface immediately.
	ToolRetry retry.Config

	// Hooks observe run lifecycle points. See Hooks.
	Hooks Hooks
}

// RunOptions configures a single run.
type RunOptions struct {
	// MaxTurns bounds the number of model calls within this run. When the
	// budget is exhausted the run terminates with *core.MaxTurnsError
	// alongside the partial result. Zero or negative means unbounded.
	MaxTurns int

	// ModelOverride replaces the active agent's model identifier for every
	// request of this run. Empty uses each agent's own model.
	ModelOverride string

	// ExecuteTools controls whether requested tool calls are executed. When
	// false the run returns right after the first tool call bearing
	// assistant message, leaving execution to the caller. Defaults to true.
	ExecuteTools bool
}

// Swarm is the orchestration run loop. It drives an active agent through
// model-call-then-tool-execution turns until the model answers without tool
// calls or a budget terminates the run.
//
// Responsibilities:
//   - Resolve the active agent's instructions against the current context
//     variables before every model call
//   - Execute requested tool batches with snapshot isolation and merge the
//     resulting deltas deterministically (last in call order wins)
//   - Swap the active agent when a tool result elects a handoff target,
//     bounded by the handoff budget
//   - Assemble blocking results and streaming chunk sequences from one shared
//     code path, so streaming never changes semantics
//
// Concurrency:
//
//	A Swarm holds no per-run state and is safe for concurrent use; any number
//	of runs may execute against the same instance. Each run owns its context
//	variables exclusively for its duration.
type Swarm struct {
	model       model.Model
	logger      logging.Logger
	maxHandoffs int
	hooks       Hooks
	executor    *executor
}

// New creates a Swarm bound to the given model.
func New(m model.Model, optFns ...func(o *Options)) (*Swarm, error) {
	if m == nil {
		return nil, core.NewConfigurationError("swarm: model must not be nil")
	}

	opts := Options{
		Logger:      logging.NoOpLogger{},
		MaxHandoffs: DefaultMaxHandoffs,
		CancelGrace: DefaultCancelGrace,
		ToolRetry:   retry.Config{MaxAttempts: 1},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.MaxHandoffs <= 0 {
		opts.MaxHandoffs = DefaultMaxHandoffs
	}

	if opts.CancelGrace <= 0 {
		opts.CancelGrace = DefaultCancelGrace
	}

	return &Swarm{
		model:       m,
		logger:      opts.Logger,
		maxHandoffs: opts.MaxHandoffs,
		hooks:       opts.Hooks,
		executor: &executor{
			logger:      opts.Logger,
			hooks:       opts.Hooks,
			maxParallel: opts.MaxParallelTools,
			grace:       opts.CancelGrace,
			retryCfg:    opts.ToolRetry,
		},
	}, nil
}

// Run executes a blocking run and returns the materialized result.
//
// The result is never nil: on failure it carries the messages produced before
// the failure, the agent in control at that point and the merged context
// variables, alongside the typed error (*core.ProviderError,
// *core.HandoffLoopError, *core.MaxTurnsError or a context error).
func (s *Swarm) Run(
	ctx context.Context,
	agent core.Agent,
	messages []core.Message,
	vars core.ContextVars,
	optFns ...func(o *RunOptions),
) (*core.RunResult, error) {
	return s.run(ctx, agent, messages, vars, runOptions(optFns), nil)
}

// RunStream executes a streaming run. Content and tool call fragments are
// delivered as chunks while the model produces them; tool execution, merging
// and handoffs behave exactly as in Run.
//
// The chunk channel is terminated by exactly one core.Final carrying the same
// result a blocking run would have produced, also on failure (with the
// partial result). The error channel (capacity 1) delivers the terminal
// error, if any, and is closed together with the chunk channel.
func (s *Swarm) RunStream(
	ctx context.Context,
	agent core.Agent,
	messages []core.Message,
	vars core.ContextVars,
	optFns ...func(o *RunOptions),
) (<-chan core.StreamChunk, <-chan error) {
	chunks := make(chan core.StreamChunk, streamBufferSize)
	errCh := make(chan error, 1)

	emit := func(chunk core.StreamChunk) {
		select {
		case chunks <- chunk:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(errCh)
		defer close(chunks)

		result, err := s.run(ctx, agent, messages, vars, runOptions(optFns), emit)

		// Exactly one Final terminates every stream, also on failure.
		select {
		case chunks <- core.Final{Result: *result}:
		default:
			select {
			case chunks <- core.Final{Result: *result}:
			case <-ctx.Done():
			}
		}

		if err != nil {
			errCh <- err
		}
	}()

	return chunks, errCh
}

func runOptions(optFns []func(o *RunOptions)) RunOptions {
	opts := RunOptions{ExecuteTools: true}

	for _, fn := range optFns {
		fn(&opts)
	}

	return opts
}

// emitFn forwards a delta chunk to a stream consumer. Nil on blocking runs.
type emitFn func(chunk core.StreamChunk)

// run is the turn state machine shared by Run and RunStream.
func (s *Swarm) run(
	ctx context.Context,
	agent core.Agent,
	messages []core.Message,
	vars core.ContextVars,
	opts RunOptions,
	emit emitFn,
) (*core.RunResult, error) {
	if vars == nil {
		vars = core.ContextVars{}
	}

	// The run owns its state exclusively; caller supplied values stay intact.
	history := core.CloneMessages(messages)
	initLen := len(history)
	merged := vars.Clone()
	active := agent

	result := func() *core.RunResult {
		return &core.RunResult{
			Messages:    history[initLen:],
			Agent:       active,
			ContextVars: merged,
		}
	}

	if active == nil {
		return result(), core.NewConfigurationError("run: agent must not be nil")
	}

	runID := uuid.NewString()
	start := time.Now()

	s.logger.Info(
		"run.start",
		"run_id", runID,
		"agent", active.Name(),
		"messages", initLen,
		"stream", emit != nil,
	)

	chain := []string{active.Name()}
	turns := 0
	handoffs := 0

	for {
		if opts.MaxTurns > 0 && turns >= opts.MaxTurns {
			s.logger.Warn("run.max_turns", "run_id", runID, "agent", active.Name(), "limit", opts.MaxTurns)

			return result(), &core.MaxTurnsError{Limit: opts.MaxTurns}
		}

		turns++

		assistantMsg, err := s.callModel(ctx, runID, active, history, merged, opts, emit)
		if err != nil {
			return result(), err
		}

		history = append(history, assistantMsg)

		if !assistantMsg.HasToolCalls() {
			s.logger.Info(
				"run.complete",
				"run_id", runID,
				"agent", active.Name(),
				"turns", turns,
				"new_messages", len(history)-initLen,
				"duration_ms", time.Since(start).Milliseconds(),
			)

			return result(), nil
		}

		if !opts.ExecuteTools {
			s.logger.Debug("run.tools.skipped", "run_id", runID, "agent", active.Name(), "calls", len(assistantMsg.ToolCalls))

			return result(), nil
		}

		results := s.executor.execute(ctx, active, assistantMsg.ToolCalls, merged)

		// Merge in call order: tool messages keep call order, conflicting
		// delta keys resolve to the later call, the last elected handoff
		// wins.
		delta := core.ContextVars{}
		var next core.Agent
		elected := 0

		for _, r := range results {
			history = append(history, r.Message())

			for k, v := range r.ContextDelta {
				delta[k] = v
			}

			if r.Handoff != nil {
				elected++
				next = r.Handoff
			}
		}

		if len(delta) > 0 {
			merged = merged.Merge(delta)
			s.hooks.onVarsMerge(delta, merged)
			s.logger.Debug("run.vars.merged", "run_id", runID, "keys", len(delta))
		}

		if elected > 1 {
			s.logger.Warn(
				"run.handoff.multiple",
				"run_id", runID,
				"agent", active.Name(),
				"requested", elected,
				"elected", next.Name(),
			)
		}

		if next != nil {
			handoffs++
			chain = append(chain, next.Name())

			if handoffs > s.maxHandoffs {
				s.logger.Error(
					"run.handoff.loop",
					"run_id", runID,
					"limit", s.maxHandoffs,
					"chain", strings.Join(chain, " -> "),
				)

				return result(), &core.HandoffLoopError{Limit: s.maxHandoffs, Chain: chain}
			}

			s.hooks.onHandoff(active, next)
			s.logger.Info("run.handoff", "run_id", runID, "from", active.Name(), "to", next.Name())

			active = next
		}

		if ctx.Err() != nil {
			s.logger.Warn("run.cancelled", "run_id", runID, "agent", active.Name(), "turns", turns)

			return result(), ctx.Err()
		}
	}
}

// callModel resolves instructions, issues one model call and materializes the
// assistant message. On streaming runs the partial responses are forwarded as
// delta chunks before the final arrives.
func (s *Swarm) callModel(
	ctx context.Context,
	runID string,
	active core.Agent,
	history []core.Message,
	vars core.ContextVars,
	opts RunOptions,
	emit emitFn,
) (core.Message, error) {
	instructions, err := active.Instructions(vars)
	if err != nil {
		s.logger.Error("run.instructions.error", "run_id", runID, "agent", active.Name(), "error", err.Error())

		return core.Message{}, err
	}

	modelID := active.Model()
	if opts.ModelOverride != "" {
		modelID = opts.ModelOverride
	}

	req := model.Request{
		Model:             modelID,
		Instructions:      instructions,
		Messages:          history,
		Tools:             model.ToolDefinitionsFor(active),
		ParallelToolCalls: active.ParallelToolCalls(),
		Stream:            emit != nil,
	}

	s.hooks.beforeModelCall(active, &req)

	s.logger.Debug("model.call.start", "run_id", runID, "agent", active.Name(), "model", modelID, "messages", len(history))
	start := time.Now()

	respCh, errCh := s.model.Generate(ctx, req)

	var final *model.Response
	var genErr error

	for respCh != nil || errCh != nil {
		select {
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}

			if resp.Partial {
				if emit != nil {
					if resp.Delta != "" {
						emit(core.ContentDelta{Sender: active.Name(), Delta: resp.Delta})
					}

					for _, chunk := range resp.ToolCallChunks {
						emit(core.ToolCallDelta{
							Sender:    active.Name(),
							Index:     chunk.Index,
							ID:        chunk.ID,
							Name:      chunk.Name,
							Arguments: chunk.Arguments,
						})
					}
				}

				continue
			}

			f := resp
			final = &f
		case e, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}

			if e != nil && genErr == nil {
				genErr = e
			}
		case <-ctx.Done():
			s.hooks.afterModelCall(active, nil, ctx.Err())
			s.logger.Warn("model.call.cancelled", "run_id", runID, "agent", active.Name(), "model", modelID)

			return core.Message{}, ctx.Err()
		}
	}

	s.hooks.afterModelCall(active, final, genErr)

	if genErr != nil {
		if errors.Is(genErr, context.Canceled) || errors.Is(genErr, context.DeadlineExceeded) {
			s.logger.Warn("model.call.cancelled", "run_id", runID, "agent", active.Name(), "model", modelID)

			return core.Message{}, genErr
		}

		s.logger.Error("model.call.error", "run_id", runID, "agent", active.Name(), "model", modelID, "error", genErr.Error())

		return core.Message{}, &core.ProviderError{Model: modelID, Err: genErr}
	}

	if final == nil {
		err := errors.New("model stream ended without a final response")
		s.logger.Error("model.call.error", "run_id", runID, "agent", active.Name(), "model", modelID, "error", err.Error())

		return core.Message{}, &core.ProviderError{Model: modelID, Err: err}
	}

	s.logger.Info(
		"model.call.complete",
		"run_id", runID,
		"agent", active.Name(),
		"model", modelID,
		"duration_ms", time.Since(start).Milliseconds(),
		"tool_calls", len(final.ToolCalls),
		"finish_reason", final.FinishReason,
	)

	return core.NewAssistantMessage(active.Name(), final.Content, final.ToolCalls...), nil
}

var _ = retry.DefaultConfig // referenced by Options documentation examples
