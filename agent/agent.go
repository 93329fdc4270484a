package agent

import (
	"fmt"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
	"github.com/hupe1980/agentswarm/tool"
)

// DefaultModel is the model used when no model is configured on the agent.
const DefaultModel = "gpt-4o"

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Description summarizes what the agent is for. It is embedded in the
	// generated handoff tool descriptions so sibling agents know when to
	// transfer here.
	Description string

	// Model names the model serving this agent, e.g. "gpt-4o". A per-run
	// model override takes precedence over this value.
	Model string

	// Instruction is the system prompt source, static text or a dynamic
	// provider. The resolved text is additionally rendered as a template
	// against the run's context variables.
	Instruction Instruction

	// Tools lists the tools the agent may call. Tool names must be unique
	// across Tools and the generated handoff tools.
	Tools []core.Tool

	// Handoffs lists agents this agent may transfer the conversation to.
	// A transfer_to_<agent> tool is generated for each entry.
	Handoffs []core.Agent

	// ParallelToolCalls advertises to the model that independent tool calls
	// may be issued together in one assistant turn. Defaults to true.
	ParallelToolCalls bool
}

// Agent bundles the identity, model, instructions and tools of one assistant
// persona.
//
// An Agent is immutable after construction and safe for concurrent use; the
// same instance may serve as the active agent of any number of runs and as
// the handoff target of any number of sibling agents.
//
// Example:
//
//	sales, _ := agent.New("Sales Agent", func(o *agent.Options) {
//	  o.Description = "Handles pricing and purchasing questions."
//	})
//
//	triage, err := agent.New("Triage Agent", func(o *agent.Options) {
//	  o.Instruction = agent.NewInstructionFromText("Route the user to the right agent.")
//	  o.Handoffs = []core.Agent{sales}
//	})
type Agent struct {
	name              string
	description       string
	model             string
	instruction       Instruction
	tools             []core.Tool
	parallelToolCalls bool
}

var _ core.Agent = (*Agent)(nil)

// New creates a new agent with sensible defaults.
//
// The agent is initialized with:
//   - The default model (DefaultModel)
//   - A minimal "You are <name>, a helpful AI assistant." instruction
//   - No tools
//   - Parallel tool calls enabled
//
// Configuration mistakes (empty name, nil tools, duplicate tool names) are
// reported as *core.ConfigurationError so they surface before any run starts.
func New(name string, optFns ...func(o *Options)) (*Agent, error) {
	if name == "" {
		return nil, core.NewConfigurationError("agent name must not be empty")
	}

	opts := Options{
		Model:             DefaultModel,
		Instruction:       NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		ParallelToolCalls: true,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Model == "" {
		return nil, core.NewConfigurationError("agent %q: model must not be empty", name)
	}

	tools := make([]core.Tool, 0, len(opts.Tools)+len(opts.Handoffs))
	tools = append(tools, opts.Tools...)

	for _, target := range opts.Handoffs {
		transfer, err := tool.NewHandoff(target)
		if err != nil {
			return nil, core.NewConfigurationError("agent %q: %v", name, err)
		}
		tools = append(tools, transfer)
	}

	seen := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil {
			return nil, core.NewConfigurationError("agent %q: tool must not be nil", name)
		}
		if t.Name() == "" {
			return nil, core.NewConfigurationError("agent %q: tool name must not be empty", name)
		}
		if _, dup := seen[t.Name()]; dup {
			return nil, core.NewConfigurationError("agent %q: duplicate tool name %q", name, t.Name())
		}
		seen[t.Name()] = struct{}{}
	}

	return &Agent{
		name:              name,
		description:       opts.Description,
		model:             opts.Model,
		instruction:       opts.Instruction,
		tools:             tools,
		parallelToolCalls: opts.ParallelToolCalls,
	}, nil
}

// Name returns the agent's display name, used as the sender of its messages.
func (a *Agent) Name() string { return a.name }

// Description returns the short summary shown in handoff tool descriptions.
func (a *Agent) Description() string { return a.description }

// Model returns the name of the model serving this agent.
func (a *Agent) Model() string { return a.model }

// Instructions produces the final instruction string (system prompt) by
// resolving static or dynamic instruction sources.
//
// The resolved text is passed through the template renderer, so placeholders
// like "{{.customer_name}}" pick up context variables regardless of the
// instruction source. Variables written by tools earlier in the run are
// visible to later resolutions.
func (a *Agent) Instructions(vars core.ContextVars) (string, error) {
	text, err := a.instruction.Resolve(vars)
	if err != nil {
		return "", fmt.Errorf("resolve instructions for agent %q: %w", a.name, err)
	}

	rendered, err := util.RenderTemplate(text, vars)
	if err != nil {
		return "", fmt.Errorf("render instructions for agent %q: %w", a.name, err)
	}

	return rendered, nil
}

// Tools returns the agent's tool set, including generated handoff tools.
// The returned slice is a copy; mutating it does not affect the agent.
func (a *Agent) Tools() []core.Tool {
	tools := make([]core.Tool, len(a.tools))
	copy(tools, a.tools)

	return tools
}

// Tool retrieves a specific tool by name.
//
// Returns the tool and true if found, nil and false if not declared.
func (a *Agent) Tool(name string) (core.Tool, bool) {
	for _, t := range a.tools {
		if t.Name() == name {
			return t, true
		}
	}

	return nil, false
}

// ParallelToolCalls reports whether the model may issue independent tool
// calls together in one assistant turn.
func (a *Agent) ParallelToolCalls() bool { return a.parallelToolCalls }
