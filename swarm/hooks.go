package swarm

import (
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// Hooks bundles optional observation points the run loop invokes at lifecycle
// boundaries. All fields are optional; nil hooks are skipped. Hooks run
// synchronously on the run goroutine, so they must be fast and must not block.
//
// Typical uses are metrics, auditing and request shaping:
//
//	sw, _ := swarm.New(m, func(o *swarm.Options) {
//	  o.Hooks = swarm.Hooks{
//	    OnHandoff: func(from, to core.Agent) {
//	      log.Printf("handoff %s -> %s", from.Name(), to.Name())
//	    },
//	  }
//	})
type Hooks struct {
	// BeforeModelCall runs before each model request is issued. The request
	// may be modified in place (e.g. to append custom instructions or trim
	// history).
	BeforeModelCall func(agent core.Agent, req *model.Request)

	// AfterModelCall runs once the model call settled. resp is the final
	// response, nil when the call failed; err carries the failure.
	AfterModelCall func(agent core.Agent, resp *model.Response, err error)

	// BeforeToolCall runs before a tool invocation of a batch.
	BeforeToolCall func(agent core.Agent, call core.ToolCall)

	// AfterToolCall runs after a tool invocation produced its normalized
	// result, including error and cancelled results.
	AfterToolCall func(agent core.Agent, result core.ToolResult)

	// OnHandoff runs when a batch elects a new active agent, before the next
	// turn starts under the new agent.
	OnHandoff func(from, to core.Agent)

	// OnVarsMerge runs after a batch's context variable deltas were merged
	// into the run state. delta holds only the changed keys, merged the
	// resulting full state.
	OnVarsMerge func(delta, merged core.ContextVars)
}

func (h Hooks) beforeModelCall(agent core.Agent, req *model.Request) {
	if h.BeforeModelCall != nil {
		h.BeforeModelCall(agent, req)
	}
}

func (h Hooks) afterModelCall(agent core.Agent, resp *model.Response, err error) {
	if h.AfterModelCall != nil {
		h.AfterModelCall(agent, resp, err)
	}
}

func (h Hooks) beforeToolCall(agent core.Agent, call core.ToolCall) {
	if h.BeforeToolCall != nil {
		h.BeforeToolCall(agent, call)
	}
}

func (h Hooks) afterToolCall(agent core.Agent, result core.ToolResult) {
	if h.AfterToolCall != nil {
		h.AfterToolCall(agent, result)
	}
}

func (h Hooks) onHandoff(from, to core.Agent) {
	if h.OnHandoff != nil {
		h.OnHandoff(from, to)
	}
}

func (h Hooks) onVarsMerge(delta, merged core.ContextVars) {
	if h.OnVarsMerge != nil {
		h.OnVarsMerge(delta, merged)
	}
}
