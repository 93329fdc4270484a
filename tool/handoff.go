package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentswarm/core"
)

// HandoffOptions configures a handoff tool created by NewHandoff.
//
// Use functional options with NewHandoff to override defaults.
type HandoffOptions struct {
	// Name overrides the generated tool name (transfer_to_<agent>).
	Name string

	// Description overrides the generated tool description.
	Description string
}

// NewHandoff builds a tool that transfers the conversation to target.
//
// The generated tool takes no arguments, is named transfer_to_<agent> (the
// agent name lowercased with spaces replaced by underscores) and returns a
// core.Result whose Agent field requests the handoff. The tool message body
// is a small JSON object naming the new assistant so the transcript records
// who took over.
//
// Example:
//
//	sales, _ := agent.New("Sales Agent")
//	transfer, err := tool.NewHandoff(sales)
//	// transfer.Name() == "transfer_to_sales_agent"
func NewHandoff(target core.Agent, optFns ...func(o *HandoffOptions)) (*Func, error) {
	if target == nil {
		return nil, core.NewConfigurationError("handoff target must not be nil")
	}

	desc := fmt.Sprintf("Transfer the conversation to %s.", target.Name())
	if d := target.Description(); d != "" {
		desc += " " + d
	}

	opts := HandoffOptions{
		Name:        "transfer_to_" + sanitizeToolName(target.Name()),
		Description: desc,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return New(
		opts.Name,
		opts.Description,
		nil,
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return core.Result{
				Value: fmt.Sprintf(`{"assistant": %q}`, target.Name()),
				Agent: target,
			}, nil
		},
		func(o *Options) { o.ProducesHandoff = true },
	)
}

// sanitizeToolName lowercases the agent name and keeps only characters that
// are valid in a function call name.
func sanitizeToolName(name string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	return b.String()
}
