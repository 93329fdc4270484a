// Package agent contains the first-class agent implementation and supporting
// utilities for building multi-agent swarms. The package focuses on two
// concerns:
//
//  1. The immutable Agent value bundling model, instructions and tools
//  2. Instruction resolution (static text, dynamic providers, templates)
//
// Design principles:
//   - Immutability – agents never change after construction and may be shared
//     by any number of concurrent runs
//   - Explicit wiring – handoff targets are declared per agent, never pulled
//     from a global registry
//   - Fail fast – configuration mistakes surface as *core.ConfigurationError
//     from New, not mid-run
//
// Execution Model:
//   - The run loop in the swarm package drives agents; an Agent itself never
//     talks to a model or executes a tool
//   - Instructions are resolved fresh against the run's context variables on
//     every model call, so prompt text can follow state updated by tools
//
// The package intentionally keeps model specifics and the run loop in their
// respective packages to avoid cyclic deps.
package agent
