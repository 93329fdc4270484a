// Package core provides the foundational domain types and execution contexts
// used by the orchestration runtime. It defines the core abstractions for:
//
//   - Messages and tool calls (append-only conversation history records)
//   - ContextVars (run-scoped key/value state exchanged as deltas)
//   - Agents and Tools (small interfaces implemented by the agent and tool packages)
//   - ToolContext (scoped, snapshot-isolated tool invocation surface)
//   - RunResult and StreamChunk (blocking and streaming run outcomes)
//   - The error taxonomy shared by all packages
//
// The package intentionally keeps implementation concerns (providers, the run
// loop, concrete agents and tools, persistence) out of scope, exposing small
// interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
