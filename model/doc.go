// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside agentswarm.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition, ToolCallChunk)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (Mock)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (agents, the run loop) remain decoupled from
// vendor SDKs. WithRetry decorates any Model with transport-level retries.
package model
