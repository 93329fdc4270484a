package core

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid agent or tool definition. It is
// raised at construction or registration time, never deferred to run time.
type ConfigurationError struct {
	Reason string
}

// NewConfigurationError creates a ConfigurationError with a formatted reason.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ProviderError wraps a model provider failure that terminated a run. The
// run loop attaches the partial RunResult alongside, so conversation
// progress survives the failure.
type ProviderError struct {
	// Model is the model identifier the failed request targeted.
	Model string
	// Err is the underlying provider error.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (model %s): %v", e.Model, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.Err }

// HandoffLoopError reports that a run exceeded its handoff budget, most
// likely because two agents keep transferring to each other without making
// progress. Chain lists the agent names in handoff order for diagnostics.
type HandoffLoopError struct {
	Limit int
	Chain []string
}

// Error implements the error interface.
func (e *HandoffLoopError) Error() string {
	return fmt.Sprintf("handoff limit of %d exceeded: %s", e.Limit, strings.Join(e.Chain, " -> "))
}

// MaxTurnsError reports that a run hit its turn budget. The run terminates
// gracefully: the partial RunResult carries everything produced so far.
type MaxTurnsError struct {
	Limit int
}

// Error implements the error interface.
func (e *MaxTurnsError) Error() string {
	return fmt.Sprintf("max turns of %d exceeded", e.Limit)
}
