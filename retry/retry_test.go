package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestIsRetryableProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("nil error is not retryable", prop.ForAll(
		func(_ int) bool {
			return !IsRetryable(nil)
		},
		gen.Int(),
	))

	properties.Property("context.Canceled is not retryable", prop.ForAll(
		func(_ int) bool {
			return !IsRetryable(context.Canceled)
		},
		gen.Int(),
	))

	properties.Property("context.DeadlineExceeded is retryable", prop.ForAll(
		func(_ int) bool {
			return IsRetryable(context.DeadlineExceeded)
		},
		gen.Int(),
	))

	properties.Property("HTTP 503 is retryable", prop.ForAll(
		func(msg string) bool {
			err := &HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: msg}
			return IsRetryable(err)
		},
		gen.AlphaString(),
	))

	properties.Property("HTTP 429 is retryable", prop.ForAll(
		func(msg string) bool {
			err := &HTTPStatusError{StatusCode: http.StatusTooManyRequests, Message: msg}
			return IsRetryable(err)
		},
		gen.AlphaString(),
	))

	properties.Property("HTTP 400 is not retryable", prop.ForAll(
		func(msg string) bool {
			err := &HTTPStatusError{StatusCode: http.StatusBadRequest, Message: msg}
			return !IsRetryable(err)
		},
		gen.AlphaString(),
	))

	properties.Property("HTTP 404 is not retryable", prop.ForAll(
		func(msg string) bool {
			err := &HTTPStatusError{StatusCode: http.StatusNotFound, Message: msg}
			return !IsRetryable(err)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestRetryDoProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("successful operation returns nil", prop.ForAll(
		func(maxAttempts int) bool {
			cfg := Config{
				MaxAttempts:       maxAttempts,
				InitialBackoff:    time.Millisecond,
				MaxBackoff:        10 * time.Millisecond,
				BackoffMultiplier: 2.0,
			}

			err := Do(context.Background(), cfg, func(_ context.Context) error {
				return nil
			})

			return err == nil
		},
		gen.IntRange(1, 10),
	))

	properties.Property("non-retryable error returns immediately", prop.ForAll(
		func(maxAttempts int) bool {
			cfg := Config{
				MaxAttempts:       maxAttempts,
				InitialBackoff:    time.Millisecond,
				MaxBackoff:        10 * time.Millisecond,
				BackoffMultiplier: 2.0,
			}

			attempts := 0
			nonRetryableErr := errors.New("non-retryable error")

			err := Do(context.Background(), cfg, func(_ context.Context) error {
				attempts++
				return nonRetryableErr
			})

			// Should only attempt once for non-retryable errors
			return attempts == 1 && errors.Is(err, nonRetryableErr)
		},
		gen.IntRange(2, 10),
	))

	properties.Property("retryable error exhausts all attempts", prop.ForAll(
		func(maxAttempts int) bool {
			cfg := Config{
				MaxAttempts:       maxAttempts,
				InitialBackoff:    time.Millisecond,
				MaxBackoff:        10 * time.Millisecond,
				BackoffMultiplier: 2.0,
			}

			attempts := 0
			retryableErr := &HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}

			err := Do(context.Background(), cfg, func(_ context.Context) error {
				attempts++
				return retryableErr
			})

			var exhausted *ExhaustedError
			return attempts == maxAttempts && errors.As(err, &exhausted)
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}

func TestRetryDoRecovers(t *testing.T) {
	cfg := Config{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	attempts := 0
	err := Do(context.Background(), cfg, func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return &HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryDoContextCancelled(t *testing.T) {
	cfg := Config{
		MaxAttempts:       5,
		InitialBackoff:    time.Hour, // Force the backoff wait to dominate
		MaxBackoff:        time.Hour,
		BackoffMultiplier: 2.0,
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, cfg, func(_ context.Context) error {
		return &HTTPStatusError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExhaustedErrorProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ExhaustedError contains attempt count", prop.ForAll(
		func(attempts int) bool {
			err := &ExhaustedError{
				Attempts:      attempts,
				TotalDuration: time.Second,
				LastError:     errors.New("test error"),
			}

			return err.Attempts == attempts
		},
		gen.IntRange(1, 100),
	))

	properties.Property("ExhaustedError unwraps to last error", prop.ForAll(
		func(msg string) bool {
			lastErr := errors.New(msg)
			err := &ExhaustedError{
				Attempts:      3,
				TotalDuration: time.Second,
				LastError:     lastErr,
			}

			return errors.Is(err, lastErr)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestCalculateBackoffProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("backoff increases with attempts", prop.ForAll(
		func(attempt int) bool {
			cfg := Config{
				InitialBackoff:    100 * time.Millisecond,
				MaxBackoff:        10 * time.Second,
				BackoffMultiplier: 2.0,
				Jitter:            0, // No jitter for deterministic test
			}

			backoff1 := calculateBackoff(cfg, attempt)
			backoff2 := calculateBackoff(cfg, attempt+1)

			// Backoff should increase (or stay at max)
			return backoff2 >= backoff1
		},
		gen.IntRange(1, 10),
	))

	properties.Property("backoff respects max limit", prop.ForAll(
		func(attempt int) bool {
			cfg := Config{
				InitialBackoff:    100 * time.Millisecond,
				MaxBackoff:        time.Second,
				BackoffMultiplier: 2.0,
				Jitter:            0,
			}

			backoff := calculateBackoff(cfg, attempt)
			return backoff <= cfg.MaxBackoff
		},
		gen.IntRange(1, 100),
	))

	properties.Property("jitter keeps backoff within bounds", prop.ForAll(
		func(attempt int) bool {
			cfg := Config{
				InitialBackoff:    100 * time.Millisecond,
				MaxBackoff:        time.Second,
				BackoffMultiplier: 2.0,
				Jitter:            0.1,
			}

			backoff := calculateBackoff(cfg, attempt)
			limit := time.Duration(float64(cfg.MaxBackoff) * (1 + cfg.Jitter))
			return backoff >= 0 && backoff <= limit
		},
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}

// mockTimeoutError implements net.Error for testing.
type mockTimeoutError struct {
	timeout bool
}

func (e *mockTimeoutError) Error() string   { return "mock network error" }
func (e *mockTimeoutError) Timeout() bool   { return e.timeout }
func (e *mockTimeoutError) Temporary() bool { return false } // Deprecated but required by net.Error

// Ensure mockTimeoutError implements net.Error
var _ net.Error = (*mockTimeoutError)(nil)

func TestNetworkErrorRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "timeout error is retryable",
			err:       &mockTimeoutError{timeout: true},
			retryable: true,
		},
		{
			name:      "non-timeout is not retryable",
			err:       &mockTimeoutError{},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}
