package model

import (
	"context"

	"github.com/hupe1980/agentswarm/retry"
)

// RetryOptions configures the retry decorator.
//
// Use functional options with WithRetry to override defaults.
type RetryOptions struct {
	// Config is the retry policy applied to failed generations.
	Config retry.Config
}

// WithRetry decorates inner so that generations failing with a transport
// class error (see retry.IsRetryable) are retried with backoff.
//
// Only failures occurring before the first chunk was forwarded are retried;
// once a partial response reached the caller the stream cannot be replayed,
// so mid-stream errors pass through unchanged. The run loop sees exhausted
// retries as a single terminal error.
func WithRetry(inner Model, optFns ...func(o *RetryOptions)) Model {
	opts := RetryOptions{
		Config: retry.DefaultConfig(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &retryModel{inner: inner, cfg: opts.Config}
}

type retryModel struct {
	inner Model
	cfg   retry.Config
}

// Info implements Model, delegating to the wrapped implementation.
func (m *retryModel) Info() Info { return m.inner.Info() }

// Generate implements Model.
func (m *retryModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	out := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		var midStreamErr error

		err := retry.Do(ctx, m.cfg, func(ctx context.Context) error {
			respCh, innerErrCh := m.inner.Generate(ctx, req)

			emitted := false
			var streamErr error

			for respCh != nil || innerErrCh != nil {
				select {
				case r, ok := <-respCh:
					if !ok {
						respCh = nil
						continue
					}

					select {
					case out <- r:
						emitted = true
					case <-ctx.Done():
						return ctx.Err()
					}
				case e, ok := <-innerErrCh:
					if !ok {
						innerErrCh = nil
						continue
					}

					if e != nil {
						streamErr = e
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if streamErr != nil {
				if emitted {
					// The stream cannot be replayed once chunks went out.
					midStreamErr = streamErr
					return nil
				}

				return streamErr
			}

			return nil
		})

		switch {
		case err != nil:
			errCh <- err
		case midStreamErr != nil:
			errCh <- midStreamErr
		}
	}()

	return out, errCh
}
