package engine

import (
	"context"
	"time"
)

// RetryPolicy applies bounded exponential backoff to transient failures and
// caps every attempt with a per-call deadline. One policy instance is shared
// across all external call sites.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	callTimeout time.Duration
	retryable   func(error) bool
}

func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		maxDelay:    10 * time.Second,
		callTimeout: 15 * time.Second,
		retryable:   IsRetryable,
	}
}

func (p *RetryPolicy) WithMaxAttempts(n int) *RetryPolicy {
	if n > 0 {
		p.maxAttempts = n
	}
	return p
}

func (p *RetryPolicy) WithBaseDelay(d time.Duration) *RetryPolicy {
	if d > 0 {
		p.baseDelay = d
	}
	return p
}

func (p *RetryPolicy) WithMaxDelay(d time.Duration) *RetryPolicy {
	if d > 0 {
		p.maxDelay = d
	}
	return p
}

// WithCallTimeout bounds each individual attempt. Zero disables the deadline.
func (p *RetryPolicy) WithCallTimeout(d time.Duration) *RetryPolicy {
	if d >= 0 {
		p.callTimeout = d
	}
	return p
}

func (p *RetryPolicy) WithRetryable(fn func(error) bool) *RetryPolicy {
	if fn != nil {
		p.retryable = fn
	}
	return p
}

// Do runs fn up to maxAttempts times, sleeping between attempts. The last
// error is returned when all attempts fail or the error is not retryable.
func (p *RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.nextDelay(attempt - 1)):
			}
		}
		if err = p.runAttempt(ctx, fn); err == nil {
			return nil
		}
		if !p.retryable(err) {
			return err
		}
	}
	return err
}

func (p *RetryPolicy) runAttempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.callTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()
	return fn(attemptCtx)
}

func (p *RetryPolicy) nextDelay(attempts int) time.Duration {
	delay := p.baseDelay * time.Duration(1<<attempts)
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}
