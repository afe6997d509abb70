package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryEventualSuccess(t *testing.T) {
	p := NewRetryPolicy().WithMaxAttempts(3).WithBaseDelay(time.Millisecond)

	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &ExternalServiceError{Service: "generation", Err: errors.New("throttled")}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	p := NewRetryPolicy().WithMaxAttempts(2).WithBaseDelay(time.Millisecond)

	attempts := 0
	callErr := &ExternalServiceError{Service: "retrieval", Err: errors.New("down")}
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return callErr
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)

	var ese *ExternalServiceError
	assert.ErrorAs(t, err, &ese)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	p := NewRetryPolicy().WithMaxAttempts(5).WithBaseDelay(time.Millisecond)

	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return &ValidationError{Field: "phone_number", Message: "bad"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryBoundsEachAttemptWithDeadline(t *testing.T) {
	p := NewRetryPolicy().WithMaxAttempts(1).WithCallTimeout(5 * time.Millisecond)

	err := p.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return &ExternalServiceError{Service: "generation", Err: ctx.Err()}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	p := NewRetryPolicy().WithMaxAttempts(5).WithBaseDelay(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := p.Do(ctx, func(ctx context.Context) error {
		attempts++
		return &ExternalServiceError{Service: "generation", Err: errors.New("slow")}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&ExternalServiceError{Service: "x", Err: errors.New("boom")}))
	assert.False(t, IsRetryable(&ValidationError{Field: "email"}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
