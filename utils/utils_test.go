package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 16, "8 bytes hex-encode to 16 characters")
	assert.Equal(t, code, string([]rune(code)), "code is plain ASCII")

	other, err := GenerateCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestCircuitBreaker_ClosedPassesThrough(t *testing.T) {
	cb := NewCircuitBreaker("test")

	err := cb.Execute(context.Background(), func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		err := cb.Execute(context.Background(), func() error { return boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", cb.State())

	// While open, calls fail fast without running fn.
	ran := false
	err := cb.Execute(context.Background(), func() error { ran = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, ran)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < 4; i++ {
		_ = cb.Execute(context.Background(), func() error { return boom })
	}
	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))

	for i := 0; i < 4; i++ {
		_ = cb.Execute(context.Background(), func() error { return boom })
	}
	assert.Equal(t, "closed", cb.State(), "failure streak restarted after a success")
}

func TestCircuitBreaker_ProbeClosesAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.cooldown = 0 // recover immediately for the test
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func() error { return boom })
	}
	require.Equal(t, "open", cb.State())

	// Cooldown elapsed: one probe runs and closes the breaker.
	err := cb.Execute(context.Background(), func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := cb.Execute(ctx, func() error { ran = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
	assert.Equal(t, "closed", cb.State(), "caller cancellation is not a downstream failure")
}
