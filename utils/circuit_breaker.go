package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned when the breaker refuses a call outright.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards a flaky downstream (the realtime broker). After too
// many consecutive failures it opens and fails fast; after a cool-down it
// lets a probe through and closes again on success.
type CircuitBreaker struct {
	name        string
	maxFailures uint32
	cooldown    time.Duration

	mu            sync.Mutex
	state         breakerState
	failures      uint32
	lastFailure   time.Time
	probeInFlight bool
}

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:        name,
		maxFailures: 5,
		cooldown:    30 * time.Second,
	}
}

// Execute runs fn unless the breaker is open. Context cancellation counts
// as a caller problem, not a downstream failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cb.allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
		cb.record(true)
		return err
	}
	cb.record(err == nil)
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case breakerClosed:
		return nil
	case breakerOpen:
		if time.Since(cb.lastFailure) < cb.cooldown {
			return ErrBreakerOpen
		}
		cb.state = breakerHalfOpen
		cb.probeInFlight = true
		return nil
	default: // half-open
		if cb.probeInFlight {
			return ErrBreakerOpen
		}
		cb.probeInFlight = true
		return nil
	}
}

func (cb *CircuitBreaker) record(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probeInFlight = false
	if success {
		cb.state = breakerClosed
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailure = time.Now()
	if cb.state == breakerHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = breakerOpen
	}
}

// State reports the breaker state as a string, for health endpoints.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
