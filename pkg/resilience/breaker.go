// Package resilience wraps outbound provider calls with a circuit
// breaker so a string of failures against one external dependency fails
// fast instead of continuing to hammer it (§5). This is failure
// isolation, not retry: a single Execute call still attempts its
// function exactly once.
package resilience

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// Breaker wraps github.com/sony/gobreaker.CircuitBreaker, the same
// package used elsewhere in the example corpus for isolating external
// LLM/API calls.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// Config tunes the underlying breaker.
type Config struct {
	Name                string
	MaxFailures         uint32        // consecutive failures before opening
	Timeout             time.Duration // how long the breaker stays open
	HalfOpenMaxRequests uint32
}

// DefaultConfig returns reasonable defaults: open after 5 consecutive
// failures, stay open 30s, allow 1 trial request in half-open.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		MaxFailures:         5,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// New builds a Breaker.
func New(cfg Config) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the breaker. If the breaker is open, fn is not
// called and gobreaker.ErrOpenState is returned.
func (b *Breaker) Execute(_ context.Context, fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

// State reports the breaker's current state. The health endpoint does not
// include it.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
