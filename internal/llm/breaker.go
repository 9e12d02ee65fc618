package llm

import (
	"context"
	"errors"

	"github.com/kidwise/api/internal/apperr"
)

// ErrCircuitOpen is wrapped in a ProviderUnavailable error when the breaker
// rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker is the subset of a circuit breaker the completer needs.
type Breaker interface {
	Allow() bool
	RecordSuccess()
	RecordFailure()
}

type breakerCompleter struct {
	next    Completer
	breaker Breaker
}

// WithBreaker guards next with b. Only ProviderUnavailable failures count
// against the breaker, and not when the caller's context ended first.
func WithBreaker(next Completer, b Breaker) Completer {
	return &breakerCompleter{next: next, breaker: b}
}

func (c *breakerCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if !c.breaker.Allow() {
		return "", apperr.ProviderUnavailable(ErrCircuitOpen)
	}
	text, err := c.next.Complete(ctx, req)
	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case errors.Is(err, apperr.ErrProviderUnavailable) && ctx.Err() == nil:
		c.breaker.RecordFailure()
	}
	return text, err
}
