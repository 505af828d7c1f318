package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker wraps a Completer in a circuit breaker. It never retries; it only
// rejects requests while the backend keeps failing.
type Breaker struct {
	next Completer
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next, opening after failures consecutive errors and
// staying open for cooldown
func NewBreaker(next Completer, failures uint32, cooldown time.Duration, logger *zap.Logger) *Breaker {
	if failures == 0 {
		failures = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A canceled request says nothing about the backend's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Chat circuit breaker state changed",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Complete forwards to the wrapped backend unless the breaker is open
func (b *Breaker) Complete(ctx context.Context, messages []Message) (string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, messages)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	return result.(string), nil
}

// Name returns the wrapped backend name
func (b *Breaker) Name() string {
	return fmt.Sprintf("%s (breaker)", b.next.Name())
}

// State returns the breaker state: "closed", "half-open" or "open"
func (b *Breaker) State() string {
	return b.cb.State().String()
}
