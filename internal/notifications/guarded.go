package notifications

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	boterrors "github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/safety"
)

// GuardedNotifier stops calling next after repeated delivery failures.
// Rejected alerts fail like any other send and are retried next cycle.
type GuardedNotifier struct {
	next    Notifier
	breaker *safety.CircuitBreaker
}

// NewGuardedNotifier opens after failureThreshold consecutive failures and
// allows a trial send after cooldown
func NewGuardedNotifier(next Notifier, failureThreshold uint32, cooldown time.Duration, logger zerolog.Logger) *GuardedNotifier {
	breaker := safety.NewCircuitBreaker(next.Name(), safety.CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		Timeout:          cooldown,
	})
	log := logger.With().Str("component", "notifier").Str("channel", next.Name()).Logger()
	breaker.SetStateChangeCallback(func(from, to safety.CircuitBreakerState) {
		log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Notifier circuit state changed")
	})

	return &GuardedNotifier{next: next, breaker: breaker}
}

func (g *GuardedNotifier) Name() string {
	return g.next.Name()
}

func (g *GuardedNotifier) SendAlert(ctx context.Context, message string) error {
	err := g.breaker.Call(func() error {
		return g.next.SendAlert(ctx, message)
	})
	if err != nil && boterrors.CategoryOf(err) != boterrors.ErrorCategoryNotification {
		return boterrors.NewNotificationError(g.Name(), "SendAlert", err)
	}
	return err
}

// State reports the breaker state
func (g *GuardedNotifier) State() safety.CircuitBreakerState {
	return g.breaker.GetState()
}
