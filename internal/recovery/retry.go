// Package recovery retries transient failures before they are reported.
package recovery

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/exchange"
	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// RetryConfig defines retry behavior for different error categories.
// Categories missing from MaxRetries are never retried.
type RetryConfig struct {
	MaxRetries map[errors.ErrorCategory]int
	BaseDelay  time.Duration
	Multiplier float64
	MaxDelay   time.Duration
}

// DefaultRetryConfig retries connection problems briefly. Rate limits are left
// for the next cycle.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: map[errors.ErrorCategory]int{
			errors.ErrorCategoryNetwork:   2,
			errors.ErrorCategoryTimeout:   1,
			errors.ErrorCategoryTemporary: 1,
		},
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 2,
		MaxDelay:   5 * time.Second,
	}
}

// Retrier runs an operation again after retryable failures with exponential backoff
type Retrier struct {
	config RetryConfig
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrier(config RetryConfig, logger zerolog.Logger) *Retrier {
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	return &Retrier{
		config: config,
		logger: logger.With().Str("component", "recovery").Logger(),
		sleep:  sleepContext,
	}
}

// Do calls fn until it succeeds, the error is not retryable, the category's
// retry budget is spent, or ctx is done. The last error is returned.
func (r *Retrier) Do(ctx context.Context, component, operation string, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		botErr := errors.CategorizeError(err, component, operation)
		if !botErr.IsRetryable() || attempt >= r.config.MaxRetries[botErr.Category] {
			return err
		}

		delay := r.calculateDelay(attempt)
		r.logger.Debug().
			Err(err).
			Str("operation", operation).
			Str("category", string(botErr.Category)).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying after transient error")

		if serr := r.sleep(ctx, delay); serr != nil {
			return err
		}
	}
}

// calculateDelay returns BaseDelay * Multiplier^attempt capped at MaxDelay
func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay)
	for i := 0; i < attempt; i++ {
		delay *= r.config.Multiplier
	}
	if r.config.MaxDelay > 0 && time.Duration(delay) > r.config.MaxDelay {
		return r.config.MaxDelay
	}
	return time.Duration(delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryingMarketData retries GetKlines on transient failures
type RetryingMarketData struct {
	next    exchange.MarketData
	retrier *Retrier
}

func NewRetryingMarketData(next exchange.MarketData, retrier *Retrier) *RetryingMarketData {
	return &RetryingMarketData{next: next, retrier: retrier}
}

func (m *RetryingMarketData) GetName() string {
	return m.next.GetName()
}

func (m *RetryingMarketData) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	var klines []types.OHLCV
	err := m.retrier.Do(ctx, m.next.GetName(), "GetKlines", func(ctx context.Context) error {
		var err error
		klines, err = m.next.GetKlines(ctx, symbol, interval, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return klines, nil
}
