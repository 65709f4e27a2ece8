// Package scanner runs the fetch, evaluate and notify loop over the watch list.
package scanner

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/alerts"
	boterrors "github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/exchange"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/monitoring"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/notifications"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
)

// Config overrides the scan parameters. Zero values use the strategy constants.
type Config struct {
	Symbols    []string
	Interval   string
	Limit      int
	PollPeriod time.Duration
}

type Scanner struct {
	market   exchange.MarketData
	detector strategy.SignalDetector
	notifier notifications.Notifier
	tracker  *alerts.Tracker
	health   *monitoring.HealthChecker
	logger   zerolog.Logger

	symbols    []string
	interval   string
	limit      int
	pollPeriod time.Duration
}

// New creates a scanner. health may be nil.
func New(
	cfg Config,
	market exchange.MarketData,
	detector strategy.SignalDetector,
	notifier notifications.Notifier,
	tracker *alerts.Tracker,
	health *monitoring.HealthChecker,
	logger zerolog.Logger,
) *Scanner {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = strategy.Symbols
	}
	if cfg.Interval == "" {
		cfg.Interval = strategy.Interval
	}
	if cfg.Limit <= 0 {
		cfg.Limit = strategy.Limit
	}
	if cfg.PollPeriod <= 0 {
		cfg.PollPeriod = strategy.PollPeriod
	}

	return &Scanner{
		market:     market,
		detector:   detector,
		notifier:   notifier,
		tracker:    tracker,
		health:     health,
		logger:     logger.With().Str("component", "scanner").Logger(),
		symbols:    cfg.Symbols,
		interval:   cfg.Interval,
		limit:      cfg.Limit,
		pollPeriod: cfg.PollPeriod,
	}
}

// Run scans immediately, then again PollPeriod after each cycle ends, until
// ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info().
		Int("symbols", len(s.symbols)).
		Str("interval", s.interval).
		Int("limit", s.limit).
		Dur("poll_period", s.pollPeriod).
		Str("detector", s.detector.GetName()).
		Str("notifier", s.notifier.Name()).
		Msg("Scanner started")

	for {
		s.RunCycle(ctx)

		wait := time.NewTimer(s.pollPeriod)
		select {
		case <-ctx.Done():
			wait.Stop()
			s.logger.Info().Msg("Scanner stopped")
			return nil
		case <-wait.C:
		}
	}
}

// RunCycle scans every symbol once, in order. A cancelled context stops the
// cycle between symbols and the partial report is returned.
func (s *Scanner) RunCycle(ctx context.Context) CycleReport {
	report := CycleReport{
		Started: time.Now(),
		Results: make([]SymbolResult, 0, len(s.symbols)),
	}

	for _, symbol := range s.symbols {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		res := s.scanSymbol(ctx, symbol)
		if res.Err != nil && ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		report.Results = append(report.Results, res)
	}
	report.Duration = time.Since(report.Started)

	if report.Cancelled {
		s.logger.Info().Int("scanned", len(report.Results)).Msg("Scan cycle interrupted")
		return report
	}

	monitoring.RecordCycle(report.Duration)
	if s.health != nil {
		s.health.RecordCycle(time.Now(), report.Duration, len(report.Results), report.Errors())
	}

	s.logger.Info().
		Int("symbols", len(report.Results)).
		Int("signals", report.Signals()).
		Int("notified", report.Notified()).
		Int("errors", report.Errors()).
		Dur("duration", report.Duration).
		Msg("Scan cycle complete")

	return report
}

func (s *Scanner) scanSymbol(ctx context.Context, symbol string) SymbolResult {
	res := SymbolResult{Symbol: symbol}
	log := s.logger.With().Str("symbol", symbol).Logger()

	candles, err := s.market.GetKlines(ctx, symbol, s.interval, s.limit)
	if err != nil {
		res.Err = err
		if ctx.Err() != nil {
			return res
		}
		category := boterrors.CategoryOf(err)
		monitoring.RecordFetchError(string(category))
		s.recordError(symbol, err)
		log.Warn().Err(err).Str("category", string(category)).Msg("Failed to fetch klines")
		return res
	}

	if len(candles) < s.detector.GetRequiredPeriods() {
		res.Skipped = true
		log.Debug().
			Int("candles", len(candles)).
			Int("required", s.detector.GetRequiredPeriods()).
			Msg("Not enough candles, skipping")
		return res
	}
	monitoring.UpdateLastClose(symbol, candles[len(candles)-1].Close)

	eval, err := s.detector.Evaluate(symbol, candles)
	if err != nil {
		if stderrors.Is(err, strategy.ErrInsufficientData) {
			res.Skipped = true
			return res
		}
		res.Err = err
		s.recordError(symbol, err)
		log.Warn().Err(err).Msg("Evaluation failed")
		return res
	}
	res.Evaluation = eval

	log.Debug().
		Float64("close", eval.LastClose).
		Float64("mid", eval.Midpoint).
		Float64("vwap", eval.VWAP).
		Float64("atr", eval.ATR).
		Bool("touch", eval.Touch).
		Str("direction", eval.Direction.String()).
		Msg("Evaluated")

	s.tracker.Reconcile(symbol, eval.Direction)
	if !eval.IsSignal() {
		return res
	}
	monitoring.RecordSignal(symbol, eval.Direction.String())

	if !s.tracker.ShouldNotify(symbol, eval.Direction) {
		res.Suppressed = true
		log.Debug().Str("direction", eval.Direction.String()).Msg("Signal already notified")
		return res
	}

	if err := s.notifier.SendAlert(ctx, notifications.FormatSignal(eval)); err != nil {
		res.NotifyErr = err
		monitoring.RecordNotification("failed")
		s.recordError(symbol, err)
		log.Error().Err(err).Str("direction", eval.Direction.String()).Msg("Failed to send alert")
		return res
	}

	alert := s.tracker.MarkSent(eval)
	res.Notified = true
	monitoring.RecordNotification("sent")
	log.Info().
		Str("alert_id", alert.ID).
		Str("direction", eval.Direction.String()).
		Float64("entry", eval.Entry).
		Float64("take_profit", eval.TakeProfit).
		Float64("stop_loss", eval.StopLoss).
		Float64("atr", eval.ATR).
		Msg("Signal alert sent")

	return res
}

func (s *Scanner) recordError(symbol string, err error) {
	if s.health != nil {
		s.health.AddError(fmt.Sprintf("%s %s: %v", time.Now().UTC().Format(time.RFC3339), symbol, err))
	}
}
