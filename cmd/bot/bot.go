package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ducminhle1904/midpoint-reversal-bot/cmd/common"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/alerts"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/config"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/monitoring"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/scanner"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
)

const (
	shutdownTimeout = 10 * time.Second
	recentAlerts    = 50
)

// AlertBot wires the scanner loop and the monitoring server
type AlertBot struct {
	config  *config.Config
	logger  zerolog.Logger
	scanner *scanner.Scanner
	health  *monitoring.HealthChecker
	tracker *alerts.Tracker
	server  *http.Server
}

// NewAlertBot creates the bot from configuration
func NewAlertBot(cfg *config.Config, logger zerolog.Logger) *AlertBot {
	return newAlertBot(cfg, logger, scanner.Config{})
}

func newAlertBot(cfg *config.Config, logger zerolog.Logger, scanCfg scanner.Config) *AlertBot {
	tracker := alerts.NewTracker(recentAlerts)
	pollPeriod := scanCfg.PollPeriod
	if pollPeriod <= 0 {
		pollPeriod = strategy.PollPeriod
	}
	health := monitoring.NewHealthChecker(pollPeriod, tracker)

	b := &AlertBot{
		config:  cfg,
		logger:  logger,
		health:  health,
		tracker: tracker,
		scanner: scanner.New(
			scanCfg,
			common.NewMarketData(cfg, logger),
			strategy.NewMidpointReversal(),
			common.NewNotifier(cfg, logger),
			tracker,
			health,
			logger,
		),
	}

	if cfg.Monitoring.Addr != "" {
		b.server = &http.Server{
			Addr:              cfg.Monitoring.Addr,
			Handler:           monitoring.NewRouter(health),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return b
}

// Run blocks until ctx is cancelled or the monitoring server fails
func (b *AlertBot) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if b.server != nil {
		g.Go(func() error {
			b.logger.Info().Str("addr", b.server.Addr).Msg("Monitoring server listening")
			if err := b.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("monitoring server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := b.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("monitoring server shutdown: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return b.scanner.Run(gctx)
	})

	return g.Wait()
}
