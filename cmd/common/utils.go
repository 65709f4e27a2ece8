package common

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/config"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/exchange"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/logger"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/notifications"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/recovery"
)

// Telegram sends are suspended after this many consecutive failures
const (
	notifierFailureThreshold = 3
	notifierCooldown         = time.Minute
)

// NewLogger builds the root logger from the configuration
func NewLogger(cfg *config.Config, w io.Writer, app string) (zerolog.Logger, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogPretty, w)
	if err != nil {
		return zerolog.Nop(), err
	}
	return log.With().Str("app", app).Str("env", cfg.Environment).Logger(), nil
}

// NewMarketData returns the Binance client for the configured base URL,
// retrying transient connection failures
func NewMarketData(cfg *config.Config, log zerolog.Logger) exchange.MarketData {
	binance := exchange.NewBinanceExchange(exchange.BinanceConfig{BaseURL: cfg.Binance.BaseURL})
	return recovery.NewRetryingMarketData(binance, recovery.NewRetrier(recovery.DefaultRetryConfig(), log))
}

// NewNotifier returns the Telegram notifier, or the log notifier in dry-run
// mode or when Telegram is not configured
func NewNotifier(cfg *config.Config, log zerolog.Logger) notifications.Notifier {
	if !cfg.HasTelegram() {
		return notifications.NewLogNotifier(log)
	}
	chatID, _ := cfg.ChatID()
	telegram := notifications.NewTelegramNotifier(notifications.TelegramConfig{
		Token:   cfg.Telegram.Token,
		ChatID:  chatID,
		BaseURL: cfg.Telegram.BaseURL,
	})
	return notifications.NewGuardedNotifier(telegram, notifierFailureThreshold, notifierCooldown, log)
}
