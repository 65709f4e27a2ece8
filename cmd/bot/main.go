package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ducminhle1904/midpoint-reversal-bot/cmd/common"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/config"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
)

const appName = "midpoint-bot"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := common.RegisterCommonFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Log alerts instead of sending them to Telegram")

	common.NewUsageFormatter(appName, "Midpoint reversal alerts for Binance 5m candles").
		AddExample(appName+" -env .env", "Run with Telegram credentials from .env").
		AddExample(appName+" -dry-run", "Scan and log alerts without sending").
		Install(fs)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *flags.Version {
		common.PrintVersion(stdout, appName)
		return 0
	}

	cfg, err := config.Load(config.Options{
		EnvFile:    *flags.EnvFile,
		ConfigFile: *flags.ConfigFile,
		DryRun:     *dryRun,
	})
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	logger, err := common.NewLogger(cfg, stderr, appName)
	if err != nil {
		fmt.Fprintf(stderr, "logger error: %v\n", err)
		return 1
	}

	bot := NewAlertBot(cfg, logger)
	logger.Info().
		Str("version", common.GetFullVersion()).
		Bool("dry_run", cfg.DryRun).
		Bool("telegram", cfg.HasTelegram()).
		Str("binance", cfg.Binance.BaseURL).
		Str("monitor_addr", cfg.Monitoring.Addr).
		Int("symbols", len(strategy.Symbols)).
		Msg("Starting midpoint reversal bot")

	if err := bot.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Bot stopped with error")
		return 1
	}

	logger.Info().Msg("Bot stopped")
	return 0
}
