package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ducminhle1904/midpoint-reversal-bot/cmd/common"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/alerts"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/config"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/safety"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/scanner"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/reporting"
)

const appName = "midpoint-scan"

// ScanFlags holds the command line flags for a one-shot scan
type ScanFlags struct {
	*common.CommonFlags

	XLSXFile *string // optional workbook export
	Notify   *bool   // send alerts for signals found
	Symbols  *string // comma-separated subset of the watch list
}

func registerFlags(fs *flag.FlagSet) *ScanFlags {
	return &ScanFlags{
		CommonFlags: common.RegisterCommonFlags(fs),
		XLSXFile:    fs.String("xlsx", "", "Write the scan table to this .xlsx file"),
		Notify:      fs.Bool("notify", false, "Send alerts for signals (default logs them)"),
		Symbols:     fs.String("symbols", "", "Comma-separated symbols to scan instead of the full watch list"),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := registerFlags(fs)

	common.NewUsageFormatter(appName, "Run one midpoint reversal scan and print the results").
		AddExample(appName, "Scan the full watch list").
		AddExample(appName+" -symbols DOGEUSDT,SOLUSDT -xlsx scan.xlsx", "Scan two symbols and export to Excel").
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

	symbols, err := parseSymbols(*flags.Symbols)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -symbols: %v\n", err)
		return 2
	}

	cfg, err := config.Load(config.Options{
		EnvFile:    *flags.EnvFile,
		ConfigFile: *flags.ConfigFile,
		DryRun:     !*flags.Notify,
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

	s := scanner.New(
		scanner.Config{Symbols: symbols},
		common.NewMarketData(cfg, logger),
		strategy.NewMidpointReversal(),
		common.NewNotifier(cfg, logger),
		alerts.NewTracker(len(strategy.Symbols)),
		nil,
		logger,
	)

	report := s.RunCycle(ctx)
	reporting.WriteScanTable(stdout, report)

	if *flags.XLSXFile != "" {
		if err := reporting.WriteScanXLSX(report, *flags.XLSXFile); err != nil {
			logger.Error().Err(err).Str("path", *flags.XLSXFile).Msg("Failed to write xlsx report")
			return 1
		}
		logger.Info().Str("path", *flags.XLSXFile).Msg("Scan exported")
	}

	if report.AllFailed() || report.Cancelled {
		return 1
	}
	return 0
}

// parseSymbols splits and validates a -symbols value. Empty means the full list.
func parseSymbols(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	v := safety.NewValidator()
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if res := v.ValidateSymbol(s); !res.Valid {
			return nil, res.Err()
		}
		symbols = append(symbols, s)
	}
	return symbols, nil
}
