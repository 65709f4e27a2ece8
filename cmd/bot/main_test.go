package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/config"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/scanner"
)

// buyKlines is 14 quiet candles then a close back above the prior midpoint
func buyKlines() [][]interface{} {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	row := func(i int, o, h, l, c string) []interface{} {
		open := start + int64(i)*300_000
		return []interface{}{open, o, h, l, c, "1000", open + 299_999, "0", 10, "0", "0", "0"}
	}
	rows := make([][]interface{}, 0, 16)
	for i := 0; i < 14; i++ {
		rows = append(rows, row(i, "100", "101", "99", "100"))
	}
	return append(rows,
		row(14, "100", "101", "99", "99.5"),
		row(15, "99.5", "101", "99", "100.5"),
	)
}

func newBinance(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(buyKlines())
	}))
	t.Cleanup(server.Close)
	return server
}

type telegramRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (tr *telegramRecorder) Texts() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.texts...)
}

func newTelegram(t *testing.T) (*httptest.Server, *telegramRecorder) {
	t.Helper()
	rec := &telegramRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		rec.mu.Lock()
		rec.texts = append(rec.texts, r.PostForm.Get("text"))
		rec.mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestAlertBot_Run(t *testing.T) {
	binance := newBinance(t)
	telegram, sent := newTelegram(t)

	cfg := config.Default()
	cfg.Binance.BaseURL = binance.URL
	cfg.Telegram.BaseURL = telegram.URL
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.ChatID = "42"
	cfg.Monitoring.Addr = "127.0.0.1:0"

	bot := newAlertBot(cfg, zerolog.Nop(), scanner.Config{
		Symbols:    []string{"DOGEUSDT", "SOLUSDT"},
		PollPeriod: time.Hour,
	})
	require.NotNil(t, bot.server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	require.Eventually(t, func() bool { return bot.health.Status().Cycles == 1 }, 5*time.Second, 10*time.Millisecond)

	texts := sent.Texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Symbol: DOGEUSDT\nSignal: BUY")
	assert.Contains(t, texts[1], "Symbol: SOLUSDT\nSignal: BUY")
	assert.Len(t, bot.tracker.Snapshot(), 2)

	rec := httptest.NewRecorder()
	bot.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("bot did not shut down")
	}
}

func TestAlertBot_NoMonitoringServer(t *testing.T) {
	cfg := config.Default()
	cfg.DryRun = true
	cfg.Monitoring.Addr = ""

	bot := NewAlertBot(cfg, zerolog.Nop())
	assert.Nil(t, bot.server)
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), appName+" v")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
	assert.Equal(t, 0, run(context.Background(), []string{"-help"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "OPTIONS:")
}

func TestRun_ConfigError(t *testing.T) {
	for _, k := range []string{"BOT_TOKEN", "CHAT_ID", "LOG_LEVEL", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env", envFile}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "BOT_TOKEN is required")
}

func TestRun_DryRunStopsOnCancel(t *testing.T) {
	binance := newBinance(t)
	for _, k := range []string{"BOT_TOKEN", "CHAT_ID", "LOG_LEVEL", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
	t.Setenv("BINANCE_BASE_URL", binance.URL)
	t.Setenv("MONITOR_ADDR", "")
	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-env", envFile, "-dry-run"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "Starting midpoint reversal bot")
	assert.Contains(t, stderr.String(), "Bot stopped")
}
