package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	boterrors "github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
)

const DefaultTelegramBaseURL = "https://api.telegram.org"

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	Token   string
	ChatID  int64
	BaseURL string
	Timeout time.Duration
}

type TelegramNotifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTelegramBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TelegramNotifier{
		token:   cfg.Token,
		chatID:  strconv.FormatInt(cfg.ChatID, 10),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

// SendAlert posts message as plain text to the configured chat
func (t *TelegramNotifier) SendAlert(ctx context.Context, message string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	data := url.Values{}
	data.Set("chat_id", t.chatID)
	data.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return boterrors.NewNotificationError("telegram", "SendAlert", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		// the request URL carries the token, keep it out of the error
		if uerr, ok := err.(*url.Error); ok {
			err = uerr.Err
		}
		return boterrors.NewNotificationError("telegram", "SendAlert", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return boterrors.NewNotificationError("telegram", "SendAlert",
			fmt.Errorf("telegram API returned status %d%s", resp.StatusCode, apiDescription(resp.Body)))
	}

	return nil
}

// apiDescription extracts the "description" field of a Telegram error body
func apiDescription(body io.Reader) string {
	var payload struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil || payload.Description == "" {
		return ""
	}
	return ": " + payload.Description
}
