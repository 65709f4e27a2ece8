package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	boterrors "github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/safety"
	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

const (
	DefaultBinanceBaseURL = "https://api.binance.com"

	klinesPath = "/api/v3/klines"

	// Request weight of /api/v3/klines for limits between 100 and 499
	klinesWeight = 2
)

// BinanceConfig holds settings for the public market-data client
type BinanceConfig struct {
	BaseURL string
	Timeout time.Duration

	// Token bucket sizing in request weight. Zero values use defaults well
	// under the 6000 weight/minute IP limit.
	WeightCapacity  int
	WeightPerSecond int
}

// BinanceExchange reads public klines from the Binance spot REST API.
// No API key is needed.
type BinanceExchange struct {
	client    *http.Client
	baseURL   string
	limiter   *safety.RateLimiter
	validator *safety.Validator
}

// NewBinanceExchange creates a new Binance market-data client
func NewBinanceExchange(cfg BinanceConfig) *BinanceExchange {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBinanceBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.WeightCapacity == 0 {
		cfg.WeightCapacity = 40
	}
	if cfg.WeightPerSecond == 0 {
		cfg.WeightPerSecond = 20
	}

	return &BinanceExchange{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		limiter:   safety.NewRateLimiter("binance_klines", cfg.WeightCapacity, cfg.WeightPerSecond),
		validator: safety.NewValidator(),
	}
}

func (b *BinanceExchange) GetName() string {
	return "Binance"
}

// GetKlines returns up to limit candles, oldest first. The last candle is the
// one still forming.
func (b *BinanceExchange) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	if err := b.validator.ValidateTimeInterval(interval).Err(); err != nil {
		return nil, boterrors.WrapError(err, boterrors.ErrorCategoryConfiguration, "binance", "GetKlines")
	}
	if err := b.limiter.WaitN(ctx, klinesWeight); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+klinesPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build klines request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, boterrors.CategorizeError(fmt.Errorf("failed to get klines: %w", err), "binance", "GetKlines")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var klinesData [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&klinesData); err != nil {
		return nil, boterrors.NewParseError("binance", "GetKlines", fmt.Errorf("failed to decode klines response: %w", err))
	}

	klines := make([]types.OHLCV, 0, len(klinesData))
	for i, row := range klinesData {
		candle, err := parseKline(row)
		if err != nil {
			return nil, boterrors.NewParseError("binance", "GetKlines", fmt.Errorf("kline %d: %w", i, err)).
				WithContext("symbol", symbol)
		}
		if err := b.validator.ValidateCandle(candle, symbol).Err(); err != nil {
			return nil, boterrors.NewParseError("binance", "GetKlines", fmt.Errorf("kline %d: %w", i, err)).
				WithContext("symbol", symbol)
		}
		klines = append(klines, candle)
	}

	return klines, nil
}

// statusError maps a non-200 response to a categorized error. 429 and 418 are
// Binance's rate-limit and IP-ban codes.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	var apiErr struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	msg := fmt.Sprintf("API returned status %d", resp.StatusCode)
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
		msg = fmt.Sprintf("%s: %d %s", msg, apiErr.Code, apiErr.Msg)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusTeapot:
		return boterrors.NewRateLimitError("binance", "GetKlines", msg).
			WithContext("status", resp.StatusCode).
			WithContext("retry_after", resp.Header.Get("Retry-After"))
	default:
		return boterrors.NewExchangeError("binance", "GetKlines", msg).
			WithContext("status", resp.StatusCode)
	}
}

// parseKline converts one row of the klines array:
// [openTime, open, high, low, close, volume, closeTime, ...]
func parseKline(row []interface{}) (types.OHLCV, error) {
	if len(row) < 7 {
		return types.OHLCV{}, fmt.Errorf("expected at least 7 fields, got %d", len(row))
	}

	openTime, err := parseMillis(row[0])
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("open time: %w", err)
	}
	closeTime, err := parseMillis(row[6])
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("close time: %w", err)
	}

	var prices [5]float64
	for i := range prices {
		prices[i], err = parseDecimal(row[i+1])
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("field %d: %w", i+1, err)
		}
	}

	return types.OHLCV{
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    prices[4],
		Timestamp: openTime,
		CloseTime: closeTime,
	}, nil
}

func parseDecimal(v interface{}) (float64, error) {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %q: %w", x, err)
		}
		return f, nil
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func parseMillis(v interface{}) (time.Time, error) {
	ms, ok := v.(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
