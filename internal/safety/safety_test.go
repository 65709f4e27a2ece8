package safety

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter("klines", 3, 1)
	rl.now = func() time.Time { return clock }
	rl.lastRefill = clock

	assert.True(t, rl.AllowN(1))
	assert.True(t, rl.AllowN(2))
	assert.False(t, rl.AllowN(1))

	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, rl.AllowN(1), "no refill before a full second")

	clock = clock.Add(1500 * time.Millisecond)
	assert.True(t, rl.AllowN(2))
	assert.False(t, rl.AllowN(1))

	clock = clock.Add(time.Hour)
	assert.True(t, rl.AllowN(3))
	assert.False(t, rl.AllowN(1), "refill is capped at capacity")
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter("klines", 1, 1)
	require.True(t, rl.AllowN(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.WaitN(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "klines")
}

func TestRateLimiter_WaitClampsToCapacity(t *testing.T) {
	rl := NewRateLimiter("klines", 2, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, rl.WaitN(ctx, 10))
	assert.Equal(t, 0, rl.tokens)
}

func TestValidator_ValidateCandle(t *testing.T) {
	v := NewValidator()
	good := types.OHLCV{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}

	assert.True(t, v.ValidateCandle(good, "DOGEUSDT").Valid)
	assert.NoError(t, v.ValidateCandle(good, "DOGEUSDT").Err())

	inverted := good
	inverted.High, inverted.Low = 0.5, 2
	res := v.ValidateCandle(inverted, "DOGEUSDT")
	assert.False(t, res.Valid)
	assert.Equal(t, "CANDLE_INVERTED_RANGE", res.Code)

	nan := good
	nan.Close = math.NaN()
	assert.Equal(t, "INVALID_PRICE_NAN", v.ValidateCandle(nan, "DOGEUSDT").Code)

	zero := good
	zero.Low = 0
	assert.Equal(t, "INVALID_PRICE_NEGATIVE", v.ValidateCandle(zero, "DOGEUSDT").Code)

	badVol := good
	badVol.Volume = -1
	res = v.ValidateCandle(badVol, "DOGEUSDT")
	assert.Equal(t, "INVALID_VOLUME", res.Code)
	assert.ErrorContains(t, res.Err(), "INVALID_VOLUME")
}

func TestValidator_ValidateSymbol(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidateSymbol("1INCHUSDT").Valid)
	assert.Equal(t, "SYMBOL_EMPTY", v.ValidateSymbol("").Code)
	assert.Equal(t, "SYMBOL_TOO_SHORT", v.ValidateSymbol("AB").Code)
	assert.Equal(t, "SYMBOL_INVALID_CHARS", v.ValidateSymbol("doge-usdt").Code)
}

func TestValidator_ValidateTimeInterval(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidateTimeInterval("5m").Valid)
	assert.Equal(t, "INTERVAL_EMPTY", v.ValidateTimeInterval("").Code)
	assert.Equal(t, "INTERVAL_UNSUPPORTED", v.ValidateTimeInterval("7m").Code)
}
