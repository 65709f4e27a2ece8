package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeCandles builds a deterministic zig-zag window with varying ranges and gaps
func makeCandles(n int) []types.OHLCV {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.OHLCV, n)
	price := 100.0
	for i := 0; i < n; i++ {
		step := float64(i%7) - 3.0
		open := price
		closeP := price + step*0.8
		high := math.Max(open, closeP) + float64(i%3) + 0.5
		low := math.Min(open, closeP) - float64(i%4)*0.5 - 0.25
		data[i] = types.OHLCV{
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    1000 + float64(i%5)*250,
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
		}
		// gap the next open so the previous close matters for true range
		price = closeP + float64(i%2)*1.5
	}
	return data
}

func toTechanSeries(data []types.OHLCV) *techan.TimeSeries {
	ts := techan.NewTimeSeries()
	for _, c := range data {
		candle := techan.NewCandle(techan.NewTimePeriod(c.Timestamp, 5*time.Minute))
		candle.OpenPrice = big.NewDecimal(c.Open)
		candle.MaxPrice = big.NewDecimal(c.High)
		candle.MinPrice = big.NewDecimal(c.Low)
		candle.ClosePrice = big.NewDecimal(c.Close)
		candle.Volume = big.NewDecimal(c.Volume)
		ts.AddCandle(candle)
	}
	return ts
}

func TestTrueRange(t *testing.T) {
	data := []types.OHLCV{
		{High: 10, Low: 8, Close: 9},
		{High: 12, Low: 11, Close: 11.5}, // gap up: |H-prevC| = 3
		{High: 12, Low: 8, Close: 8},     // wide bar: H-L = 4
		{High: 8.5, Low: 8.2, Close: 8.4},
		{High: 6, Low: 5, Close: 5.5}, // gap down: |L-prevC| = 3.4
	}

	tr := TrueRange(data)
	require.Len(t, tr, 5)
	assert.True(t, math.IsNaN(tr[0]))
	assert.InDelta(t, 3.0, tr[1], 1e-12)
	assert.InDelta(t, 4.0, tr[2], 1e-12)
	assert.InDelta(t, 0.5, tr[3], 1e-12)
	assert.InDelta(t, 3.4, tr[4], 1e-12)
}

func TestATR_Calculate_InsufficientData(t *testing.T) {
	atr := NewATR(14)

	_, err := atr.Calculate(makeCandles(14))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient data")
	assert.True(t, math.IsNaN(atr.GetLastValue()))
}

func TestATR_Calculate_ExactPeriod(t *testing.T) {
	atr := NewATR(3)
	data := []types.OHLCV{
		{High: 10, Low: 8, Close: 9},
		{High: 12, Low: 11, Close: 11.5},
		{High: 12, Low: 8, Close: 8},
		{High: 8.5, Low: 8.2, Close: 8.4},
	}

	value, err := atr.Calculate(data)
	require.NoError(t, err)
	assert.InDelta(t, (3.0+4.0+0.5)/3, value, 1e-12)
	assert.Equal(t, value, atr.GetLastValue())
	assert.Equal(t, 4, atr.GetRequiredPeriods())
}

func TestATR_Series_MatchesCalculate(t *testing.T) {
	atr := NewATR(14)
	data := makeCandles(60)

	series := atr.Series(data)
	require.Len(t, series, 60)

	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(series[i]), "index %d should be undefined", i)
	}
	for i := 14; i < len(data); i++ {
		want, err := NewATR(14).Calculate(data[:i+1])
		require.NoError(t, err)
		assert.InDelta(t, want, series[i], 1e-9, "index %d", i)
	}
	assert.Equal(t, series[59], atr.GetLastValue())
}

func TestATR_MatchesTechan(t *testing.T) {
	data := makeCandles(200)
	series := NewATR(14).Series(data)

	oracle := techan.NewAverageTrueRangeIndicator(toTechanSeries(data), 14)
	for i := 14; i < len(data); i++ {
		assert.InDelta(t, oracle.Calculate(i).Float(), series[i], 1e-9, "index %d", i)
	}
}

func TestATR_FlatMarket(t *testing.T) {
	data := make([]types.OHLCV, 20)
	for i := range data {
		data[i] = types.OHLCV{Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}
	}

	value, err := NewATR(14).Calculate(data)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)
}
