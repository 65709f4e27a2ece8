package indicators

import (
	"errors"
	"math"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// ATR represents the Average True Range technical indicator.
// The average is a simple rolling mean of the last period true ranges.
type ATR struct {
	period    int
	lastValue float64
}

// NewATR creates a new ATR indicator
func NewATR(period int) *ATR {
	return &ATR{
		period:    period,
		lastValue: math.NaN(),
	}
}

// Calculate returns the ATR at the last candle of data
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if a.period <= 0 {
		return 0, errors.New("ATR period must be positive")
	}
	if len(data) < a.GetRequiredPeriods() {
		return 0, errors.New("insufficient data points for ATR calculation")
	}

	end := len(data)
	sum := 0.0
	for i := end - a.period; i < end; i++ {
		sum += trueRange(data[i], data[i-1].Close)
	}

	a.lastValue = sum / float64(a.period)
	return a.lastValue, nil
}

// Series returns the ATR for every index of data. Indexes without period
// defined true ranges before them are NaN, so the first value is at index period.
func (a *ATR) Series(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))
	tr := TrueRange(data)

	sum := 0.0
	for i := range data {
		out[i] = math.NaN()
		if i == 0 || a.period <= 0 {
			continue
		}
		sum += tr[i]
		if i > a.period {
			sum -= tr[i-a.period]
		}
		if i >= a.period {
			out[i] = sum / float64(a.period)
		}
	}

	if n := len(out); n > 0 {
		a.lastValue = out[n-1]
	}
	return out
}

// TrueRange returns max(H-L, |H-prevC|, |L-prevC|) per candle. The first
// candle has no previous close and is NaN.
func TrueRange(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))
	for i := range data {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = trueRange(data[i], data[i-1].Close)
	}
	return out
}

func trueRange(current types.OHLCV, prevClose float64) float64 {
	hl := current.High - current.Low
	hc := math.Abs(current.High - prevClose)
	lc := math.Abs(current.Low - prevClose)

	return math.Max(hl, math.Max(hc, lc))
}

// GetName returns the indicator name
func (a *ATR) GetName() string {
	return "ATR"
}

// GetRequiredPeriods returns the minimum number of candles needed
func (a *ATR) GetRequiredPeriods() int {
	return a.period + 1 // one extra candle for the first previous close
}

// GetLastValue returns the last calculated ATR value, NaN before any calculation
func (a *ATR) GetLastValue() float64 {
	return a.lastValue
}
