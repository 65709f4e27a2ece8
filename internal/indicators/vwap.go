package indicators

import (
	"errors"
	"math"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// VWAP is the session volume-weighted average price, accumulated from the
// first candle of the window. While no volume has traded yet the typical
// prices are weighted equally.
type VWAP struct {
	lastValue float64
}

// NewVWAP creates a new VWAP indicator
func NewVWAP() *VWAP {
	return &VWAP{lastValue: math.NaN()}
}

// Calculate returns the VWAP at the last candle of data
func (v *VWAP) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) == 0 {
		return 0, errors.New("insufficient data points for VWAP calculation")
	}

	series := v.Series(data)
	return series[len(series)-1], nil
}

// Series returns the cumulative VWAP at every index of data
func (v *VWAP) Series(data []types.OHLCV) []float64 {
	out := make([]float64, len(data))

	var pv, vol, tpSum float64
	for i, c := range data {
		tp := c.TypicalPrice()
		pv += tp * c.Volume
		vol += c.Volume
		tpSum += tp

		if vol > 0 {
			out[i] = pv / vol
		} else {
			out[i] = tpSum / float64(i+1)
		}
	}

	if n := len(out); n > 0 {
		v.lastValue = out[n-1]
	}
	return out
}

// GetName returns the indicator name
func (v *VWAP) GetName() string {
	return "VWAP"
}

// GetRequiredPeriods returns the minimum number of candles needed
func (v *VWAP) GetRequiredPeriods() int {
	return 1
}

// GetLastValue returns the last calculated VWAP value, NaN before any calculation
func (v *VWAP) GetLastValue() float64 {
	return v.lastValue
}
