package indicators

import (
	"fmt"
	"math"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// Indicator is a single-value technical indicator over a candle window
type Indicator interface {
	Calculate(data []types.OHLCV) (float64, error)
	Series(data []types.OHLCV) []float64
	GetName() string
	GetRequiredPeriods() int
}

var (
	_ Indicator = (*ATR)(nil)
	_ Indicator = (*VWAP)(nil)
)

// ATRAt returns the ATR of the given period at index i of data
func ATRAt(data []types.OHLCV, period, i int) (float64, error) {
	return valueAt(NewATR(period), data, i)
}

// VWAPAt returns the cumulative VWAP at index i of data
func VWAPAt(data []types.OHLCV, i int) (float64, error) {
	return valueAt(NewVWAP(), data, i)
}

func valueAt(ind Indicator, data []types.OHLCV, i int) (float64, error) {
	if i < 0 || i >= len(data) {
		return 0, fmt.Errorf("%s: index %d out of range [0,%d)", ind.GetName(), i, len(data))
	}
	v := ind.Series(data[:i+1])[i]
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%s: undefined at index %d, need %d candles", ind.GetName(), i, ind.GetRequiredPeriods())
	}
	return v, nil
}
