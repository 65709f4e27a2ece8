package strategy

import (
	"errors"
	"time"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// ErrInsufficientData is returned when the window is shorter than the
// detector's GetRequiredPeriods. Callers skip the symbol for this cycle.
var ErrInsufficientData = errors.New("insufficient candles for signal evaluation")

// SignalDetector evaluates a candle window for one symbol
type SignalDetector interface {
	// Evaluate inspects the last two candles of data. A returned Evaluation
	// with Direction == DirectionNone means the pattern does not hold.
	Evaluate(symbol string, data []types.OHLCV) (*Evaluation, error)

	// GetName returns the name of the detector
	GetName() string

	// GetRequiredPeriods returns the minimum window length
	GetRequiredPeriods() int
}

// Evaluation is the outcome of one detector run, with every intermediate
// value kept for logging and reporting.
type Evaluation struct {
	Symbol    string
	Direction types.Direction

	Entry      float64
	TakeProfit float64
	StopLoss   float64

	ATR       float64 // at the prior candle
	VWAP      float64 // at the prior candle
	Midpoint  float64 // of the prior candle
	PrevHigh  float64
	PrevLow   float64
	PrevClose float64
	LastClose float64
	Touch     bool // prior candle's range contains VWAP

	CandleTime time.Time // open time of the last candle
}

// IsSignal reports whether the evaluation produced BUY or SELL
func (e *Evaluation) IsSignal() bool {
	return e != nil && e.Direction.IsSignal()
}
