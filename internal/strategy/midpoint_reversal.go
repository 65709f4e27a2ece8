package strategy

import (
	"fmt"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/indicators"
	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// MidpointReversal detects a close crossing back over the prior candle's
// high/low midpoint while the prior candle's range contains the session VWAP.
//
// With prev the second-to-last candle and last the newest one:
//
//	BUY  when prev.Close < mid and last.Close > mid
//	SELL when prev.Close > mid and last.Close < mid
//
// Take-profit and stop-loss are placed TPMultiplier and SLMultiplier ATRs
// away from the last close.
type MidpointReversal struct {
	atrLength int
	tpMult    float64
	slMult    float64
}

// NewMidpointReversal returns the detector with the hardcoded parameters
func NewMidpointReversal() *MidpointReversal {
	return &MidpointReversal{
		atrLength: ATRLength,
		tpMult:    TPMultiplier,
		slMult:    SLMultiplier,
	}
}

func (m *MidpointReversal) GetName() string {
	return "MIDPOINT-REV"
}

func (m *MidpointReversal) GetRequiredPeriods() int {
	return m.atrLength + 2
}

// Evaluate runs the detector on data, oldest candle first
func (m *MidpointReversal) Evaluate(symbol string, data []types.OHLCV) (*Evaluation, error) {
	if len(data) < m.GetRequiredPeriods() {
		return nil, fmt.Errorf("%s: have %d, need %d: %w", symbol, len(data), m.GetRequiredPeriods(), ErrInsufficientData)
	}

	n := len(data)
	prev, last := data[n-2], data[n-1]

	// Both indicators are read at the prior candle, so the forming candle
	// only contributes its close.
	atr, err := indicators.ATRAt(data, m.atrLength, n-2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	vwap, err := indicators.VWAPAt(data, n-2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}

	eval := &Evaluation{
		Symbol:     symbol,
		Direction:  types.DirectionNone,
		Entry:      last.Close,
		ATR:        atr,
		VWAP:       vwap,
		Midpoint:   prev.Midpoint(),
		PrevHigh:   prev.High,
		PrevLow:    prev.Low,
		PrevClose:  prev.Close,
		LastClose:  last.Close,
		Touch:      prev.Low <= vwap && vwap <= prev.High,
		CandleTime: last.Timestamp,
	}

	if eval.Touch {
		mid := eval.Midpoint
		switch {
		case prev.Close < mid && last.Close > mid:
			eval.Direction = types.DirectionBuy
		case prev.Close > mid && last.Close < mid:
			eval.Direction = types.DirectionSell
		}
	}

	eval.TakeProfit, eval.StopLoss = m.Levels(eval.Direction, eval.Entry, atr)
	return eval, nil
}

// Levels returns take-profit and stop-loss for entry. A non-signal is
// treated like SELL, so its levels are only informational.
func (m *MidpointReversal) Levels(dir types.Direction, entry, atr float64) (takeProfit, stopLoss float64) {
	sign := -1.0
	if dir == types.DirectionBuy {
		sign = 1.0
	}
	return entry + sign*m.tpMult*atr, entry - sign*m.slMult*atr
}
