package types

import "time"

// OHLCV is one closed or forming candlestick as returned by the exchange.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time // open time
	CloseTime time.Time
}

// Midpoint returns the middle of the candle's high-low range.
func (c OHLCV) Midpoint() float64 {
	return (c.High + c.Low) / 2
}

// TypicalPrice returns (high + low + close) / 3.
func (c OHLCV) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// Direction is the side of a detected reversal. The zero value means no signal.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Opposite returns the other side, or DirectionNone for DirectionNone.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionBuy:
		return DirectionSell
	case DirectionSell:
		return DirectionBuy
	default:
		return DirectionNone
	}
}

// IsSignal reports whether d is BUY or SELL.
func (d Direction) IsSignal() bool {
	return d == DirectionBuy || d == DirectionSell
}

func (d Direction) String() string {
	if d == DirectionNone {
		return "NONE"
	}
	return string(d)
}
