package exchange

import (
	"context"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// MarketData is the read-only candle source the scanner polls.
type MarketData interface {
	GetName() string
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error)
}
