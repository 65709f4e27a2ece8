package safety

import (
	"fmt"
	"math"
	"strings"

	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// ValidationResult represents the result of a validation check
type ValidationResult struct {
	Valid   bool
	Message string
	Code    string
}

// Err converts a failed result into an error. Valid results return nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%s: %s", r.Code, r.Message)
}

// Validator checks market data and settings before they reach the detector
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePrice validates a single price field of a candle
func (v *Validator) ValidatePrice(price float64, symbol string) ValidationResult {
	if math.IsNaN(price) {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("invalid price for %s: price is NaN", symbol),
			Code:    "INVALID_PRICE_NAN",
		}
	}

	if math.IsInf(price, 0) {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("invalid price for %s: price is infinite", symbol),
			Code:    "INVALID_PRICE_INF",
		}
	}

	if price <= 0 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("invalid price %.8f for %s: price must be positive", price, symbol),
			Code:    "INVALID_PRICE_NEGATIVE",
		}
	}

	return ValidationResult{Valid: true}
}

// ValidateCandle checks that a candle's prices are usable and consistent
func (v *Validator) ValidateCandle(c types.OHLCV, symbol string) ValidationResult {
	for _, p := range []float64{c.Open, c.High, c.Low, c.Close} {
		if res := v.ValidatePrice(p, symbol); !res.Valid {
			return res
		}
	}

	if c.High < c.Low {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("candle for %s at %s has high %.8f below low %.8f", symbol, c.Timestamp.UTC().Format("2006-01-02 15:04"), c.High, c.Low),
			Code:    "CANDLE_INVERTED_RANGE",
		}
	}

	if math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) || c.Volume < 0 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("invalid volume %v for %s", c.Volume, symbol),
			Code:    "INVALID_VOLUME",
		}
	}

	return ValidationResult{Valid: true}
}

// ValidateSymbol validates a trading symbol format
func (v *Validator) ValidateSymbol(symbol string) ValidationResult {
	if symbol == "" {
		return ValidationResult{
			Valid:   false,
			Message: "symbol cannot be empty",
			Code:    "SYMBOL_EMPTY",
		}
	}

	symbol = strings.TrimSpace(symbol)
	if len(symbol) < 3 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("symbol '%s' too short: minimum 3 characters required", symbol),
			Code:    "SYMBOL_TOO_SHORT",
		}
	}

	if len(symbol) > 20 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("symbol '%s' too long: maximum 20 characters allowed", symbol),
			Code:    "SYMBOL_TOO_LONG",
		}
	}

	// Binance symbols are upper-case alphanumerics
	for _, char := range symbol {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("symbol '%s' contains invalid characters: only A-Z and 0-9 allowed", symbol),
				Code:    "SYMBOL_INVALID_CHARS",
			}
		}
	}

	return ValidationResult{Valid: true}
}

// ValidateTimeInterval validates a Binance kline interval string
func (v *Validator) ValidateTimeInterval(interval string) ValidationResult {
	if interval == "" {
		return ValidationResult{
			Valid:   false,
			Message: "time interval cannot be empty",
			Code:    "INTERVAL_EMPTY",
		}
	}

	validIntervals := map[string]bool{
		"1s": true, "1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
		"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
		"1d": true, "3d": true, "1w": true, "1M": true,
	}

	if !validIntervals[interval] {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("unsupported time interval '%s'", interval),
			Code:    "INTERVAL_UNSUPPORTED",
		}
	}

	return ValidationResult{Valid: true}
}
