package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestCategorizeError_KeepsExistingCategory(t *testing.T) {
	orig := NewRateLimitError("binance", "GetKlines", "HTTP 429")
	wrapped := fmt.Errorf("DOGEUSDT: %w", orig)

	got := CategorizeError(wrapped, "scanner", "RunCycle")
	require.NotNil(t, got)
	assert.Equal(t, ErrorCategoryRateLimit, got.Category)
	assert.Same(t, orig, got)
}

func TestCategorizeError_Timeouts(t *testing.T) {
	assert.Equal(t, ErrorCategoryTimeout, CategoryOf(context.DeadlineExceeded))
	assert.Equal(t, ErrorCategoryTimeout, CategoryOf(fmt.Errorf("get: %w", timeoutErr{})))
}

func TestCategorizeError_ByMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorCategory
	}{
		{"dial tcp: lookup api.binance.com: no such host", ErrorCategoryNetwork},
		{"too many requests", ErrorCategoryRateLimit},
		{"failed to decode klines response: EOF", ErrorCategoryParse},
		{"something odd", ErrorCategoryTemporary},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(stderrors.New(tt.msg)))
		})
	}
}

func TestCategoryOf_Nil(t *testing.T) {
	assert.Equal(t, ErrorCategory(""), CategoryOf(nil))
	assert.Nil(t, CategorizeError(nil, "a", "b"))
}

func TestBotError_Flags(t *testing.T) {
	cfgErr := NewConfigurationError("config", "Validate", "BOT_TOKEN is required")
	assert.True(t, cfgErr.IsFatal())
	assert.False(t, cfgErr.IsRetryable())
	assert.Contains(t, cfgErr.Error(), "BOT_TOKEN is required")

	parseErr := NewParseError("binance", "GetKlines", stderrors.New("bad float"))
	assert.False(t, parseErr.IsFatal())
	assert.False(t, parseErr.IsRetryable())
	assert.ErrorContains(t, parseErr, "bad float")

	netErr := NewNetworkError("binance", "GetKlines", stderrors.New("reset")).WithContext("symbol", "SOLUSDT")
	assert.True(t, netErr.IsRetryable())
	assert.Equal(t, "SOLUSDT", netErr.Context["symbol"])
}
