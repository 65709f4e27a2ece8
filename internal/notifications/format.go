package notifications

import (
	"fmt"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
)

// FormatSignal renders the alert text for a signal evaluation. The leveraged
// percentages are fixed labels derived from the multipliers.
func FormatSignal(eval *strategy.Evaluation) string {
	tpPct := strategy.TPMultiplier * 100
	slPct := strategy.SLMultiplier * 100

	return fmt.Sprintf("🔔 %s %s\nSymbol: %s\nSignal: %s\nEntry: %.4f\nTP: %.4f  (%d× ≈ +%.0f%%)\nSL: %.4f  (%d× ≈ -%.0f%%)",
		"MIDPOINT-REV", strategy.Interval,
		eval.Symbol,
		eval.Direction,
		eval.Entry,
		eval.TakeProfit, strategy.Leverage, tpPct,
		eval.StopLoss, strategy.Leverage, slPct,
	)
}
