package reporting

import (
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/scanner"
)

// ScanRow is one symbol of a cycle report flattened for output
type ScanRow struct {
	Symbol    string
	Close     float64
	Midpoint  float64
	VWAP      float64
	ATR       float64
	Touch     bool
	Direction string
	TP        float64
	SL        float64
	Status    string
	HasValues bool // false when the symbol failed or was skipped
	Signal    bool // TP and SL are set
}

var scanHeaders = []string{"Symbol", "Close", "Mid", "VWAP", "ATR", "Touch", "Signal", "TP", "SL", "Status"}

// Rows flattens a cycle report, one row per scanned symbol in scan order
func Rows(report scanner.CycleReport) []ScanRow {
	rows := make([]ScanRow, 0, len(report.Results))
	for _, res := range report.Results {
		row := ScanRow{Symbol: res.Symbol, Status: status(res)}
		if e := res.Evaluation; e != nil {
			row.HasValues = true
			row.Close = e.LastClose
			row.Midpoint = e.Midpoint
			row.VWAP = e.VWAP
			row.ATR = e.ATR
			row.Touch = e.Touch
			row.Direction = e.Direction.String()
			if e.IsSignal() {
				row.Signal = true
				row.TP = e.TakeProfit
				row.SL = e.StopLoss
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func status(res scanner.SymbolResult) string {
	switch {
	case res.Err != nil:
		return "error: " + res.Err.Error()
	case res.Skipped:
		return "skipped: not enough candles"
	case res.NotifyErr != nil:
		return "notify failed: " + res.NotifyErr.Error()
	case res.Notified:
		return "notified"
	case res.Suppressed:
		return "already notified"
	default:
		return "ok"
	}
}
