package scanner

import (
	"time"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
)

// SymbolResult is the outcome for one symbol in one cycle
type SymbolResult struct {
	Symbol     string
	Evaluation *strategy.Evaluation // nil when fetch or evaluation failed, or skipped

	Notified   bool // alert delivered this cycle
	Suppressed bool // signal holds but was already notified
	Skipped    bool // fewer candles than the detector needs

	Err       error // fetch or evaluation error
	NotifyErr error
}

// CycleReport summarizes one pass over the watch list
type CycleReport struct {
	Started   time.Time
	Duration  time.Duration
	Results   []SymbolResult
	Cancelled bool
}

// Signals counts symbols with a BUY or SELL this cycle, notified or not
func (r CycleReport) Signals() int {
	n := 0
	for _, res := range r.Results {
		if res.Evaluation.IsSignal() {
			n++
		}
	}
	return n
}

// Errors counts symbols whose fetch or evaluation failed
func (r CycleReport) Errors() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

func (r CycleReport) Notified() int {
	n := 0
	for _, res := range r.Results {
		if res.Notified {
			n++
		}
	}
	return n
}

// AllFailed reports whether no symbol could be scanned
func (r CycleReport) AllFailed() bool {
	return len(r.Results) > 0 && r.Errors() == len(r.Results)
}
