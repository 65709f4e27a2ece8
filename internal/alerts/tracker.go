// Package alerts keeps the in-memory record of which (symbol, direction)
// pairs have already been notified. Nothing here survives a restart.
package alerts

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/strategy"
	"github.com/ducminhle1904/midpoint-reversal-bot/pkg/types"
)

// Key identifies one flagged signal
type Key struct {
	Symbol    string
	Direction types.Direction
}

// Alert is a notification that was delivered
type Alert struct {
	ID         string               `json:"id"`
	Symbol     string               `json:"symbol"`
	Direction  types.Direction      `json:"direction"`
	Entry      float64              `json:"entry"`
	TakeProfit float64              `json:"take_profit"`
	StopLoss   float64              `json:"stop_loss"`
	SentAt     time.Time            `json:"sent_at"`
	Evaluation *strategy.Evaluation `json:"-"`
}

// Tracker is the de-duplication set plus a bounded history of recent alerts
type Tracker struct {
	mu        sync.RWMutex
	flagged   map[Key]struct{}
	recent    []Alert
	maxRecent int
	now       func() time.Time
}

// NewTracker creates a tracker keeping up to maxRecent delivered alerts
func NewTracker(maxRecent int) *Tracker {
	if maxRecent < 0 {
		maxRecent = 0
	}
	return &Tracker{
		flagged:   make(map[Key]struct{}),
		recent:    make([]Alert, 0, maxRecent),
		maxRecent: maxRecent,
		now:       time.Now,
	}
}

// ShouldNotify reports whether dir is a signal not yet flagged for symbol
func (t *Tracker) ShouldNotify(symbol string, dir types.Direction) bool {
	if !dir.IsSignal() {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.flagged[Key{symbol, dir}]
	return !ok
}

// Reconcile drops flags whose condition no longer holds. With no signal
// both directions are cleared, otherwise only the opposite one.
func (t *Tracker) Reconcile(symbol string, dir types.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if dir.IsSignal() {
		delete(t.flagged, Key{symbol, dir.Opposite()})
		return
	}
	delete(t.flagged, Key{symbol, types.DirectionBuy})
	delete(t.flagged, Key{symbol, types.DirectionSell})
}

// MarkSent flags the evaluation's (symbol, direction) and records the alert.
// Call it only after the notification was delivered.
func (t *Tracker) MarkSent(eval *strategy.Evaluation) Alert {
	alert := Alert{
		ID:         uuid.New().String(),
		Symbol:     eval.Symbol,
		Direction:  eval.Direction,
		Entry:      eval.Entry,
		TakeProfit: eval.TakeProfit,
		StopLoss:   eval.StopLoss,
		SentAt:     t.now(),
		Evaluation: eval,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.flagged[Key{eval.Symbol, eval.Direction}] = struct{}{}
	if t.maxRecent > 0 {
		t.recent = append(t.recent, alert)
		if len(t.recent) > t.maxRecent {
			t.recent = t.recent[len(t.recent)-t.maxRecent:]
		}
	}
	return alert
}

// IsFlagged reports whether the pair is currently suppressed
func (t *Tracker) IsFlagged(symbol string, dir types.Direction) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.flagged[Key{symbol, dir}]
	return ok
}

// Snapshot returns the flagged pairs sorted by symbol then direction
func (t *Tracker) Snapshot() []Key {
	t.mu.RLock()
	keys := make([]Key, 0, len(t.flagged))
	for k := range t.flagged {
		keys = append(keys, k)
	}
	t.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Symbol != keys[j].Symbol {
			return keys[i].Symbol < keys[j].Symbol
		}
		return keys[i].Direction < keys[j].Direction
	})
	return keys
}

// Recent returns delivered alerts, newest last
func (t *Tracker) Recent() []Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Alert, len(t.recent))
	copy(out, t.recent)
	return out
}
