package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/alerts"
)

const (
	StatusStarting = "starting"
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	maxHealthErrors = 20
)

// AlertSource exposes the de-duplication state for the health report
type AlertSource interface {
	Snapshot() []alerts.Key
	Recent() []alerts.Alert
}

type HealthChecker struct {
	mu             sync.RWMutex
	startTime      time.Time
	pollPeriod     time.Duration
	lastCycle      time.Time
	lastDuration   time.Duration
	cycles         int
	symbolsScanned int
	symbolsFailed  int
	errors         []string
	alerts         AlertSource
	now            func() time.Time
}

type ActiveFlag struct {
	Symbol    string `json:"symbol"`
	Direction string `json:"direction"`
}

type HealthStatus struct {
	Status         string         `json:"status"`
	Timestamp      time.Time      `json:"timestamp"`
	Uptime         string         `json:"uptime"`
	Cycles         int            `json:"cycles"`
	LastCycle      time.Time      `json:"last_cycle,omitempty"`
	LastDuration   string         `json:"last_cycle_duration,omitempty"`
	SymbolsScanned int            `json:"symbols_scanned"`
	SymbolsFailed  int            `json:"symbols_failed"`
	ActiveFlags    []ActiveFlag   `json:"active_flags"`
	RecentAlerts   []alerts.Alert `json:"recent_alerts"`
	Errors         []string       `json:"errors,omitempty"`
}

// NewHealthChecker reports degraded once no cycle has completed within three
// poll periods.
func NewHealthChecker(pollPeriod time.Duration, source AlertSource) *HealthChecker {
	return &HealthChecker{
		startTime:  time.Now(),
		pollPeriod: pollPeriod,
		errors:     make([]string, 0),
		alerts:     source,
		now:        time.Now,
	}
}

// RecordCycle stores the outcome of a completed scan cycle
func (h *HealthChecker) RecordCycle(finished time.Time, duration time.Duration, scanned, failed int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastCycle = finished
	h.lastDuration = duration
	h.symbolsScanned = scanned
	h.symbolsFailed = failed
	h.cycles++
}

// AddError keeps the most recent errors, oldest dropped first
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.errors = append(h.errors, msg)
	if len(h.errors) > maxHealthErrors {
		h.errors = h.errors[len(h.errors)-maxHealthErrors:]
	}
}

// Status builds the current health report
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.now()
	stale := 3 * h.pollPeriod

	status := StatusHealthy
	switch {
	case h.lastCycle.IsZero() && now.Sub(h.startTime) <= stale:
		status = StatusStarting
	case h.lastCycle.IsZero() || now.Sub(h.lastCycle) > stale:
		status = StatusDegraded
	}

	health := HealthStatus{
		Status:         status,
		Timestamp:      now,
		Uptime:         now.Sub(h.startTime).Round(time.Second).String(),
		Cycles:         h.cycles,
		LastCycle:      h.lastCycle,
		SymbolsScanned: h.symbolsScanned,
		SymbolsFailed:  h.symbolsFailed,
		ActiveFlags:    []ActiveFlag{},
		RecentAlerts:   []alerts.Alert{},
		Errors:         append([]string(nil), h.errors...),
	}
	if h.cycles > 0 {
		health.LastDuration = h.lastDuration.Round(time.Millisecond).String()
	}
	if h.alerts != nil {
		for _, k := range h.alerts.Snapshot() {
			health.ActiveFlags = append(health.ActiveFlags, ActiveFlag{Symbol: k.Symbol, Direction: k.Direction.String()})
		}
		health.RecentAlerts = append(health.RecentAlerts, h.alerts.Recent()...)
	}
	return health
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusDegraded {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(health)
}
