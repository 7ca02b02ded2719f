package provider

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"
)

// ModelStatus represents the health state of a model.
type ModelStatus int

const (
	StatusHealthy   ModelStatus = iota // answering normally
	StatusDegraded                     // slow or failing often
	StatusThrottled                    // returning 429 / RESOURCE_EXHAUSTED
)

func (s ModelStatus) String() string {
	switch s {
	case StatusDegraded:
		return "degraded"
	case StatusThrottled:
		return "throttled"
	default:
		return "healthy"
	}
}

// ModelStats holds monitoring statistics for one model.
type ModelStats struct {
	Model          string        `json:"model"`
	Status         string        `json:"status"`
	AverageLatency time.Duration `json:"average_latency"`
	Successes      int           `json:"successes"`
	Failures       int           `json:"failures"`
	ThrottleCount  int           `json:"throttle_count"`
	LastError      string        `json:"last_error,omitempty"`
	LastErrorAt    time.Time     `json:"last_error_at,omitzero"`
}

type modelState struct {
	latencies     []time.Duration
	successes     int
	failures      int
	recent        []bool // true = failure, sliding window
	throttleCount int
	lastThrottle  time.Time
	lastError     string
	lastErrorAt   time.Time
}

// Monitor tracks per-model latency, failures and throttling.
// It is observational only: it never reorders or skips candidates.
type Monitor struct {
	mu     sync.RWMutex
	models map[string]*modelState

	window            int
	slowThreshold     time.Duration
	degradedThreshold float64
	throttleCooldown  time.Duration
	now               func() time.Time
}

// NewMonitor creates a monitor with default thresholds.
func NewMonitor() *Monitor {
	return &Monitor{
		models:            make(map[string]*modelState),
		window:            50,
		slowThreshold:     20 * time.Second,
		degradedThreshold: 0.3, // 30% error rate
		throttleCooldown:  time.Minute,
		now:               time.Now,
	}
}

func (m *Monitor) state(model string) *modelState {
	st, ok := m.models[model]
	if !ok {
		st = &modelState{}
		m.models[model] = st
	}
	return st
}

func (m *Monitor) push(st *modelState, failed bool) {
	st.recent = append(st.recent, failed)
	if len(st.recent) > m.window {
		st.recent = st.recent[1:]
	}
}

// RecordSuccess records a successful call with its latency.
func (m *Monitor) RecordSuccess(model string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(model)
	st.successes++
	st.latencies = append(st.latencies, latency)
	if len(st.latencies) > m.window {
		st.latencies = st.latencies[1:]
	}
	m.push(st, false)
}

// RecordFailure records a failed call.
func (m *Monitor) RecordFailure(model string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state(model)
	st.failures++
	m.push(st, true)
	st.lastErrorAt = m.now()
	if err != nil {
		st.lastError = err.Error()
	}
	if StatusOf(err) == http.StatusTooManyRequests || isExhausted(err) {
		st.throttleCount++
		st.lastThrottle = st.lastErrorAt
	}
}

func isExhausted(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeResourceExhausted
}

// Status returns the current status of model.
func (m *Monitor) Status(model string) ModelStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.models[model]
	if !ok {
		return StatusHealthy
	}
	return m.statusLocked(st)
}

func (m *Monitor) statusLocked(st *modelState) ModelStatus {
	if !st.lastThrottle.IsZero() && m.now().Sub(st.lastThrottle) < m.throttleCooldown {
		return StatusThrottled
	}

	if len(st.recent) >= 5 {
		failed := 0
		for _, f := range st.recent {
			if f {
				failed++
			}
		}
		if float64(failed)/float64(len(st.recent)) > m.degradedThreshold {
			return StatusDegraded
		}
	}

	if avg := average(st.latencies); len(st.latencies) >= 5 && avg > m.slowThreshold {
		return StatusDegraded
	}
	return StatusHealthy
}

func average(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	var total time.Duration
	for _, v := range values {
		total += v
	}
	return total / time.Duration(len(values))
}

// Snapshot returns stats for every observed model, sorted by name.
func (m *Monitor) Snapshot() []ModelStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ModelStats, 0, len(m.models))
	for name, st := range m.models {
		out = append(out, ModelStats{
			Model:          name,
			Status:         m.statusLocked(st).String(),
			AverageLatency: average(st.latencies),
			Successes:      st.successes,
			Failures:       st.failures,
			ThrottleCount:  st.throttleCount,
			LastError:      st.lastError,
			LastErrorAt:    st.lastErrorAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}
