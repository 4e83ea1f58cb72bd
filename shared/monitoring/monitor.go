package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor records per-request analysis outcomes. It is shared across
// concurrent requests, so all state is mutex-guarded.
type Monitor struct {
	mu             sync.Mutex
	analyses       int
	failures       int
	lastRunSuccess bool
	lastRunTime    time.Time
	lastSummary    string
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// RecordSuccess notes a completed analysis. Fallback classification still
// counts as success; only fetch-side failures are recorded as failures.
func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses++
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.lastSummary = summary

	log.Printf("Analysis completed - %s (took %v)", summary, duration)
}

func (m *Monitor) RecordFailure(err error, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses++
	m.failures++
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.lastSummary = err.Error()

	log.Printf("Analysis failed: %v (took %v)", err, duration)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastRunTime.IsZero() {
		return "No analyses yet"
	}

	state := "ok"
	if !m.lastRunSuccess {
		state = "failed"
	}
	return fmt.Sprintf("%d analyses (%d failed), last run %s at %s: %s",
		m.analyses, m.failures, state, m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
}
