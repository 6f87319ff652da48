package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the HTTP surface and the
// SLA watchdog.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64

	cyclesRun            int64
	complaintsEscalated  int64
	partialWriteFailures int64
	advisoryFallbacks    int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordCycle increments the watchdog cycle counter and adds the number of
// complaints escalated during that cycle.
func (m *Metrics) RecordCycle(escalated int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cyclesRun++
	m.complaintsEscalated += int64(escalated)
}

// RecordPartialWriteFailure counts a timeline/audit append that failed after
// the authoritative field update committed.
func (m *Metrics) RecordPartialWriteFailure() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partialWriteFailures++
}

// RecordAdvisoryFallback counts an enrichment that resolved to the
// deterministic fallback message.
func (m *Metrics) RecordAdvisoryFallback() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisoryFallbacks++
}

// WatchdogSnapshot is a point-in-time view of the watchdog counters.
type WatchdogSnapshot struct {
	CyclesRun            int64 `json:"cycles_run"`
	ComplaintsEscalated  int64 `json:"complaints_escalated"`
	PartialWriteFailures int64 `json:"partial_write_failures"`
	AdvisoryFallbacks    int64 `json:"advisory_fallbacks"`
}

// Watchdog returns the current watchdog counters.
func (m *Metrics) Watchdog() WatchdogSnapshot {
	if m == nil {
		return WatchdogSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return WatchdogSnapshot{
		CyclesRun:            m.cyclesRun,
		ComplaintsEscalated:  m.complaintsEscalated,
		PartialWriteFailures: m.partialWriteFailures,
		AdvisoryFallbacks:    m.advisoryFallbacks,
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
