// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sdk

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// ConnectorMetrics tracks metrics for a connector. Reads are listings,
// downloads and lookups; writes are folder creations and uploads.
type ConnectorMetrics struct {
	connectorType string

	// Counters
	readsTotal       int64
	writesTotal      int64
	errorsTotal      int64
	bytesTotal       int64
	connectsTotal    int64
	disconnectsTotal int64

	// Durations (nanoseconds)
	readDurationTotal  int64
	writeDurationTotal int64

	// Current state
	connected int32

	readLatencies  *LatencyHistogram
	writeLatencies *LatencyHistogram
}

// NewConnectorMetrics creates a new metrics collector
func NewConnectorMetrics(connectorType string) *ConnectorMetrics {
	return &ConnectorMetrics{
		connectorType:  connectorType,
		readLatencies:  NewLatencyHistogram(),
		writeLatencies: NewLatencyHistogram(),
	}
}

// RecordRead records a read operation
func (m *ConnectorMetrics) RecordRead(duration time.Duration, err error) {
	atomic.AddInt64(&m.readsTotal, 1)
	atomic.AddInt64(&m.readDurationTotal, int64(duration))
	if err != nil {
		atomic.AddInt64(&m.errorsTotal, 1)
	}
	m.readLatencies.Record(duration)
}

// RecordWrite records a write operation
func (m *ConnectorMetrics) RecordWrite(duration time.Duration, err error) {
	atomic.AddInt64(&m.writesTotal, 1)
	atomic.AddInt64(&m.writeDurationTotal, int64(duration))
	if err != nil {
		atomic.AddInt64(&m.errorsTotal, 1)
	}
	m.writeLatencies.Record(duration)
}

// RecordBytes adds n to the transferred byte count
func (m *ConnectorMetrics) RecordBytes(n int64) {
	if n > 0 {
		atomic.AddInt64(&m.bytesTotal, n)
	}
}

// RecordConnect records a connect operation
func (m *ConnectorMetrics) RecordConnect() {
	atomic.AddInt64(&m.connectsTotal, 1)
	atomic.StoreInt32(&m.connected, 1)
}

// RecordDisconnect records a disconnect operation
func (m *ConnectorMetrics) RecordDisconnect() {
	atomic.AddInt64(&m.disconnectsTotal, 1)
	atomic.StoreInt32(&m.connected, 0)
}

// RecordError records an error outside of a timed operation
func (m *ConnectorMetrics) RecordError() {
	atomic.AddInt64(&m.errorsTotal, 1)
}

// GetStats returns current metrics
func (m *ConnectorMetrics) GetStats() *MetricsSnapshot {
	reads := atomic.LoadInt64(&m.readsTotal)
	writes := atomic.LoadInt64(&m.writesTotal)

	var avgRead, avgWrite time.Duration
	if reads > 0 {
		avgRead = time.Duration(atomic.LoadInt64(&m.readDurationTotal) / reads)
	}
	if writes > 0 {
		avgWrite = time.Duration(atomic.LoadInt64(&m.writeDurationTotal) / writes)
	}

	return &MetricsSnapshot{
		ConnectorType:    m.connectorType,
		ReadsTotal:       reads,
		WritesTotal:      writes,
		ErrorsTotal:      atomic.LoadInt64(&m.errorsTotal),
		BytesTotal:       atomic.LoadInt64(&m.bytesTotal),
		ConnectsTotal:    atomic.LoadInt64(&m.connectsTotal),
		DisconnectsTotal: atomic.LoadInt64(&m.disconnectsTotal),
		Connected:        atomic.LoadInt32(&m.connected) == 1,
		AvgReadLatency:   avgRead,
		AvgWriteLatency:  avgWrite,
		ReadLatencyP50:   m.readLatencies.Percentile(0.5),
		ReadLatencyP95:   m.readLatencies.Percentile(0.95),
		WriteLatencyP50:  m.writeLatencies.Percentile(0.5),
		WriteLatencyP95:  m.writeLatencies.Percentile(0.95),
	}
}

// Reset resets all metrics
func (m *ConnectorMetrics) Reset() {
	atomic.StoreInt64(&m.readsTotal, 0)
	atomic.StoreInt64(&m.writesTotal, 0)
	atomic.StoreInt64(&m.errorsTotal, 0)
	atomic.StoreInt64(&m.bytesTotal, 0)
	atomic.StoreInt64(&m.connectsTotal, 0)
	atomic.StoreInt64(&m.disconnectsTotal, 0)
	atomic.StoreInt64(&m.readDurationTotal, 0)
	atomic.StoreInt64(&m.writeDurationTotal, 0)

	m.readLatencies.Reset()
	m.writeLatencies.Reset()
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	ConnectorType    string        `json:"connector_type"`
	ReadsTotal       int64         `json:"reads_total"`
	WritesTotal      int64         `json:"writes_total"`
	ErrorsTotal      int64         `json:"errors_total"`
	BytesTotal       int64         `json:"bytes_total"`
	ConnectsTotal    int64         `json:"connects_total"`
	DisconnectsTotal int64         `json:"disconnects_total"`
	Connected        bool          `json:"connected"`
	AvgReadLatency   time.Duration `json:"avg_read_latency"`
	AvgWriteLatency  time.Duration `json:"avg_write_latency"`
	ReadLatencyP50   time.Duration `json:"read_latency_p50"`
	ReadLatencyP95   time.Duration `json:"read_latency_p95"`
	WriteLatencyP50  time.Duration `json:"write_latency_p50"`
	WriteLatencyP95  time.Duration `json:"write_latency_p95"`
}

// LatencyHistogram keeps a bounded window of samples for percentile queries
type LatencyHistogram struct {
	samples []time.Duration
	maxSize int
	mu      sync.Mutex
}

// NewLatencyHistogram creates a new latency histogram
func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{
		samples: make([]time.Duration, 0, 256),
		maxSize: 4096,
	}
}

// Record adds a latency sample, dropping the oldest half once full
func (h *LatencyHistogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) >= h.maxSize {
		h.samples = h.samples[len(h.samples)/2:]
	}
	h.samples = append(h.samples, d)
}

// Percentile calculates the given percentile
func (h *LatencyHistogram) Percentile(p float64) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(h.samples))
	copy(sorted, h.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return sorted[int(float64(len(sorted)-1)*p)]
}

// Reset clears all samples
func (h *LatencyHistogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
}

// Count returns the number of samples
func (h *LatencyHistogram) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// AggregateMetrics collects the metrics of every connector in the process
type AggregateMetrics struct {
	connectors map[string]*ConnectorMetrics
	mu         sync.RWMutex
}

// NewAggregateMetrics creates a new aggregate metrics collector
func NewAggregateMetrics() *AggregateMetrics {
	return &AggregateMetrics{
		connectors: make(map[string]*ConnectorMetrics),
	}
}

// Add adds a connector's metrics to the aggregate
func (a *AggregateMetrics) Add(name string, metrics *ConnectorMetrics) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectors[name] = metrics
}

// Remove removes a connector's metrics from the aggregate
func (a *AggregateMetrics) Remove(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.connectors, name)
}

// GetAll returns all connector snapshots
func (a *AggregateMetrics) GetAll() map[string]*MetricsSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make(map[string]*MetricsSnapshot, len(a.connectors))
	for name, m := range a.connectors {
		result[name] = m.GetStats()
	}
	return result
}

// GetTotal returns aggregated totals
func (a *AggregateMetrics) GetTotal() *MetricsSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	total := &MetricsSnapshot{ConnectorType: "all"}
	for _, m := range a.connectors {
		stats := m.GetStats()
		total.ReadsTotal += stats.ReadsTotal
		total.WritesTotal += stats.WritesTotal
		total.ErrorsTotal += stats.ErrorsTotal
		total.BytesTotal += stats.BytesTotal
		total.ConnectsTotal += stats.ConnectsTotal
		total.DisconnectsTotal += stats.DisconnectsTotal
		total.Connected = total.Connected || stats.Connected
	}
	return total
}

// OperationTimer provides convenient timing for operations
type OperationTimer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *OperationTimer {
	return &OperationTimer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was started
func (t *OperationTimer) Duration() time.Duration {
	return time.Since(t.start)
}

// RecordTo records the duration to the given callback
func (t *OperationTimer) RecordTo(record func(time.Duration, error), err error) {
	record(t.Duration(), err)
}
