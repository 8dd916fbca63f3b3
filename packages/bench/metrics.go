package bench

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1ns to 10s, 3 significant digits
const (
	minLatency = 1
	maxLatency = int64(10 * time.Second)
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency, maxLatency, 3)
}

// Metrics collects parse durations and counters for a run
type Metrics struct {
	mu sync.Mutex

	parses      atomic.Int64
	failures    atomic.Int64
	diagnostics atomic.Int64
	bytes       atomic.Int64

	histogram *hdrhistogram.Histogram
	files     map[string]*FileMetrics

	startTime time.Time
	endTime   time.Time
}

// FileMetrics holds metrics for one source file
type FileMetrics struct {
	Name        string
	Size        int
	Parses      int64
	Diagnostics int
	Histogram   *hdrhistogram.Histogram
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		histogram: newHistogram(),
		files:     make(map[string]*FileMetrics),
	}
}

// Start marks the beginning of the run
func (m *Metrics) Start() {
	m.startTime = time.Now()
}

// Stop marks the end of the run
func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one parse of a file. diagnostics is the number of
// diagnostics the document carried; failed marks a parse that returned an
// error instead of a document.
func (m *Metrics) Record(name string, size int, duration time.Duration, diagnostics int, failed bool) {
	m.parses.Add(1)
	m.bytes.Add(int64(size))
	if failed {
		m.failures.Add(1)
	}
	if diagnostics > 0 {
		m.diagnostics.Add(1)
	}

	latency := clamp(duration.Nanoseconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.histogram.RecordValue(latency)

	fm, ok := m.files[name]
	if !ok {
		fm = &FileMetrics{Name: name, Size: size, Histogram: newHistogram()}
		m.files[name] = fm
	}
	fm.Parses++
	fm.Diagnostics = diagnostics
	_ = fm.Histogram.RecordValue(latency)
}

func clamp(ns int64) int64 {
	if ns < minLatency {
		return minLatency
	}
	if ns > maxLatency {
		return maxLatency
	}
	return ns
}

// Summary is the final report of a run
type Summary struct {
	RunID    string        `json:"runId"`
	Duration time.Duration `json:"duration"`
	Workers  int           `json:"workers"`

	Parses      int64 `json:"parses"`
	Failures    int64 `json:"failures"`
	Diagnostics int64 `json:"withDiagnostics"`
	Bytes       int64 `json:"bytes"`

	Throughput float64 `json:"throughput"` // parses per second
	MBPerSec   float64 `json:"mbPerSec"`

	P50    time.Duration `json:"p50"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`

	Files      []FileSummary     `json:"files"`
	Thresholds []ThresholdResult `json:"thresholds,omitempty"`
}

// FileSummary holds the summary for one source file
type FileSummary struct {
	Name        string        `json:"name"`
	Size        int           `json:"size"`
	Parses      int64         `json:"parses"`
	Diagnostics int           `json:"diagnostics"`
	P50         time.Duration `json:"p50"`
	P99         time.Duration `json:"p99"`
	Mean        time.Duration `json:"mean"`
}

// Passed reports whether every evaluated threshold held
func (s *Summary) Passed() bool {
	for _, r := range s.Thresholds {
		if !r.Passed {
			return false
		}
	}
	return true
}

// GetSummary returns the metrics summary
func (m *Metrics) GetSummary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	parses := m.parses.Load()
	bytes := m.bytes.Load()

	var throughput, mbPerSec float64
	if duration.Seconds() > 0 {
		throughput = float64(parses) / duration.Seconds()
		mbPerSec = float64(bytes) / (1 << 20) / duration.Seconds()
	}

	summary := &Summary{
		Duration:    duration,
		Parses:      parses,
		Failures:    m.failures.Load(),
		Diagnostics: m.diagnostics.Load(),
		Bytes:       bytes,
		Throughput:  throughput,
		MBPerSec:    mbPerSec,
		P50:         time.Duration(m.histogram.ValueAtQuantile(50)),
		P95:         time.Duration(m.histogram.ValueAtQuantile(95)),
		P99:         time.Duration(m.histogram.ValueAtQuantile(99)),
		Min:         time.Duration(m.histogram.Min()),
		Max:         time.Duration(m.histogram.Max()),
		Mean:        time.Duration(m.histogram.Mean()),
		StdDev:      time.Duration(m.histogram.StdDev()),
		Files:       make([]FileSummary, 0, len(m.files)),
	}

	for _, fm := range m.files {
		summary.Files = append(summary.Files, FileSummary{
			Name:        fm.Name,
			Size:        fm.Size,
			Parses:      fm.Parses,
			Diagnostics: fm.Diagnostics,
			P50:         time.Duration(fm.Histogram.ValueAtQuantile(50)),
			P99:         time.Duration(fm.Histogram.ValueAtQuantile(99)),
			Mean:        time.Duration(fm.Histogram.Mean()),
		})
	}
	sort.Slice(summary.Files, func(i, j int) bool {
		return summary.Files[i].Name < summary.Files[j].Name
	})

	return summary
}

// EvaluateThresholds evaluates the thresholds against the summary
func EvaluateThresholds(summary *Summary, t Thresholds) []ThresholdResult {
	var results []ThresholdResult

	latency := func(name string, limit, actual time.Duration) {
		if limit > 0 {
			results = append(results, ThresholdResult{
				Name:     name,
				Passed:   actual <= limit,
				Expected: "< " + limit.String(),
				Actual:   actual.String(),
			})
		}
	}
	latency("p50", t.P50, summary.P50)
	latency("p95", t.P95, summary.P95)
	latency("p99", t.P99, summary.P99)
	latency("max latency", t.MaxLatency, summary.Max)

	if t.MinThroughput > 0 {
		results = append(results, ThresholdResult{
			Name:     "throughput",
			Passed:   summary.Throughput >= t.MinThroughput,
			Expected: "> " + formatFloat(t.MinThroughput),
			Actual:   formatFloat(summary.Throughput),
		})
	}

	return results
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
