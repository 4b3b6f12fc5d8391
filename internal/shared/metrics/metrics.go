package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	recognitionStartedTotal   atomic.Uint64
	recognitionCompletedTotal atomic.Uint64
	recognitionFailedTotal    atomic.Uint64
	entitlementGrantedTotal   atomic.Uint64

	recognitionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncRecognitionStarted increments the started counter.
func IncRecognitionStarted() {
	recognitionStartedTotal.Add(1)
}

// IncRecognitionCompleted increments the completed counter.
func IncRecognitionCompleted() {
	recognitionCompletedTotal.Add(1)
}

// IncRecognitionFailed increments the failed counter.
func IncRecognitionFailed() {
	recognitionFailedTotal.Add(1)
}

// IncEntitlementGranted increments the grant counter.
func IncEntitlementGranted() {
	entitlementGrantedTotal.Add(1)
}

// ObserveRecognitionDurationMs records a recognition duration in milliseconds.
func ObserveRecognitionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	recognitionDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "recognition_started_total", "Total recognitions started", recognitionStartedTotal.Load())
	writeCounter(&buf, "recognition_completed_total", "Total recognitions completed", recognitionCompletedTotal.Load())
	writeCounter(&buf, "recognition_failed_total", "Total recognitions failed", recognitionFailedTotal.Load())
	writeCounter(&buf, "entitlement_granted_total", "Total entitlements granted", entitlementGrantedTotal.Load())
	writeHistogram(&buf, "recognition_duration_ms", "Recognition duration in milliseconds", recognitionDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
