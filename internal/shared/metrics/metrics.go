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
	outreachStartedTotal  atomic.Uint64
	outreachAcceptedTotal atomic.Uint64
	outreachRetriedTotal  atomic.Uint64
	outreachFailedTotal   atomic.Uint64

	outreachDuration = newHistogram([]float64{500, 1000, 2500, 5000, 10000, 20000, 45000, 90000})
)

// IncOutreachStarted counts a generation that passed the ownership check.
func IncOutreachStarted() {
	outreachStartedTotal.Add(1)
}

// IncOutreachAccepted counts a generation that produced a usable draft.
func IncOutreachAccepted() {
	outreachAcceptedTotal.Add(1)
}

// IncOutreachRetried counts a generation that needed its quality retry.
func IncOutreachRetried() {
	outreachRetriedTotal.Add(1)
}

// IncOutreachFailed counts a generation that ended in an error.
func IncOutreachFailed() {
	outreachFailedTotal.Add(1)
}

// ObserveOutreachDuration records the wall time of one generation.
func ObserveOutreachDuration(d time.Duration) {
	value := float64(d) / float64(time.Millisecond)
	if value < 0 {
		value = 0
	}
	outreachDuration.Observe(value)
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
	writeCounter(&buf, "outreach_generations_started_total", "Outreach generations started", outreachStartedTotal.Load())
	writeCounter(&buf, "outreach_generations_accepted_total", "Outreach generations accepted", outreachAcceptedTotal.Load())
	writeCounter(&buf, "outreach_generations_retried_total", "Outreach generations that used the retry", outreachRetriedTotal.Load())
	writeCounter(&buf, "outreach_generations_failed_total", "Outreach generations failed", outreachFailedTotal.Load())
	writeHistogram(&buf, "outreach_generation_duration_ms", "Outreach generation duration in milliseconds", outreachDuration.Snapshot())
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
