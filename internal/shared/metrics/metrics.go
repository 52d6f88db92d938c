package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	generationStartedTotal   atomic.Uint64
	generationCompletedTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64

	feedbackStartedTotal   atomic.Uint64
	feedbackCompletedTotal atomic.Uint64
	feedbackFailedTotal    atomic.Uint64

	sessionStartedTotal  atomic.Uint64
	sessionFinishedTotal atomic.Uint64

	generationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncGenerationStarted increments the question-generation started counter.
func IncGenerationStarted() {
	generationStartedTotal.Add(1)
}

// IncGenerationCompleted increments the question-generation completed counter.
func IncGenerationCompleted() {
	generationCompletedTotal.Add(1)
}

// IncGenerationFailed increments the question-generation failed counter.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncFeedbackStarted increments the feedback-generation started counter.
func IncFeedbackStarted() {
	feedbackStartedTotal.Add(1)
}

// IncFeedbackCompleted increments the feedback-generation completed counter.
func IncFeedbackCompleted() {
	feedbackCompletedTotal.Add(1)
}

// IncFeedbackFailed increments the feedback-generation failed counter.
func IncFeedbackFailed() {
	feedbackFailedTotal.Add(1)
}

// IncSessionStarted increments the session started counter.
func IncSessionStarted() {
	sessionStartedTotal.Add(1)
}

// IncSessionFinished increments the session finished counter.
func IncSessionFinished() {
	sessionFinishedTotal.Add(1)
}

// ObserveGenerationDurationMs records a question-generation duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
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
	writeCounter(&buf, "generation_started_total", "Total question generations started", generationStartedTotal.Load())
	writeCounter(&buf, "generation_completed_total", "Total question generations completed", generationCompletedTotal.Load())
	writeCounter(&buf, "generation_failed_total", "Total question generations failed", generationFailedTotal.Load())
	writeCounter(&buf, "feedback_started_total", "Total feedback generations started", feedbackStartedTotal.Load())
	writeCounter(&buf, "feedback_completed_total", "Total feedback generations completed", feedbackCompletedTotal.Load())
	writeCounter(&buf, "feedback_failed_total", "Total feedback generations failed", feedbackFailedTotal.Load())
	writeCounter(&buf, "session_started_total", "Total voice sessions started", sessionStartedTotal.Load())
	writeCounter(&buf, "session_finished_total", "Total voice sessions finished", sessionFinishedTotal.Load())
	writeHistogram(&buf, "generation_duration_ms", "Question generation duration in milliseconds", generationDuration.Snapshot())
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
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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
