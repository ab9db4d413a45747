// Package middleware wraps the metrics server's mux in the request
// pipeline cmd serve actually runs: trace id propagation, structured
// access logging, and a request counter/latency histogram collected
// alongside the rest of internal/metrics' prometheus surface.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// responseWriter wraps http.ResponseWriter to capture the status code a
// handler wrote, since http.ResponseWriter has no getter for it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagprostats_http_requests_total",
			Help: "Total number of HTTP requests served, by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagprostats_http_request_duration_seconds",
			Help:    "Duration of an HTTP request served by cmd serve",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RequestMetrics records a prometheus counter and duration histogram for
// every request, exposed alongside the rest of internal/metrics at
// /metrics.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		requestDuration.Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(r.Method, r.URL.Path, http.StatusText(wrapped.statusCode)).Inc()
	})
}

// Logger logs each request's method, path, status, and duration through
// logger once the handler chain completes.
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.With(
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", duration,
				"trace_id", TraceIDFromContext(r.Context()),
			).Infof("%s %s %d %s", r.Method, r.URL.Path, wrapped.statusCode, duration)
		})
	}
}

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// TraceIDFromContext extracts the trace ID TraceMiddleware stored on ctx,
// or "" if none is present.
func TraceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// newTraceID generates a random 16-byte hex trace ID.
func newTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

// TraceMiddleware attaches a trace ID to the request context — taken
// from the X-Trace-ID header if the caller set one, generated otherwise —
// and echoes it back in the response header so a caller can correlate
// its request against the access log.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = newTraceID()
		}

		ctx := context.WithValue(r.Context(), traceIDKey, traceID)
		w.Header().Set("X-Trace-ID", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
