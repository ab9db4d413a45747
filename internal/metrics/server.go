package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"tagprostats.dev/engine/internal/middleware"
)

// Pinger is the subset of *sql.DB / *db.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the minimal HTTP surface `cmd serve` keeps running
// alongside the scheduler: health checks and metrics, nothing domain
// specific. The full stats API is out of scope for this rework.
type Server struct {
	mux *http.ServeMux
	db  Pinger
	rdb *redis.Client
	log *log.Logger
}

// NewServer wires /healthz and /metrics behind the trace/log/metrics
// middleware stack every request goes through. rdb may be nil when
// caching is disabled; the health check reports it as "disabled"
// rather than failing.
func NewServer(database Pinger, rdb *redis.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{mux: http.NewServeMux(), db: database, rdb: rdb, log: logger}

	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler returns the fully wrapped request handler: trace id
// propagation, structured access logging, and prometheus request
// metrics, in that order around the route mux.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = middleware.RequestMetrics(h)
	h = middleware.Logger(s.log)(h)
	h = middleware.TraceMiddleware(h)
	return h
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := healthStatus{Status: "ok", Database: "ok", Cache: "ok"}
	code := http.StatusOK

	if err := s.db.PingContext(ctx); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if s.rdb == nil {
		status.Cache = "disabled"
	} else if err := s.rdb.Ping(ctx).Err(); err != nil {
		status.Status = "degraded"
		status.Cache = "unreachable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

var _ Pinger = (*sql.DB)(nil)
