package timeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/goccy/go-json"

	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/metrics"
)

// LiveSourceConfig configures LiveSource's fetch endpoint, rate limit, and
// circuit breaker.
type LiveSourceConfig struct {
	BaseURL           string
	RequestsPerMinute int
	BreakerName       string
}

// DefaultBreakerSettings returns the circuit breaker tripping behind
// repeated live-fetch failures: opens after five straight failures, stays
// open a minute, then allows three half-open probes.
func DefaultBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// LiveSource is Component C1's fallback provider: an on-demand
// fetch-by-id for a single match the archive doesn't have cached yet.
// Rate-limited so batch reprocessing can't hammer the live host, and
// circuit-broken so a run of upstream failures stops retrying
// immediately rather than stacking up timeouts while the source is down.
type LiveSource struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[[]byte]
	perMinute  int

	redisLimiter *redis_rate.Limiter
	localLimiter *rate.Limiter
}

// NewLiveSource builds a LiveSource. If redisClient is nil (Redis
// unavailable, e.g. local/offline reprocessing), the limiter falls back
// to an in-process token bucket instead of disabling rate limiting
// outright.
func NewLiveSource(cfg LiveSourceConfig, redisClient *redis.Client) *LiveSource {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	name := cfg.BreakerName
	if name == "" {
		name = "timeline-live"
	}

	src := &LiveSource{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		baseURL:      cfg.BaseURL,
		breaker:      gobreaker.NewCircuitBreaker[[]byte](DefaultBreakerSettings(name)),
		perMinute:    perMinute,
		localLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
	if redisClient != nil {
		src.redisLimiter = redis_rate.NewLimiter(redisClient)
	}
	return src
}

func (s *LiveSource) wait(ctx context.Context) error {
	if s.redisLimiter == nil {
		return s.localLimiter.Wait(ctx)
	}
	for {
		res, err := s.redisLimiter.Allow(ctx, "timeline:live-fetch", redis_rate.PerMinute(s.perMinute))
		if err != nil {
			return fmt.Errorf("redis rate limit: %w", err)
		}
		if res.Allowed > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(res.RetryAfter):
		}
	}
}

// Timeline fetches matchID's timeline from the live endpoint. Its
// resulting core.Timeline carries no map_id — that field is only ever
// populated from the bulk archive's own map index.
func (s *LiveSource) Timeline(ctx context.Context, matchID string) (core.Timeline, error) {
	if err := s.wait(ctx); err != nil {
		return core.Timeline{}, fmt.Errorf("timeline live fetch %s: %w", matchID, err)
	}

	body, err := s.breaker.Execute(func() ([]byte, error) {
		return s.fetch(ctx, matchID)
	})
	if err != nil {
		return core.Timeline{}, &core.MissingTimelineError{GameID: matchID}
	}

	var rm rawMatch
	if err := json.Unmarshal(body, &rm); err != nil {
		return core.Timeline{}, fmt.Errorf("decode live timeline %s: %w", matchID, err)
	}
	return buildTimeline(matchID, rm), nil
}

func (s *LiveSource) fetch(ctx context.Context, matchID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/game/"+matchID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live fetch %s: status %d", matchID, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Combined tries Archive first and only reaches for Live on a cache miss,
// so a batch run against already-archived games never touches the
// network at all.
type Combined struct {
	Archive *ArchiveSource
	Live    *LiveSource
}

func (c Combined) Timeline(ctx context.Context, matchID string) (core.Timeline, error) {
	tl, err := c.Archive.Timeline(ctx, matchID)
	if err == nil {
		return tl, nil
	}
	if !core.IsMissingTimeline(err) {
		return core.Timeline{}, err
	}
	if c.Live == nil {
		return core.Timeline{}, err
	}
	metrics.ArchiveFallbacks.Inc()
	return c.Live.Timeline(ctx, matchID)
}
