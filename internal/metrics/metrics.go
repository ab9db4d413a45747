// Package metrics defines the domain counters and histograms `cmd serve`
// exposes alongside the generic HTTP request metrics internal/middleware
// registers as prometheus counters. Counters are registered at import time through
// promauto, same as the rest of the stack's prometheus usage.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GamesReprocessed counts batch.Processor.ProcessGame outcomes.
	// Labels: outcome is "success", "skipped" (dedup claim lost), or "error".
	GamesReprocessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagprostats_games_reprocessed_total",
			Help: "Total number of games run through the reprocess pipeline",
		},
		[]string{"outcome"},
	)

	// ReprocessDuration measures one game's full ProcessGame call, from
	// timeline fetch through the final repository write.
	ReprocessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagprostats_reprocess_duration_seconds",
			Help:    "Duration of a single game's reprocess pipeline",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// TimelineEventsInterpreted counts events the interpreter consumed,
	// labeled by kind, so a stuck or malformed timeline shows up as a
	// skew in the usual join/grab/capture/tag ratios.
	TimelineEventsInterpreted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagprostats_timeline_events_interpreted_total",
			Help: "Total number of timeline events consumed by the interpreter, by kind",
		},
		[]string{"kind"},
	)

	// StandingsUpdates counts standings.Service.UpdateSeason calls.
	StandingsUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagprostats_standings_updates_total",
			Help: "Total number of season standings recomputations",
		},
		[]string{"outcome"},
	)

	// ReaggregatePasses counts scheduler-driven and CLI-driven
	// reaggregate runs, by scope (week/season) and outcome.
	ReaggregatePasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagprostats_reaggregate_passes_total",
			Help: "Total number of reaggregate passes run, by scope and outcome",
		},
		[]string{"scope", "outcome"},
	)

	// ArchiveFallbacks counts timeline lookups that missed the bulk
	// archive and fell back to a live tagpro.eu fetch.
	ArchiveFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagprostats_archive_fallbacks_total",
			Help: "Total number of timeline lookups served by the live fallback instead of the archive",
		},
	)

	// CacheOperations counts internal/cache hits, misses, and errors.
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagprostats_cache_operations_total",
			Help: "Total number of cache operations, by kind and outcome",
		},
		[]string{"op", "outcome"},
	)

	// BatchQueueDepth tracks how many games are in flight on the
	// current reprocess run.
	BatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagprostats_batch_queue_depth",
			Help: "Number of games currently queued or in flight on a reprocess run",
		},
	)
)

// RecordReprocess records one game's reprocess outcome and duration.
func RecordReprocess(outcome string, duration time.Duration) {
	GamesReprocessed.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		ReprocessDuration.Observe(duration.Seconds())
	}
}

// RecordStandingsUpdate records one season's standings recomputation.
func RecordStandingsUpdate(outcome string) {
	StandingsUpdates.WithLabelValues(outcome).Inc()
}

// RecordReaggregatePass records one reaggregate pass.
func RecordReaggregatePass(scope, outcome string) {
	ReaggregatePasses.WithLabelValues(scope, outcome).Inc()
}

// RecordCacheOp records a cache hit/miss/error.
func RecordCacheOp(op, outcome string) {
	CacheOperations.WithLabelValues(op, outcome).Inc()
}
