package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"tagprostats.dev/engine/internal/aggregate"
	"tagprostats.dev/engine/internal/batch"
	"tagprostats.dev/engine/internal/cache"
	"tagprostats.dev/engine/internal/config"
	"tagprostats.dev/engine/internal/db"
	"tagprostats.dev/engine/internal/importer"
	"tagprostats.dev/engine/internal/repository"
	"tagprostats.dev/engine/internal/scheduler"
	"tagprostats.dev/engine/internal/standings"
	"tagprostats.dev/engine/internal/timeline"
)

// app bundles every wired dependency a CLI command needs, built once by
// buildApp from the loaded config. Commands pull only the fields they
// need off it rather than re-deriving their own wiring.
type app struct {
	cfg      *config.Config
	db       *db.DB
	redis    *redis.Client
	cache    *cache.Client
	timeline *timeline.Combined

	seasons       *repository.SeasonRepository
	franchises    *repository.FranchiseRepository
	leagues       *repository.LeagueRepository
	teams         *repository.TeamSeasonRepository
	players       *repository.PlayerRepository
	playerSeasons *repository.PlayerSeasonRepository
	matches       *repository.MatchRepository
	games         *repository.GameRepository
	gamelogs      *repository.PlayerGameLogRepository
	playoffs      *repository.PlayoffSeriesRepository
	stats         *repository.StatsRepository

	importer     *importer.Importer
	processor    *batch.Processor
	reaggregator *aggregate.Reaggregator
	standings    *standings.Service
	scheduler    *scheduler.Scheduler

	log *log.Logger
}

// buildApp loads configuration, opens the database and Redis
// connections, and wires every repository and service off them. Every
// CLI command that touches persisted state goes through this one
// constructor so the wiring only needs to be gotten right in one place.
func buildApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.Default()
	if cfg.Server.DebugMode {
		logger.SetLevel(log.DebugLevel)
	}

	database, err := db.Connect(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)

	cacheClient := cache.NewClient(redisClient, cache.Config{
		App:     "tagprostats",
		Env:     "dev",
		Version: cfg.Cache.Version,
		Enabled: cfg.Cache.Enabled,
		TTL:     time.Duration(cfg.Cache.TTL) * time.Second,
	})

	archiveSource, err := timeline.OpenArchiveSource(cfg.Archive.IndexDir, cfg.Archive.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open archive source: %w", err)
	}
	liveSource := timeline.NewLiveSource(timeline.LiveSourceConfig{
		BaseURL:           cfg.Archive.LiveBaseURL,
		RequestsPerMinute: cfg.Archive.LiveRatePerMin,
		BreakerName:       "tagpro-eu-live",
	}, redisClient)
	combined := timeline.Combined{Archive: archiveSource, Live: liveSource}

	seasons := repository.NewSeasonRepository(database.DB)
	franchises := repository.NewFranchiseRepository(database.DB)
	leagues := repository.NewLeagueRepository(database.DB)
	teams := repository.NewTeamSeasonRepository(database.DB)
	players := repository.NewPlayerRepository(database.DB)
	playerSeasons := repository.NewPlayerSeasonRepository(database.DB)
	matches := repository.NewMatchRepository(database.DB)
	games := repository.NewGameRepository(database.DB)
	gamelogs := repository.NewPlayerGameLogRepository(database.DB)
	playoffs := repository.NewPlayoffSeriesRepository(database.DB)
	stats := repository.NewStatsRepository(database.DB)

	imp := importer.New(seasons, franchises, teams, players, playerSeasons, matches, games, gamelogs, logger)
	processor := batch.NewProcessor(games, matches, gamelogs, stats, &combined, cacheClient, logger)
	reaggregator := aggregate.New(gamelogs, stats, logger)
	standingsSvc := standings.NewService(games, matches, teams, playoffs, logger)
	sched := scheduler.New(seasons, playerSeasons, reaggregator, standingsSvc, logger)

	return &app{
		cfg: cfg, db: database, redis: redisClient, cache: cacheClient, timeline: &combined,
		seasons: seasons, franchises: franchises, leagues: leagues, teams: teams,
		players: players, playerSeasons: playerSeasons, matches: matches, games: games,
		gamelogs: gamelogs, playoffs: playoffs, stats: stats,
		importer: imp, processor: processor, reaggregator: reaggregator,
		standings: standingsSvc, scheduler: sched, log: logger,
	}, nil
}

// Close releases the app's database and Redis connections, and the
// archive source's underlying BadgerDB index.
func (a *app) Close() {
	if a.timeline != nil && a.timeline.Archive != nil {
		_ = a.timeline.Archive.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
