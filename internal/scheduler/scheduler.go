// Package scheduler drives the two periodic jobs `cmd serve` keeps
// running in the background: re-aggregating every season's stats, and
// refreshing standings. Both are otherwise on-demand CLI operations;
// this just wraps them in a robfig/cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"tagprostats.dev/engine/internal/core"
)

// Reaggregator is the subset of aggregate.Reaggregator the scheduler
// drives, scoped to every season on file.
type Reaggregator interface {
	Players(ctx context.Context, season core.SeasonID, playerSeasons core.PlayerSeasonRepository) ([]core.PlayerSeasonID, error)
	AllWeeksThenSeason(ctx context.Context, season core.SeasonID, playerSeasons []core.PlayerSeasonID) error
}

// StandingsUpdater is the subset of standings.Service the scheduler drives.
type StandingsUpdater interface {
	UpdateSeason(ctx context.Context, season core.SeasonID) error
}

// Scheduler runs the reaggregate and standings jobs across every season
// on file, on independent cron schedules.
type Scheduler struct {
	cron          *cron.Cron
	seasons       core.SeasonRepository
	playerSeasons core.PlayerSeasonRepository
	reaggregator  Reaggregator
	standings     StandingsUpdater
	log           *log.Logger
	jobTimeout    time.Duration
}

func New(
	seasons core.SeasonRepository,
	playerSeasons core.PlayerSeasonRepository,
	reaggregator Reaggregator,
	standingsUpdater StandingsUpdater,
	logger *log.Logger,
) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		seasons:       seasons,
		playerSeasons: playerSeasons,
		reaggregator:  reaggregator,
		standings:     standingsUpdater,
		log:           logger,
		jobTimeout:    10 * time.Minute,
	}
}

// Start registers the reaggregate and standings jobs on their cron
// expressions and begins running them in the background. Both
// expressions use the seconds-field form robfig/cron/v3 accepts when
// constructed WithSeconds.
func (s *Scheduler) Start(reaggregateCron, standingsCron string) error {
	if _, err := s.cron.AddFunc(reaggregateCron, func() { s.runReaggregate() }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(standingsCron, func() { s.runStandings() }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop waits for any in-flight job to finish and halts the schedule.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReaggregate() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	seasons, err := s.seasons.List(ctx)
	if err != nil {
		s.log.Error("scheduler: list seasons for reaggregate", "error", err)
		return
	}
	for _, season := range seasons {
		playerSeasons, err := s.reaggregator.Players(ctx, season.ID, s.playerSeasons)
		if err != nil {
			s.log.Error("scheduler: list player seasons", "season", season.ID, "error", err)
			continue
		}
		if err := s.reaggregator.AllWeeksThenSeason(ctx, season.ID, playerSeasons); err != nil {
			s.log.Error("scheduler: reaggregate season failed", "season", season.ID, "error", err)
			continue
		}
	}
	s.log.Info("scheduler: reaggregate pass complete", "seasons", len(seasons))
}

func (s *Scheduler) runStandings() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	seasons, err := s.seasons.List(ctx)
	if err != nil {
		s.log.Error("scheduler: list seasons for standings", "error", err)
		return
	}
	for _, season := range seasons {
		if err := s.standings.UpdateSeason(ctx, season.ID); err != nil {
			s.log.Error("scheduler: update standings failed", "season", season.ID, "error", err)
		}
	}
	s.log.Info("scheduler: standings pass complete", "seasons", len(seasons))
}
