package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"tagprostats.dev/engine/internal/core"
)

type fakeSeasonRepo struct {
	seasons []core.Season
}

func (f *fakeSeasonRepo) GetByID(ctx context.Context, id core.SeasonID) (*core.Season, error) {
	for _, s := range f.seasons {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeSeasonRepo) List(ctx context.Context) ([]core.Season, error) { return f.seasons, nil }

func (f *fakeSeasonRepo) ListByGroup(ctx context.Context, group string) ([]core.Season, error) {
	return f.seasons, nil
}

type fakePlayerSeasonRepo struct{ core.PlayerSeasonRepository }

type fakeReaggregator struct {
	seasonsSeen []core.SeasonID
	err         error
}

func (f *fakeReaggregator) Players(ctx context.Context, season core.SeasonID, playerSeasons core.PlayerSeasonRepository) ([]core.PlayerSeasonID, error) {
	return []core.PlayerSeasonID{1, 2}, nil
}

func (f *fakeReaggregator) AllWeeksThenSeason(ctx context.Context, season core.SeasonID, playerSeasons []core.PlayerSeasonID) error {
	f.seasonsSeen = append(f.seasonsSeen, season)
	return f.err
}

type fakeStandingsUpdater struct {
	seasonsSeen []core.SeasonID
	err         error
}

func (f *fakeStandingsUpdater) UpdateSeason(ctx context.Context, season core.SeasonID) error {
	f.seasonsSeen = append(f.seasonsSeen, season)
	return f.err
}

func TestRunReaggregateCoversEverySeason(t *testing.T) {
	seasons := &fakeSeasonRepo{seasons: []core.Season{{ID: 1}, {ID: 2}, {ID: 3}}}
	reagg := &fakeReaggregator{}
	sched := New(seasons, &fakePlayerSeasonRepo{}, reagg, &fakeStandingsUpdater{}, nil)

	sched.runReaggregate()

	if len(reagg.seasonsSeen) != 3 {
		t.Fatalf("expected 3 seasons reaggregated, got %d: %v", len(reagg.seasonsSeen), reagg.seasonsSeen)
	}
}

func TestRunReaggregateSkipsFailingSeasonAndContinues(t *testing.T) {
	seasons := &fakeSeasonRepo{seasons: []core.Season{{ID: 1}, {ID: 2}}}
	reagg := &fakeReaggregator{err: errors.New("boom")}
	sched := New(seasons, &fakePlayerSeasonRepo{}, reagg, &fakeStandingsUpdater{}, nil)

	sched.runReaggregate()

	if len(reagg.seasonsSeen) != 2 {
		t.Fatalf("expected both seasons attempted despite errors, got %d", len(reagg.seasonsSeen))
	}
}

func TestRunStandingsCoversEverySeason(t *testing.T) {
	seasons := &fakeSeasonRepo{seasons: []core.Season{{ID: 10}, {ID: 20}}}
	updater := &fakeStandingsUpdater{}
	sched := New(seasons, &fakePlayerSeasonRepo{}, &fakeReaggregator{}, updater, nil)

	sched.runStandings()

	if len(updater.seasonsSeen) != 2 {
		t.Fatalf("expected 2 seasons updated, got %d", len(updater.seasonsSeen))
	}
}

func TestStartRegistersBothJobsAndStopWaitsForCompletion(t *testing.T) {
	seasons := &fakeSeasonRepo{seasons: []core.Season{{ID: 1}}}
	reagg := &fakeReaggregator{}
	updater := &fakeStandingsUpdater{}
	sched := New(seasons, &fakePlayerSeasonRepo{}, reagg, updater, nil)

	if err := sched.Start("* * * * * *", "* * * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	sched.Stop()

	if len(reagg.seasonsSeen) == 0 {
		t.Fatal("expected reaggregate job to have run at least once")
	}
	if len(updater.seasonsSeen) == 0 {
		t.Fatal("expected standings job to have run at least once")
	}
}
