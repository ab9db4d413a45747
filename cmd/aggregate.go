package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/echo"
)

// ReaggregateSeasonCmd recomputes week and season totals for every
// player in a season.
func ReaggregateSeasonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reaggregate-season <season-id>",
		Short: "Recompute week and season stat totals for a season",
		Long:  "Re-sums every player-season's per-game regulation stats into week totals, then rolls those weeks into season totals.",
		Args:  cobra.ExactArgs(1),
		RunE:  reaggregateSeason,
	}
}

// UpdateStandingsCmd recomputes seeds and playoff finishes for a season.
func UpdateStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-standings <season-id>",
		Short: "Recompute standings and playoff finishes for a season",
		Long:  "Rebuilds every team's regular-season record, applies the tiebreaker chain to assign seeds, and records playoff finish labels where a series has a recorded winner.",
		Args:  cobra.ExactArgs(1),
		RunE:  updateStandings,
	}
}

func reaggregateSeason(cmd *cobra.Command, args []string) error {
	echo.Header("Reaggregate Season")

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	seasonID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("error: invalid season id %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	playerSeasons, err := a.reaggregator.Players(ctx, core.SeasonID(seasonID), a.playerSeasons)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	if len(playerSeasons) == 0 {
		echo.Info("No player-seasons found for this season")
		return nil
	}

	echo.Infof("Reaggregating %d player-seasons...", len(playerSeasons))
	if err := a.reaggregator.AllWeeksThenSeason(ctx, core.SeasonID(seasonID), playerSeasons); err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Successf("✓ Reaggregated season %d", seasonID)
	return nil
}

func updateStandings(cmd *cobra.Command, args []string) error {
	echo.Header("Update Standings")

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	seasonID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("error: invalid season id %q: %w", args[0], err)
	}

	if err := a.standings.UpdateSeason(cmd.Context(), core.SeasonID(seasonID)); err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Successf("✓ Standings updated for season %d", seasonID)
	return nil
}
