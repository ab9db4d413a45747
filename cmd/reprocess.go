package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tagprostats.dev/engine/internal/batch"
	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/echo"
)

// newRunner builds a batch.Runner bound to the app's Processor. concurrency
// overrides the app's configured default so `--concurrency` works without
// rebuilding the whole app.
func newRunner(a *app, concurrency int) *batch.Runner {
	return batch.NewRunner(a.processor, concurrency, a.cfg.Batch.NatsURL, a.log)
}

// ReprocessCmd re-derives stats for one or more games from their
// timelines.
func ReprocessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reprocess <game-id> [game-id...]",
		Short: "Reprocess one or more games' timelines into stats",
		Long:  "Fetches each game's timeline, runs it through the interpreter/classifier, and overwrites its stored outcome and player stats.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  reprocessGames,
	}
	cmd.Flags().IntP("concurrency", "c", 4, "Worker concurrency")
	return cmd
}

// ReprocessSeasonCmd reprocesses every game in a season.
func ReprocessSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reprocess-season <season-id>",
		Short: "Reprocess every game in a season",
		Long:  "Fetches every game belonging to a season and reprocesses each one's timeline.",
		Args:  cobra.ExactArgs(1),
		RunE:  reprocessSeason,
	}
	cmd.Flags().IntP("concurrency", "c", 4, "Worker concurrency")
	return cmd
}

func reprocessGames(cmd *cobra.Command, args []string) error {
	echo.Header("Reprocess Games")

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := parseGameIDs(args)
	if err != nil {
		return err
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		concurrency = a.cfg.Batch.Concurrency
	}

	runner := newRunner(a, concurrency)
	if err := runner.Run(cmd.Context(), ids); err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Successf("✓ Reprocessed %d games", len(ids))
	return nil
}

func reprocessSeason(cmd *cobra.Command, args []string) error {
	echo.Header("Reprocess Season")

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	seasonID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("error: invalid season id %q: %w", args[0], err)
	}

	games, err := a.games.ListBySeason(cmd.Context(), core.SeasonID(seasonID))
	if err != nil {
		return fmt.Errorf("error: list games for season: %w", err)
	}
	if len(games) == 0 {
		echo.Info("No games found for this season")
		return nil
	}

	ids := make([]core.GameID, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		concurrency = a.cfg.Batch.Concurrency
	}

	runner := newRunner(a, concurrency)
	if err := runner.Run(cmd.Context(), ids); err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Successf("✓ Reprocessed %d games in season %d", len(ids), seasonID)
	return nil
}

func parseGameIDs(args []string) ([]core.GameID, error) {
	ids := make([]core.GameID, 0, len(args))
	for _, arg := range args {
		for token := range strings.SplitSeq(arg, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			n, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("error: invalid game id %q: %w", token, err)
			}
			ids = append(ids, core.GameID(n))
		}
	}
	return ids, nil
}
