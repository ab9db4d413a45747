package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tagprostats.dev/engine/internal/config"
	"tagprostats.dev/engine/internal/db"
	"tagprostats.dev/engine/internal/echo"
)

// StatusCmd creates the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check timeline archive and database freshness",
		Long:  "Display status of the bulk timeline archive, its BadgerDB index, and the database's recorded refreshes.",
		RunE:  status,
	}
}

func status(cmd *cobra.Command, args []string) error {
	echo.Header("Data Status")
	ctx := cmd.Context()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Info("Timeline archive:")
	if info, err := os.Stat(cfg.Archive.SourcePath); err != nil {
		if os.IsNotExist(err) {
			echo.Infof("  • %s: %s", cfg.Archive.SourcePath, echo.ErrorStyle().Render("missing"))
			echo.Infof("    Hint: set archive.source_path or ARCHIVE_SOURCE_PATH to a tagpro.eu match-log export")
		} else {
			echo.Errorf("  %s: %v", cfg.Archive.SourcePath, err)
		}
	} else {
		echo.Successf("  ✓ %s: %s bytes, last change %s", cfg.Archive.SourcePath, formatLargeNumber(info.Size()), humanizeModTime(info.ModTime()))
	}

	exists, fileCount, latestChange, err := dirSnapshot(cfg.Archive.IndexDir)
	if err != nil {
		echo.Errorf("  %s: %v", cfg.Archive.IndexDir, err)
	} else if !exists {
		echo.Infof("  • BadgerDB index (%s): not yet built — run a reprocess to populate it", cfg.Archive.IndexDir)
	} else {
		echo.Successf("  ✓ BadgerDB index: %d files (last change %s)", fileCount, humanizeModTime(latestChange))
		echo.Infof("    Path: %s", cfg.Archive.IndexDir)
	}

	echo.Info("")
	echo.Infof("Live fallback: %s (%d req/min)", cfg.Archive.LiveBaseURL, cfg.Archive.LiveRatePerMin)

	echo.Info("")
	echo.Info("Database:")

	database, err := db.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	defer database.Close()

	refreshes, err := database.DatasetRefreshes(ctx)
	if err != nil {
		echo.Infof("  ⚠ Unable to read refresh metadata: %v", err)
		refreshes = map[string]db.DatasetRefresh{}
	}

	gamesCount, gamesErr := safeCount(ctx, database, `SELECT COUNT(*) FROM games`)
	matchesCount, matchesErr := safeCount(ctx, database, `SELECT COUNT(*) FROM matches`)

	if gamesErr != nil {
		echo.Infof("  ⚠ Unable to read games table: %v", gamesErr)
	} else {
		echo.Successf("  ✓ %d games on file", gamesCount)
	}
	if matchesErr != nil {
		echo.Infof("  ⚠ Unable to read matches table: %v", matchesErr)
	} else {
		echo.Infof("    %d matches on file", matchesCount)
	}

	if entry, ok := refreshes["reprocess"]; ok {
		entryCopy := entry
		echo.Infof("    Last reprocess: %s", formatRefresh(&entryCopy))
	} else {
		echo.Infof("    Last reprocess: never recorded")
	}
	if entry, ok := refreshes["standings"]; ok {
		entryCopy := entry
		echo.Infof("    Last standings update: %s", formatRefresh(&entryCopy))
	} else {
		echo.Infof("    Last standings update: never recorded")
	}

	echo.Info("")
	echo.Success("✓ Status check completed")
	return nil
}

func dirSnapshot(path string) (bool, int, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, time.Time{}, nil
		}
		return false, 0, time.Time{}, err
	}
	if !info.IsDir() {
		return false, 0, time.Time{}, fmt.Errorf("path is not a directory: %s", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	var latest time.Time
	for _, entry := range entries {
		entryInfo, err := entry.Info()
		if err != nil {
			continue
		}
		if entryInfo.ModTime().After(latest) {
			latest = entryInfo.ModTime()
		}
	}

	return true, len(entries), latest, nil
}

func safeCount(ctx context.Context, database *db.DB, query string) (int64, error) {
	var count int64
	if err := database.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
