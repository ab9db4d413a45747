package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagprostats.dev/engine/internal/echo"
	"tagprostats.dev/engine/internal/importer"
)

// ImportCmd loads a data-entry JSON document into the database.
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a data-entry JSON document",
		Long:  "Decodes a teamSeasons/playerSeasons/matches JSON document and writes it into the database idempotently, keyed by each game's tagpro_eu id.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	echo.Header("Import Data")

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	defer f.Close()

	payload, err := importer.DecodePayload(f)
	if err != nil {
		return fmt.Errorf("error: decode payload: %w", err)
	}

	echo.Infof("Loaded %d team-seasons, %d player-seasons, %d matches",
		len(payload.TeamSeasons), len(payload.PlayerSeasons), len(payload.Matches))

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.importer.Import(cmd.Context(), payload)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Successf("✓ Created %d games", result.Created)
	if result.Skipped > 0 {
		echo.Infof("  Skipped %d already-imported games", result.Skipped)
	}
	if result.ReferentialGaps > 0 {
		echo.Infof("  ⚠ %d entries referenced a season not on file and were skipped", result.ReferentialGaps)
	}
	return nil
}
