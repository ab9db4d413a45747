package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tagprostats.dev/engine/internal/echo"
	"tagprostats.dev/engine/internal/metrics"
)

// ServerCmd creates the server command group
func ServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the metrics/health HTTP surface and the periodic scheduler",
		Long:  "Starts the /healthz and /metrics HTTP endpoints, and runs the background reaggregate/standings cron jobs until interrupted.",
		RunE:  startServer,
	}
	cmd.Flags().Bool("debug", false, "Enable debug mode (verbose logging)")
	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	echo.Header("Starting Server")
	echo.Info("Loading configuration...")

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	debugMode, _ := cmd.Flags().GetBool("debug")
	if debugMode {
		a.cfg.Server.DebugMode = true
		a.log.SetLevel(log.DebugLevel)
	}

	echo.Success("✓ Connected to database and Redis")

	timeFmt := time.DateTime
	if a.cfg.Server.DebugMode {
		timeFmt = time.Kitchen
	}
	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFmt,
		Prefix:          "🚩",
		ReportCaller:    a.cfg.Server.DebugMode,
	})

	metricsServer := metrics.NewServer(a.db.DB, a.redis, logger)

	if err := a.scheduler.Start(a.cfg.Scheduler.ReaggregateCron, a.cfg.Scheduler.StandingsCron); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer a.scheduler.Stop()
	echo.Success("✓ Scheduler running")

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	echo.Success(fmt.Sprintf("✓ Server starting on %s", addr))
	echo.Info("  /healthz — database and Redis connectivity")
	echo.Info("  /metrics — prometheus metrics")
	echo.Info("Press Ctrl+C to stop")
	echo.Info("")
	return http.ListenAndServe(addr, metricsServer.Handler())
}
