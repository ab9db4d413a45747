package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagprostats.dev/engine/cmd"
	"tagprostats.dev/engine/internal/echo"
)

// RootCmd is the root command for the tagprostats CLI
var RootCmd = &cobra.Command{
	Use:   "tagprostats",
	Short: "TagPro CTF match-timeline stat-derivation toolkit",
	Long: echo.HeaderStyle().Render("tagprostats") + "\n\n" +
		"Derives per-player counting stats from tagpro.eu match timelines,\n" +
		"rolls them up into week/season totals, and computes standings.",
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Path to config file (defaults to conf.toml)")

	RootCmd.AddCommand(cmd.ReprocessCmd())
	RootCmd.AddCommand(cmd.ReprocessSeasonCmd())
	RootCmd.AddCommand(cmd.ReaggregateSeasonCmd())
	RootCmd.AddCommand(cmd.UpdateStandingsCmd())
	RootCmd.AddCommand(cmd.ImportCmd())
	RootCmd.AddCommand(cmd.ServerCmd())
	RootCmd.AddCommand(cmd.StatusCmd())
	RootCmd.AddCommand(cmd.DbCmd())
	RootCmd.AddCommand(cmd.CacheCmd())
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
