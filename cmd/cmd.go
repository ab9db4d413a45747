// Package cmd implements the tagprostats CLI's command tree: reprocessing
// match timelines into per-game stats, rolling those up into week/season
// totals, recomputing standings, importing hand-entered schedule data,
// and serving the metrics/health HTTP surface plus the periodic
// scheduler.
package cmd
