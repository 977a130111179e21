package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/config"
	"github.com/Tiliavir/weekly-punch/internal/engine"
	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "wp",
	Short: "Weekly Punch – weekly attendance totals from your punch clock",
	Long: `wp turns clock-in/clock-out checkpoints into daily and weekly totals:
worked time, balance against your targets, pending or extra time and the
moment you can leave. Checkpoints are stored as JSON files in ~/.wp/ and can
be synced from a remote timesheet.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
}

// env is what every command needs: the config, engine settings and the
// local store.
type env struct {
	cfg       config.Config
	settings  engine.Settings
	pageStart time.Weekday
	base      string
}

// loadEnv loads config and store location, exiting on failure.
func loadEnv() env {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	settings, err := cfg.Settings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pageStart, err := cfg.PageStartWeekday()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return env{cfg: cfg, settings: settings, pageStart: pageStart, base: base}
}

// source returns the local page store as seen at now.
func (e env) source(now time.Time) storage.DirSource {
	return storage.DirSource{Base: e.base, PageStart: e.pageStart, Today: now}
}

func modeFor(previous bool) engine.Mode {
	if previous {
		return engine.PreviousWeek
	}
	return engine.CurrentWeek
}

// loadReport drives the engine over the local store, exiting with 1 when the
// week cannot be resolved and 2 on storage errors.
func loadReport(ctx context.Context, e env, previous bool, now time.Time) model.WeekReport {
	report, err := engine.Drive(ctx, e.source(now), modeFor(previous), e.settings, now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, engine.ErrIncompleteWeek) {
			os.Exit(1)
		}
		os.Exit(2)
	}
	return report
}
