package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/engine"
	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/ui/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live week view, refreshed every 30 seconds",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e := loadEnv()

	load := func(ctx context.Context, previous bool, now time.Time) (model.WeekReport, error) {
		return engine.Drive(ctx, e.source(now), modeFor(previous), e.settings, now)
	}

	m := watch.New(load, e.cfg.Goals(), terminalStyles(), nil)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}
