package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/storage"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

var (
	listToday bool
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored checkpoints",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's checkpoints")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show the checkpoints of the current page")
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	e := loadEnv()

	var from, to time.Time
	switch {
	case listWeek:
		from, to = timecalc.PageRange(now, e.pageStart)
	default:
		// Default to today (covers --today and the bare command).
		from = timecalc.StartOfDay(now)
		to = from
	}

	days, err := storage.LoadRange(e.base, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	printList(days)
	return nil
}

// printList prints each non-empty day followed by its checkpoints.
func printList(days []model.Day) {
	printed := false
	for _, d := range days {
		if len(d.Checkpoints) == 0 {
			continue
		}
		fmt.Println(d.Date.Format(timecalc.DateLayout))
		for _, cp := range d.Checkpoints {
			out := "open"
			if cp.Out != nil {
				out = *cp.Out
			}
			fmt.Printf("  %s–%s\n", cp.In, out)
		}
		printed = true
	}
	if !printed {
		fmt.Println("No checkpoints found.")
	}
}
