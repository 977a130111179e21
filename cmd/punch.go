package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/storage"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

var (
	inAt  string
	outAt string
)

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in",
	Args:  cobra.NoArgs,
	RunE:  runIn,
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out of the open shift",
	Args:  cobra.NoArgs,
	RunE:  runOut,
}

func init() {
	inCmd.Flags().StringVar(&inAt, "at", "", "Clock-in time today (HH:MM); defaults to now")
	outCmd.Flags().StringVar(&outAt, "at", "", "Clock-out time today (HH:MM); defaults to now")
}

// punchTime resolves an optional --at label against today.
func punchTime(now time.Time, at string) (time.Time, error) {
	if at == "" {
		return now, nil
	}
	t, err := timecalc.CombineDateAndClock(now, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value: %w", err)
	}
	return t, nil
}

func runIn(cmd *cobra.Command, args []string) error {
	at, err := punchTime(time.Now(), inAt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e := loadEnv()

	cp, err := storage.PunchIn(e.base, at)
	if errors.Is(err, storage.ErrAlreadyIn) {
		fmt.Fprintf(os.Stderr, "Already clocked in since %s.\n", cp.In)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Clocked in at %s\n", cp.In)
	return nil
}

func runOut(cmd *cobra.Command, args []string) error {
	at, err := punchTime(time.Now(), outAt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e := loadEnv()

	cp, err := storage.PunchOut(e.base, at)
	if errors.Is(err, storage.ErrNotIn) {
		fmt.Fprintln(os.Stderr, "Not clocked in.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	start, err := timecalc.CombineDateAndClock(at, cp.In)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	elapsed := int64(timecalc.Between(start, at).Seconds())
	fmt.Printf("Clocked out at %s. Shift: %s\n", *cp.Out, formatElapsed(elapsed))
	return nil
}

func formatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
