package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/notice"
	"github.com/Tiliavir/weekly-punch/internal/render"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's shift, week totals and time to leave",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()
	e := loadEnv()
	report := loadReport(cmd.Context(), e, false, now)
	st := terminalStyles()

	today, ok := report.Today()
	fmt.Print(todayStatus(today, ok, now, e.settings.MaxConsecutive))

	fmt.Println(render.Header(report, st))

	if n, due := notice.Check(report, e.cfg.Goals()); due {
		fmt.Fprintf(os.Stderr, "Notice: %s\n", n.Message())
	}
	return nil
}

// todayStatus describes today's shift. An open shift older than
// maxConsecutive is reported as a forgotten punch.
func todayStatus(today model.DayTotals, ok bool, now time.Time, maxConsecutive time.Duration) string {
	var b strings.Builder
	open, running := today.OpenShift()
	switch {
	case ok && running && timecalc.Between(open.Start, now) >= maxConsecutive:
		fmt.Fprintf(&b, "Open since %s for more than %s: forgotten punch?\n",
			timecalc.FormatClock(open.Start), timecalc.FormatDuration(maxConsecutive))
		fmt.Fprintln(&b, "Run `wp out --at HH:MM` to close it.")
		fmt.Fprintf(&b, "Today: %s worked.\n", timecalc.FormatDuration(today.LaborTime))
	case ok && running:
		fmt.Fprintln(&b, "Clocked in:")
		fmt.Fprintf(&b, "  Since: %s\n", timecalc.FormatClock(open.Start))
		fmt.Fprintf(&b, "  Shift: %s\n", timecalc.FormatDuration(open.Duration))
		fmt.Fprintf(&b, "  Today: %s\n", timecalc.FormatDuration(today.RunningTime))
	case ok:
		fmt.Fprintln(&b, "Not clocked in.")
		fmt.Fprintf(&b, "Today: %s worked.\n", timecalc.FormatDuration(today.LaborTime))
	default:
		fmt.Fprintln(&b, "Not clocked in.")
	}
	return b.String()
}
