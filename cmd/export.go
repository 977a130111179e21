package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/render"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

var (
	exportFormat   string
	exportOut      string
	exportPrevious bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the week report",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, pdf")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to this file instead of stdout (required for pdf)")
	exportCmd.Flags().BoolVar(&exportPrevious, "previous", false, "Export the previous week")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	switch exportFormat {
	case "csv", "json", "md":
	case "pdf":
		if exportOut == "" {
			fmt.Fprintln(os.Stderr, "--out is required for pdf export")
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", exportFormat)
		os.Exit(1)
	}

	e := loadEnv()
	report := loadReport(cmd.Context(), e, exportPrevious, now)
	write := func(w io.Writer) error { return writeReport(w, exportFormat, report) }

	if exportOut == "" {
		if err := write(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return nil
	}
	if err := writeFileAtomic(exportOut, write); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

// writeReport renders report in format to w.
func writeReport(w io.Writer, format string, report model.WeekReport) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "md":
		_, err := fmt.Fprint(w, render.Markdown(report))
		return err
	case "pdf":
		return render.WritePDF(w, report)
	case "csv":
		printCSV(w, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// writeFileAtomic writes through a temp file next to path and renames it
// into place. A failed write leaves nothing at path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// printCSV writes one row per day of the report.
func printCSV(w io.Writer, r model.WeekReport) {
	fmt.Fprintln(w, "date,shifts,labor_minutes,balance_minutes,has_closed,is_today")
	for _, d := range r.Days {
		shifts := make([]string, 0, len(d.Shifts))
		for _, s := range d.Shifts {
			shifts = append(shifts, render.ShiftLabel(s))
		}
		fmt.Fprintf(w, "%s,%s,%d,%d,%t,%t\n",
			csvEscape(d.Date.Format(timecalc.DateLayout)),
			csvEscape(strings.Join(shifts, "; ")),
			int64(d.LaborTime/time.Minute),
			int64(d.Balance/time.Minute),
			d.HasClosed,
			d.IsToday,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
