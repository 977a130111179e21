package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/weekly-punch/internal/render"
)

var (
	weekPrevious bool
	weekFormat   string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show worked time, balance and time to leave for the week",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func init() {
	weekCmd.Flags().BoolVar(&weekPrevious, "previous", false, "Show the previous week")
	weekCmd.Flags().StringVar(&weekFormat, "format", "text", "Output format: text, md, csv, json")
}

// terminalStyles returns coloured styles on a TTY and plain ones otherwise.
func terminalStyles() render.Styles {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return render.DefaultStyles()
	}
	return render.PlainStyles()
}

func runWeek(cmd *cobra.Command, args []string) error {
	now := time.Now()
	e := loadEnv()
	report := loadReport(cmd.Context(), e, weekPrevious, now)

	switch weekFormat {
	case "md":
		fmt.Print(render.Markdown(report))
	case "csv":
		printCSV(os.Stdout, report)
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(render.Text(report, terminalStyles()))
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", weekFormat)
		os.Exit(1)
	}
	return nil
}
