package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	start := time.Date(2026, 2, 23, 8, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	report := model.WeekReport{Days: []model.DayTotals{{
		Date:      time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		Shifts:    []model.Shift{{Start: start, End: &end, Duration: 8 * time.Hour, Closed: true}},
		LaborTime: 8 * time.Hour,
		Balance:   -48 * time.Minute,
		HasClosed: true,
	}}}

	var buf bytes.Buffer
	printCSV(&buf, report)

	want := "date,shifts,labor_minutes,balance_minutes,has_closed,is_today\n" +
		"2026-02-23,08:00-16:00 (08:00),480,-48,true,false\n"
	if buf.String() != want {
		t.Errorf("printCSV =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "week.pdf")

	failed := errors.New("disk full")
	err := writeFileAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "%PDF-partial")
		return failed
	})
	if !errors.Is(err, failed) {
		t.Fatalf("err = %v, want %v", err, failed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed write left %d files behind", len(entries))
	}

	var report model.WeekReport
	if err := writeFileAtomic(path, func(w io.Writer) error { return writeReport(w, "pdf", report) }); err != nil {
		t.Fatalf("writeFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("file starts with %q, want a PDF header", data[:min(len(data), 8)])
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	if err := writeReport(io.Discard, "xlsx", model.WeekReport{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
