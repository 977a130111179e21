package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// WritePDF writes an A4 week report to w.
func WritePDF(w io.Writer, r model.WeekReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	title := Title(r)
	if r.Previous {
		title += " (last week)"
	}
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(40, 8, "Day", "B", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, "Shifts", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Worked", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Balance", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, d := range r.Days {
		shifts := make([]string, 0, len(d.Shifts))
		for _, s := range d.Shifts {
			shifts = append(shifts, ShiftLabel(s))
		}
		worked, balance := "", ""
		if d.HasClosed {
			worked = timecalc.FormatDuration(d.LaborTime)
			if !d.IsToday {
				balance = timecalc.FormatSigned(d.Balance)
			}
		}
		pdf.CellFormat(40, 7, d.Date.Format("Mon 2006-01-02"), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, strings.Join(shifts, "  "), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, worked, "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, balance, "", 1, "R", false, 0, "")
	}

	// Summary
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Worked: %s", timecalc.FormatDuration(r.Totals.LaborTime)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Balance: %s", timecalc.FormatSigned(r.Totals.Balance)))
	pdf.Ln(7)
	if r.Totals.ShowPending() {
		pdf.Cell(0, 8, fmt.Sprintf("Pending: %s", timecalc.FormatDuration(r.Totals.PendingTime)))
	} else {
		pdf.Cell(0, 8, fmt.Sprintf("Extra: %s", timecalc.FormatDuration(r.Totals.ExtraTime)))
	}
	if leave := LeaveLabel(r); leave != "" {
		pdf.Ln(7)
		pdf.Cell(0, 8, leave)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}
