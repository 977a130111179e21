// Package render formats a WeekReport for people: styled terminal text,
// Markdown and PDF.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// Styles are the lipgloss styles of the terminal view.
type Styles struct {
	Mode    lipgloss.Style
	Labor   lipgloss.Style
	Balance lipgloss.Style
	Pending lipgloss.Style
	Extra   lipgloss.Style
	Leave   lipgloss.Style
	Day     lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the coloured styles used on a terminal.
func DefaultStyles() Styles {
	return Styles{
		Mode:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7CCB")).Bold(true),
		Labor:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Balance: lipgloss.NewStyle().Foreground(lipgloss.Color("#00B3B3")),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#3C7DD9")),
		Extra:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Leave:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FDFF8C")).Bold(true),
		Day:     lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888")),
	}
}

// PlainStyles returns unstyled styles, for pipes and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{plain, plain, plain, plain, plain, plain, plain, plain}
}

// Header renders the one-line week summary.
func Header(r model.WeekReport, st Styles) string {
	parts := []string{}
	if r.Previous {
		parts = append(parts, st.Mode.Render("Last week"))
	}
	parts = append(parts,
		st.Labor.Render("Worked: "+timecalc.FormatDuration(r.Totals.LaborTime)),
		st.Balance.Render("Balance: "+timecalc.FormatSigned(r.Totals.Balance)),
	)
	if r.Totals.ShowPending() {
		parts = append(parts, st.Pending.Render("Pending: "+timecalc.FormatDuration(r.Totals.PendingTime)))
	} else {
		parts = append(parts, st.Extra.Render("Extra: "+timecalc.FormatDuration(r.Totals.ExtraTime)))
	}
	if leave := LeaveLabel(r); leave != "" {
		parts = append(parts, st.Leave.Render(leave))
	}
	return strings.Join(parts, "  ")
}

// LeaveLabel describes the time to leave: the weekly projection when there is
// one, otherwise today's daily target, otherwise nothing.
func LeaveLabel(r model.WeekReport) string {
	if r.TimeToLeave != nil {
		return "Leave at: " + timecalc.FormatClock(*r.TimeToLeave)
	}
	if today, ok := r.Today(); ok && today.TimeToLeave != nil {
		return "Today until: " + timecalc.FormatClock(*today.TimeToLeave)
	}
	return ""
}

// ShiftLabel renders a shift as "08:00-12:00 (04:00)", or "13:00- (01:10 running)".
func ShiftLabel(s model.Shift) string {
	if s.Closed {
		return fmt.Sprintf("%s-%s (%s)", timecalc.FormatClock(s.Start), timecalc.FormatClock(*s.End), timecalc.FormatDuration(s.Duration))
	}
	if s.Duration > 0 {
		return fmt.Sprintf("%s- (%s running)", timecalc.FormatClock(s.Start), timecalc.FormatDuration(s.Duration))
	}
	return timecalc.FormatClock(s.Start) + "-"
}

// DayLine renders one day of the week view.
func DayLine(d model.DayTotals, st Styles) string {
	label := st.Day.Render(d.Date.Format("Mon 2006-01-02"))
	if d.Empty {
		return label + "  " + st.Muted.Render("no checkpoints")
	}

	shifts := make([]string, 0, len(d.Shifts))
	for _, s := range d.Shifts {
		shifts = append(shifts, ShiftLabel(s))
	}
	line := label + "  " + strings.Join(shifts, "  ")
	if d.HasClosed {
		line += "  " + st.Labor.Render(timecalc.FormatDuration(d.LaborTime))
		if !d.IsToday {
			line += " " + st.Balance.Render(timecalc.FormatSigned(d.Balance))
		}
	}
	return line
}

// Text renders the full terminal view: header, then one line per day.
func Text(r model.WeekReport, st Styles) string {
	var b strings.Builder
	b.WriteString(Header(r, st))
	b.WriteString("\n")
	for _, d := range r.Days {
		b.WriteString(DayLine(d, st))
		b.WriteString("\n")
	}
	return b.String()
}

// Title returns a heading like "Week 2026-W09" for the report.
func Title(r model.WeekReport) string {
	if len(r.Days) == 0 {
		return "Week"
	}
	return "Week " + timecalc.ISOWeekLabel(r.Days[0].Date)
}

// Markdown renders the report in the plain layout of `wp week --format md`.
func Markdown(r model.WeekReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Title(r))
	b.WriteString("--------------------------------\n")
	for _, d := range r.Days {
		if d.Empty {
			continue
		}
		balance := ""
		if d.HasClosed && !d.IsToday {
			balance = timecalc.FormatSigned(d.Balance)
		}
		fmt.Fprintf(&b, "%-20s%-8s%s\n", d.Date.Format("Mon 2006-01-02"), timecalc.FormatDuration(d.LaborTime), balance)
	}
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "%-20s%s\n", "Total", timecalc.FormatDuration(r.Totals.LaborTime))
	fmt.Fprintf(&b, "%-20s%s\n", "Balance", timecalc.FormatSigned(r.Totals.Balance))
	if r.Totals.ShowPending() {
		fmt.Fprintf(&b, "%-20s%s\n", "Pending", timecalc.FormatDuration(r.Totals.PendingTime))
	} else {
		fmt.Fprintf(&b, "%-20s%s\n", "Extra", timecalc.FormatDuration(r.Totals.ExtraTime))
	}
	if leave := LeaveLabel(r); leave != "" {
		fmt.Fprintf(&b, "%s\n", leave)
	}
	return b.String()
}
