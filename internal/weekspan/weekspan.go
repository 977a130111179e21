// Package weekspan assembles one logical week out of one or two consecutive
// timesheet pages.
//
// The timesheet shows a fixed seven-day window that need not start on the
// configured week-start weekday, so the previous week may straddle two
// pages. The Machine is driven page by page by its caller; it never
// navigates or waits on its own.
package weekspan

import (
	"errors"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
)

// ErrWeekStartMissing is returned when the first page of a previous-week
// request contains no day on the week-start weekday.
var ErrWeekStartMissing = errors.New("no week-start day on page")

// ErrNotAwaitingPage is returned when a page is fed after the week was
// already assembled.
var ErrNotAwaitingPage = errors.New("week already assembled")

// lastWeekday returns the weekday that closes a week starting on start.
func lastWeekday(start time.Weekday) time.Weekday {
	return (start + 6) % 7
}

// SelectDaysForWeek picks the days of page that belong to the logical week,
// given the state before the page was scanned, and returns the state after it.
func SelectDaysForWeek(page []model.Day, weekStart time.Weekday, state model.SpanState) ([]model.Day, model.SpanState) {
	switch state {
	case model.Idle:
		selected, _ := fromWeekStart(page, weekStart)
		return selected, model.Idle

	case model.ViewingPreviousOnly:
		selected, boundary := fromWeekStart(page, weekStart)
		if len(selected) == 0 {
			return nil, model.ViewingPreviousOnly
		}
		if boundary || endsWeek(selected, weekStart) {
			return selected, model.SpanningComplete
		}
		return selected, model.SpanningInProgress

	case model.SpanningInProgress:
		var selected []model.Day
		for _, d := range page {
			if d.Date.Weekday() == weekStart {
				return selected, model.SpanningComplete
			}
			selected = append(selected, d)
		}
		if endsWeek(selected, weekStart) {
			return selected, model.SpanningComplete
		}
		return selected, model.SpanningInProgress

	default:
		return nil, state
	}
}

// fromWeekStart selects from the first week-start day up to, excluding, the
// next one. boundary reports whether that next occurrence was seen.
func fromWeekStart(page []model.Day, weekStart time.Weekday) ([]model.Day, bool) {
	var selected []model.Day
	found := false
	for _, d := range page {
		if d.Date.Weekday() == weekStart {
			if found {
				return selected, true
			}
			found = true
		}
		if found {
			selected = append(selected, d)
		}
	}
	return selected, false
}

func endsWeek(selected []model.Day, weekStart time.Weekday) bool {
	return len(selected) > 0 && selected[len(selected)-1].Date.Weekday() == lastWeekday(weekStart)
}

// Machine accumulates the days selected across pages for one analysis session.
type Machine struct {
	weekStart time.Weekday
	state     model.SpanState
	days      []model.Day
}

// New returns a Machine in the Idle state.
func New(weekStart time.Weekday) *Machine {
	return &Machine{weekStart: weekStart}
}

// State returns the current state.
func (m *Machine) State() model.SpanState {
	return m.state
}

// WeekStart returns the configured week-start weekday.
func (m *Machine) WeekStart() time.Weekday {
	return m.weekStart
}

// RequestCurrentWeek resets the machine for a current-week analysis.
func (m *Machine) RequestCurrentWeek() {
	m.state = model.Idle
	m.days = nil
}

// RequestPreviousWeek resets the machine for a previous-week analysis. The
// caller navigates to the previous page and feeds it next.
func (m *Machine) RequestPreviousWeek() {
	m.RequestSpanningWeek()
}

// RequestSpanningWeek resets the machine to collect a week that starts on
// the next page fed and may continue on the pages after it.
func (m *Machine) RequestSpanningWeek() {
	m.state = model.ViewingPreviousOnly
	m.days = nil
}

// Feed scans one page. It returns true once the selected days form the
// complete logical week; while it returns false the caller must supply the
// following page.
func (m *Machine) Feed(page model.Page) (bool, error) {
	if m.state == model.SpanningComplete {
		return false, ErrNotAwaitingPage
	}
	if m.state == model.Idle {
		m.days, _ = SelectDaysForWeek(page.Days, m.weekStart, model.Idle)
		return true, nil
	}

	selected, next := SelectDaysForWeek(page.Days, m.weekStart, m.state)
	if next == model.ViewingPreviousOnly {
		return false, ErrWeekStartMissing
	}
	m.days = append(m.days, selected...)
	m.state = next
	return next == model.SpanningComplete, nil
}

// Days returns the days selected so far.
func (m *Machine) Days() []model.Day {
	return m.days
}
