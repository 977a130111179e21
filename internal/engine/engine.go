// Package engine turns timesheet pages into a WeekReport.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/attendance"
	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
	"github.com/Tiliavir/weekly-punch/internal/weekspan"
)

// ErrIncompleteWeek is returned when the pages supplied run out before the
// logical week is complete.
var ErrIncompleteWeek = errors.New("incomplete week")

// Mode selects which week an analysis covers.
type Mode int

const (
	CurrentWeek Mode = iota
	PreviousWeek
)

// Settings are the targets and thresholds of an analysis.
type Settings struct {
	WeekStart    time.Weekday
	DailyTarget  time.Duration
	WeeklyTarget time.Duration
	// MaxConsecutive caps how long an open shift may have been running and
	// still count as "working now".
	MaxConsecutive time.Duration
	// MaxProjection is the largest remaining weekly time a single day may
	// absorb for a time to leave to be projected.
	MaxProjection time.Duration
}

// DefaultSettings returns a 44h week of five 8h48 days starting on Monday.
func DefaultSettings() Settings {
	return Settings{
		WeekStart:      time.Monday,
		DailyTarget:    timecalc.MinutesToDuration(528),
		WeeklyTarget:   timecalc.HoursToDuration(44),
		MaxConsecutive: timecalc.HoursToDuration(6),
		MaxProjection:  timecalc.MinutesToDuration(528),
	}
}

// Analyze folds the selected days of a week into a report. now decides which
// day is today and how long an open shift has been running.
func Analyze(days []model.Day, s Settings, now time.Time, state model.SpanState) (model.WeekReport, error) {
	report := model.WeekReport{
		Days:  make([]model.DayTotals, 0, len(days)),
		State: state,
	}

	var open *model.Shift
	for _, d := range days {
		shifts, err := attendance.ExtractShifts(d.Date, d.Checkpoints, now, s.MaxConsecutive)
		if err != nil {
			return model.WeekReport{}, fmt.Errorf("day %s: %w", d.Date.Format(timecalc.DateLayout), err)
		}
		totals := attendance.AggregateDay(d.Date, shifts, s.DailyTarget, timecalc.SameDay(d.Date, now))
		if shift, ok := totals.OpenShift(); ok {
			open = &shift
		}
		report.Days = append(report.Days, totals)
	}

	report.Totals = attendance.AggregateWeek(report.Days, s.WeeklyTarget)
	if leave, ok := attendance.ProjectTimeToLeave(open, report.Totals, s.MaxProjection, now); ok {
		report.TimeToLeave = &leave
	}
	return report, nil
}

// ComputeWeek analyses pages in navigation order: for PreviousWeek the
// previous page comes first, followed by the pages after it.
func ComputeWeek(pages []model.Page, mode Mode, s Settings, now time.Time) (model.WeekReport, error) {
	session := NewSession(s)
	session.Start(mode)
	for _, p := range pages {
		report, err := session.Feed(p, now)
		if err != nil {
			return model.WeekReport{}, err
		}
		if report != nil {
			return *report, nil
		}
	}
	return model.WeekReport{}, session.Exhausted()
}

// Session drives one week-span state machine through successive pages.
type Session struct {
	settings Settings
	machine  *weekspan.Machine
	fed      bool
	previous bool
}

// NewSession returns a session ready for a current-week analysis.
func NewSession(s Settings) *Session {
	return &Session{settings: s, machine: weekspan.New(s.WeekStart)}
}

// Start resets the session for mode.
func (s *Session) Start(mode Mode) {
	if mode == PreviousWeek {
		s.PreviousWeek()
		return
	}
	s.CurrentWeek()
}

// CurrentWeek resets the session for the current week.
func (s *Session) CurrentWeek() {
	s.machine.RequestCurrentWeek()
	s.fed, s.previous = false, false
}

// CurrentWeekFromEarlierPage resets the session for a current week whose
// start lies on a page before the one showing today. The caller feeds that
// page first.
func (s *Session) CurrentWeekFromEarlierPage() {
	s.machine.RequestSpanningWeek()
	s.fed, s.previous = false, false
}

// PreviousWeek resets the session for the previous week. The caller feeds
// the previous page first.
func (s *Session) PreviousWeek() {
	s.machine.RequestPreviousWeek()
	s.fed, s.previous = false, true
}

// State returns the state of the underlying state machine.
func (s *Session) State() model.SpanState {
	return s.machine.State()
}

// Feed scans one page. It returns a nil report while the week still spans
// further pages.
func (s *Session) Feed(page model.Page, now time.Time) (*model.WeekReport, error) {
	s.fed = true
	done, err := s.machine.Feed(page)
	if errors.Is(err, weekspan.ErrWeekStartMissing) {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteWeek, err)
	}
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, nil
	}

	report, err := Analyze(s.machine.Days(), s.settings, now, s.machine.State())
	if err != nil {
		return nil, err
	}
	report.Previous = s.previous
	return &report, nil
}

// Exhausted is called when no further page exists. It returns
// ErrIncompleteWeek unless the week was already assembled.
func (s *Session) Exhausted() error {
	switch {
	case !s.fed:
		return fmt.Errorf("%w: no page supplied", ErrIncompleteWeek)
	case s.machine.State() == model.ViewingPreviousOnly:
		return fmt.Errorf("%w: week start not found", ErrIncompleteWeek)
	case s.machine.State() == model.SpanningInProgress:
		return fmt.Errorf("%w: %d days collected, data source exhausted", ErrIncompleteWeek, len(s.machine.Days()))
	default:
		return nil
	}
}
