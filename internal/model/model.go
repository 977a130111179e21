package model

import (
	"errors"
	"fmt"
	"time"
)

// Checkpoint is one observed clock-in/clock-out pair of a day. A nil Out
// means the shift is still open.
type Checkpoint struct {
	In  string  `json:"in"`
	Out *string `json:"out,omitempty"`
}

// Day is a calendar day with its checkpoints, oldest first.
type Day struct {
	Date        time.Time    `json:"date"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// Page is the ordered set of days one navigational page of the timesheet shows.
type Page struct {
	Days []Day `json:"days"`
}

// Shift is one continuous clocked-in period derived from a Checkpoint.
type Shift struct {
	Start    time.Time     `json:"start"`
	End      *time.Time    `json:"end,omitempty"`
	Duration time.Duration `json:"duration"`
	Closed   bool          `json:"closed"`
}

// DayTotals aggregates the shifts of one day.
type DayTotals struct {
	Date      time.Time     `json:"date"`
	Shifts    []Shift       `json:"shifts"`
	LaborTime time.Duration `json:"labor_time"`
	// Balance is LaborTime minus the daily target; zero unless HasClosed.
	Balance   time.Duration `json:"balance"`
	HasClosed bool          `json:"has_closed"`
	IsToday   bool          `json:"is_today"`
	Empty     bool          `json:"empty"`
	// RunningTime adds the running duration of today's open shift to LaborTime.
	RunningTime time.Duration `json:"running_time"`
	// TimeToLeave is when today's open shift satisfies the daily target.
	TimeToLeave *time.Time `json:"time_to_leave,omitempty"`
}

// OpenShift returns the last open shift of the day, if any.
func (d DayTotals) OpenShift() (Shift, bool) {
	for i := len(d.Shifts) - 1; i >= 0; i-- {
		if !d.Shifts[i].Closed {
			return d.Shifts[i], true
		}
	}
	return Shift{}, false
}

// WeekTotals aggregates the selected days of a logical week.
type WeekTotals struct {
	LaborTime time.Duration `json:"labor_time"`
	// Remaining is the weekly target minus LaborTime, unfloored.
	Remaining   time.Duration `json:"remaining"`
	PendingTime time.Duration `json:"pending_time"`
	ExtraTime   time.Duration `json:"extra_time"`
	Balance     time.Duration `json:"balance"`
}

// ShowPending reports whether PendingTime (rather than ExtraTime) is the
// active display field.
func (w WeekTotals) ShowPending() bool {
	return w.Remaining >= 0
}

// SpanState is the state of the week-span state machine.
type SpanState int

const (
	Idle SpanState = iota
	ViewingPreviousOnly
	SpanningInProgress
	SpanningComplete
)

var spanStateNames = map[SpanState]string{
	Idle:                "idle",
	ViewingPreviousOnly: "viewing_previous_only",
	SpanningInProgress:  "spanning_in_progress",
	SpanningComplete:    "spanning_complete",
}

func (s SpanState) String() string {
	if name, ok := spanStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SpanState(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s SpanState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *SpanState) UnmarshalText(text []byte) error {
	for state, name := range spanStateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown span state %q", text)
}

// WeekReport is the result of one full analysis pass.
type WeekReport struct {
	Totals      WeekTotals  `json:"totals"`
	Days        []DayTotals `json:"days"`
	TimeToLeave *time.Time  `json:"time_to_leave,omitempty"`
	State       SpanState   `json:"state"`
	// Previous marks a report of the previous week.
	Previous bool `json:"previous"`
}

// Today returns today's totals, if today is part of the report.
func (r WeekReport) Today() (DayTotals, bool) {
	for _, d := range r.Days {
		if d.IsToday {
			return d, true
		}
	}
	return DayTotals{}, false
}

// ErrNoPage is returned by page sources when no page exists at the requested
// offset.
var ErrNoPage = errors.New("no such page")
