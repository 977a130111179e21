package timecalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedClock is returned when a checkpoint label is not a valid HH:MM clock time.
var ErrMalformedClock = errors.New("malformed clock label")

// Date layouts accepted by ParseDate. The second one is the form the
// timesheet page embeds in its hidden day inputs (e.g. "14_05_2017").
const (
	DateLayout       = "2006-01-02"
	SourceDateLayout = "02_01_2006"
)

// HoursToDuration converts whole hours to a Duration.
func HoursToDuration(h int) time.Duration {
	return time.Duration(h) * time.Hour
}

// MinutesToDuration converts whole minutes to a Duration.
func MinutesToDuration(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

// Between returns b - a. The result is negative when b precedes a.
func Between(a, b time.Time) time.Duration {
	return b.Sub(a)
}

// FormatDuration formats d as HH:MM, truncating seconds. Negative durations
// format as 00:00; use FormatSigned for balances.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatSigned formats a balance as "00:00", "+HH:MM" or "-HH:MM".
func FormatSigned(d time.Duration) string {
	switch {
	case d > 0:
		return "+" + FormatDuration(d)
	case d < 0:
		return "-" + FormatDuration(-d)
	default:
		return FormatDuration(0)
	}
}

// FormatClock formats the wall-clock time of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// ParseClock splits an "HH:MM" label into hour and minute.
func ParseClock(label string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(label), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, label)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, label)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, label)
	}
	return h, m, nil
}

// CombineDateAndClock returns the instant at the given HH:MM on day's calendar
// date, in day's location.
func CombineDateAndClock(day time.Time, label string) (time.Time, error) {
	h, m, err := ParseClock(label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

// ParseDate parses a calendar date in either DateLayout or SourceDateLayout,
// at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{DateLayout, SourceDateLayout} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// PageRange returns the first and last day of the seven-day window that
// starts on weekday start and contains t.
func PageRange(t time.Time, start time.Weekday) (time.Time, time.Time) {
	offset := (int(t.Weekday()) - int(start) + 7) % 7
	first := StartOfDay(t.AddDate(0, 0, -offset))
	last := StartOfDay(first.AddDate(0, 0, 6))
	return first, last
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CompareDates compares the calendar dates of a and b, ignoring the clock
// and the location: -1 if a's date is earlier, 0 if equal, +1 if later.
func CompareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Compare(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}

// ParseWeekday parses an English weekday name ("monday", "Mon") case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
