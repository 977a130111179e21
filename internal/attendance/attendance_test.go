package attendance_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/attendance"
	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

const (
	dailyTarget    = 528 * time.Minute
	weeklyTarget   = 2640 * time.Minute
	maxConsecutive = 6 * time.Hour
)

// 2026-02-23 is a Monday.
var monday = time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)

func out(s string) *string { return &s }

func TestExtractShiftsClosed(t *testing.T) {
	now := monday.AddDate(0, 0, 3)
	shifts, err := attendance.ExtractShifts(monday, []model.Checkpoint{
		{In: "08:00", Out: out("12:00")},
		{In: "13:00", Out: out("17:00")},
	}, now, maxConsecutive)
	if err != nil {
		t.Fatalf("ExtractShifts: %v", err)
	}
	if len(shifts) != 2 {
		t.Fatalf("shifts = %d, want 2", len(shifts))
	}
	for i, s := range shifts {
		if !s.Closed {
			t.Errorf("shift %d: expected closed", i)
		}
		if s.Duration != 4*time.Hour {
			t.Errorf("shift %d: duration = %v, want 4h", i, s.Duration)
		}
		if s.End == nil {
			t.Errorf("shift %d: expected end", i)
		}
	}
}

func TestExtractShiftsClampsNegative(t *testing.T) {
	shifts, err := attendance.ExtractShifts(monday, []model.Checkpoint{
		{In: "12:00", Out: out("08:00")},
	}, monday, maxConsecutive)
	if err != nil {
		t.Fatalf("ExtractShifts: %v", err)
	}
	if shifts[0].Duration != 0 {
		t.Errorf("duration = %v, want 0", shifts[0].Duration)
	}
}

func TestExtractShiftsOpen(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"today running", monday.Add(10 * time.Hour), 2 * time.Hour},
		{"today stale", monday.Add(15 * time.Hour), 0},
		{"other day", monday.AddDate(0, 0, 1).Add(9 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts, err := attendance.ExtractShifts(monday, []model.Checkpoint{{In: "08:00"}}, tt.now, maxConsecutive)
			if err != nil {
				t.Fatalf("ExtractShifts: %v", err)
			}
			if shifts[0].Closed {
				t.Fatal("expected open shift")
			}
			if shifts[0].Duration != tt.want {
				t.Errorf("duration = %v, want %v", shifts[0].Duration, tt.want)
			}
		})
	}
}

func TestExtractShiftsEmptyAndMalformed(t *testing.T) {
	shifts, err := attendance.ExtractShifts(monday, nil, monday, maxConsecutive)
	if err != nil || len(shifts) != 0 {
		t.Errorf("ExtractShifts(nil) = %v, %v, want empty", shifts, err)
	}
	_, err = attendance.ExtractShifts(monday, []model.Checkpoint{{In: "8h"}}, monday, maxConsecutive)
	if !errors.Is(err, timecalc.ErrMalformedClock) {
		t.Errorf("err = %v, want ErrMalformedClock", err)
	}
}

func TestAggregateDayOpenShiftExcluded(t *testing.T) {
	now := monday.Add(13 * time.Hour)
	shifts, err := attendance.ExtractShifts(monday, []model.Checkpoint{{In: "08:00"}}, now, maxConsecutive)
	if err != nil {
		t.Fatal(err)
	}
	day := attendance.AggregateDay(monday, shifts, dailyTarget, true)
	if day.LaborTime != 0 {
		t.Errorf("LaborTime = %v, want 0", day.LaborTime)
	}
	if day.HasClosed || day.Balance != 0 {
		t.Errorf("HasClosed = %v, Balance = %v, want false, 0", day.HasClosed, day.Balance)
	}
	if day.RunningTime != 5*time.Hour {
		t.Errorf("RunningTime = %v, want 5h", day.RunningTime)
	}
	if day.TimeToLeave == nil || !day.TimeToLeave.Equal(monday.Add(8*time.Hour+dailyTarget)) {
		t.Errorf("TimeToLeave = %v, want 16:48", day.TimeToLeave)
	}
}

func TestAggregateDayBalance(t *testing.T) {
	shifts, err := attendance.ExtractShifts(monday, []model.Checkpoint{
		{In: "08:00", Out: out("12:00")},
		{In: "13:00", Out: out("17:00")},
	}, monday.AddDate(0, 0, 1), maxConsecutive)
	if err != nil {
		t.Fatal(err)
	}
	day := attendance.AggregateDay(monday, shifts, dailyTarget, false)
	if day.LaborTime != 480*time.Minute {
		t.Errorf("LaborTime = %v, want 8h", day.LaborTime)
	}
	if day.Balance != -48*time.Minute {
		t.Errorf("Balance = %v, want -48m", day.Balance)
	}
	if day.TimeToLeave != nil {
		t.Errorf("TimeToLeave = %v, want nil for a past day", day.TimeToLeave)
	}
}

func TestAggregateWeekScenario(t *testing.T) {
	day := model.DayTotals{Date: monday, LaborTime: 480 * time.Minute, Balance: -48 * time.Minute, HasClosed: true}
	week := attendance.AggregateWeek([]model.DayTotals{day}, weeklyTarget)

	if week.LaborTime != 480*time.Minute {
		t.Errorf("LaborTime = %v, want 8h", week.LaborTime)
	}
	if week.Remaining != 2160*time.Minute {
		t.Errorf("Remaining = %v, want 36h", week.Remaining)
	}
	if got := timecalc.FormatDuration(week.PendingTime); got != "36:00" {
		t.Errorf("PendingTime = %q, want 36:00", got)
	}
	if week.ExtraTime != 0 {
		t.Errorf("ExtraTime = %v, want 0", week.ExtraTime)
	}
	if got := timecalc.FormatSigned(week.Balance); got != "-00:48" {
		t.Errorf("Balance = %q, want -00:48", got)
	}
	if !week.ShowPending() {
		t.Error("ShowPending = false, want true")
	}
}

func TestAggregateWeekSkipsEmptyAndToday(t *testing.T) {
	worked := model.DayTotals{Date: monday, LaborTime: 10 * time.Hour, Balance: 72 * time.Minute, HasClosed: true}
	empty := attendance.AggregateDay(monday.AddDate(0, 0, 1), nil, dailyTarget, false)
	today := model.DayTotals{Date: monday.AddDate(0, 0, 2), LaborTime: 2 * time.Hour, Balance: -328 * time.Minute, HasClosed: true, IsToday: true}

	without := attendance.AggregateWeek([]model.DayTotals{worked, today}, weeklyTarget)
	with := attendance.AggregateWeek([]model.DayTotals{worked, empty, today}, weeklyTarget)
	if with != without {
		t.Errorf("empty day changed totals: %+v vs %+v", with, without)
	}
	if with.Balance != 72*time.Minute {
		t.Errorf("Balance = %v, want +72m (today excluded)", with.Balance)
	}
	if with.LaborTime != 12*time.Hour {
		t.Errorf("LaborTime = %v, want 12h (today's labor counted)", with.LaborTime)
	}
}

func TestAggregateWeekExtra(t *testing.T) {
	day := model.DayTotals{Date: monday, LaborTime: 45 * time.Hour, HasClosed: true}
	week := attendance.AggregateWeek([]model.DayTotals{day}, weeklyTarget)
	if week.ShowPending() {
		t.Error("ShowPending = true, want false")
	}
	if week.PendingTime != 0 || week.ExtraTime != time.Hour {
		t.Errorf("PendingTime = %v, ExtraTime = %v, want 0, 1h", week.PendingTime, week.ExtraTime)
	}
}

func TestProjectTimeToLeave(t *testing.T) {
	start := monday.Add(8 * time.Hour)
	now := start.Add(10 * time.Minute)
	open := &model.Shift{Start: start}
	maxPerDay := 528 * time.Minute

	tests := []struct {
		name      string
		open      *model.Shift
		remaining time.Duration
		now       time.Time
		want      time.Time
		ok        bool
	}{
		{"within one day", open, 500 * time.Minute, now, start.Add(500 * time.Minute), true},
		{"exactly one day", open, maxPerDay, now, start.Add(maxPerDay), true},
		{"exceeds one day", open, 600 * time.Minute, now, time.Time{}, false},
		// Running past the consecutive limit zeroes the shift's duration,
		// not its start: the projection still counts from the clock-in.
		{"past consecutive limit", &model.Shift{Start: start, Duration: 0}, 480 * time.Minute, start.Add(7 * time.Hour), start.Add(480 * time.Minute), true},
		{"nothing pending", open, 0, now, time.Time{}, false},
		{"no open shift", nil, 500 * time.Minute, now, time.Time{}, false},
		{"closed shift", &model.Shift{Start: start, Closed: true}, 500 * time.Minute, now, time.Time{}, false},
		{"not today", open, 500 * time.Minute, now.AddDate(0, 0, 1), time.Time{}, false},
		{"already elapsed", open, 30 * time.Minute, start.Add(time.Hour), time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := model.WeekTotals{Remaining: tt.remaining}
			got, ok := attendance.ProjectTimeToLeave(tt.open, week, maxPerDay, tt.now)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("leave = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectTimeToLeaveFromStaleShift(t *testing.T) {
	now := monday.Add(15 * time.Hour)
	shifts, err := attendance.ExtractShifts(monday, []model.Checkpoint{{In: "08:00"}}, now, maxConsecutive)
	if err != nil {
		t.Fatalf("ExtractShifts: %v", err)
	}
	if shifts[0].Duration != 0 {
		t.Fatalf("Duration = %v, want 0 past the consecutive limit", shifts[0].Duration)
	}

	week := model.WeekTotals{Remaining: 480 * time.Minute}
	got, ok := attendance.ProjectTimeToLeave(&shifts[0], week, 528*time.Minute, now)
	if want := monday.Add(16 * time.Hour); !ok || !got.Equal(want) {
		t.Errorf("ProjectTimeToLeave = %v, %v, want %v, true", got, ok, want)
	}
}
