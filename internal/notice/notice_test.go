package notice_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/notice"
)

var goals = notice.Goals{
	Weekly:         44 * time.Hour,
	Daily:          528 * time.Minute,
	MaxDaily:       600 * time.Minute,
	MaxConsecutive: 6 * time.Hour,
	RangeMinutes:   []int{15, 5},
}

func TestCheck(t *testing.T) {
	day := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		report model.WeekReport
		want   notice.Notice
		ok     bool
	}{
		{
			name:   "nothing due",
			report: model.WeekReport{Days: []model.DayTotals{{Date: day, RunningTime: 3 * time.Hour}}},
		},
		{
			name: "weekly goal counts running time",
			report: model.WeekReport{
				Totals: model.WeekTotals{LaborTime: 43 * time.Hour},
				Days: []model.DayTotals{{
					Date: day, IsToday: true, LaborTime: 2 * time.Hour, RunningTime: 2*time.Hour + 45*time.Minute,
				}},
			},
			want: notice.Notice{Kind: notice.WeeklyGoal, Minutes: 15},
			ok:   true,
		},
		{
			name:   "daily goal",
			report: model.WeekReport{Days: []model.DayTotals{{Date: day, IsToday: true, RunningTime: 523 * time.Minute}}},
			want:   notice.Notice{Kind: notice.DailyGoal, Minutes: 5},
			ok:     true,
		},
		{
			name:   "daily maximum",
			report: model.WeekReport{Days: []model.DayTotals{{Date: day, IsToday: true, RunningTime: 585 * time.Minute}}},
			want:   notice.Notice{Kind: notice.MaxDaily, Minutes: 15},
			ok:     true,
		},
		{
			name: "past day closed just short of a goal",
			report: model.WeekReport{Days: []model.DayTotals{
				{Date: day, LaborTime: 523 * time.Minute, RunningTime: 523 * time.Minute, HasClosed: true},
				{Date: day.AddDate(0, 0, 1), LaborTime: 585 * time.Minute, RunningTime: 585 * time.Minute, HasClosed: true},
				{Date: day.AddDate(0, 0, 2), IsToday: true, RunningTime: 2 * time.Hour},
			}},
		},
		{
			name:   "daily maximum on a day that is not today",
			report: model.WeekReport{Days: []model.DayTotals{{Date: day, RunningTime: 585 * time.Minute}}},
		},
		{
			name: "consecutive maximum",
			report: model.WeekReport{Days: []model.DayTotals{{
				Date: day, IsToday: true, RunningTime: 355 * time.Minute,
				Shifts: []model.Shift{{Start: day.Add(8 * time.Hour), Duration: 355 * time.Minute}},
			}}},
			want: notice.Notice{Kind: notice.MaxConsecutive, Minutes: 5},
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := notice.Check(tt.report, goals)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Check = %+v, %v, want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	n := notice.Notice{Kind: notice.DailyGoal, Minutes: 15}
	if got := n.Message(); got != "Daily goal reached in 15 min" {
		t.Errorf("Message = %q", got)
	}
}
