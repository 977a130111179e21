package attendance

import (
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
)

// AggregateDay folds the shifts of one day. Only closed shifts count as labor
// time; the running duration of an open shift is reported separately in
// RunningTime.
func AggregateDay(date time.Time, shifts []model.Shift, dailyTarget time.Duration, isToday bool) model.DayTotals {
	day := model.DayTotals{
		Date:    date,
		Shifts:  shifts,
		IsToday: isToday,
		Empty:   len(shifts) == 0,
	}

	var open *model.Shift
	for i := range shifts {
		if shifts[i].Closed {
			day.LaborTime += shifts[i].Duration
			day.HasClosed = true
		} else {
			open = &shifts[i]
		}
	}
	if day.HasClosed {
		day.Balance = day.LaborTime - dailyTarget
	}

	day.RunningTime = day.LaborTime
	if isToday && open != nil {
		day.RunningTime += open.Duration
		leave := open.Start.Add(max(dailyTarget-day.LaborTime, 0))
		day.TimeToLeave = &leave
	}
	return day
}

// AggregateWeek folds day totals into week totals. Empty days contribute
// nothing; today's balance and balances of days without closed shifts are
// left out of the weekly balance.
func AggregateWeek(days []model.DayTotals, weeklyTarget time.Duration) model.WeekTotals {
	var week model.WeekTotals
	for _, d := range days {
		if d.Empty {
			continue
		}
		week.LaborTime += d.LaborTime
		if d.HasClosed && !d.IsToday {
			week.Balance += d.Balance
		}
	}
	week.Remaining = weeklyTarget - week.LaborTime
	week.PendingTime = max(week.Remaining, 0)
	week.ExtraTime = max(-week.Remaining, 0)
	return week
}
