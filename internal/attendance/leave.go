package attendance

import (
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// ProjectTimeToLeave returns the instant at which the open shift covers the
// remaining weekly time. It reports false when there is no open shift from
// today, nothing is pending, the pending time exceeds what one day can
// absorb (maxPerDay), or the projected instant has already passed.
func ProjectTimeToLeave(open *model.Shift, week model.WeekTotals, maxPerDay time.Duration, now time.Time) (time.Time, bool) {
	if open == nil || open.Closed || !timecalc.SameDay(open.Start, now) {
		return time.Time{}, false
	}
	if week.Remaining <= 0 || week.Remaining > maxPerDay {
		return time.Time{}, false
	}
	leave := open.Start.Add(week.Remaining)
	if leave.Before(now) {
		return time.Time{}, false
	}
	return leave, true
}
