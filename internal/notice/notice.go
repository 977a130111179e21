// Package notice detects when worked time is a few minutes away from a goal
// or a legal limit.
package notice

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
)

// Kind identifies the goal a notice refers to.
type Kind string

const (
	WeeklyGoal     Kind = "weekly_goal"
	DailyGoal      Kind = "daily_goal"
	MaxDaily       Kind = "max_daily"
	MaxConsecutive Kind = "max_consecutive"
)

var messages = map[Kind]string{
	WeeklyGoal:     "Weekly goal reached in _min_ min",
	DailyGoal:      "Daily goal reached in _min_ min",
	MaxDaily:       "Daily maximum reached in _min_ min",
	MaxConsecutive: "Maximum consecutive time reached in _min_ min",
}

// Goals are the thresholds checked, with the minutes-before-goal at which a
// notice fires.
type Goals struct {
	Weekly         time.Duration
	Daily          time.Duration
	MaxDaily       time.Duration
	MaxConsecutive time.Duration
	RangeMinutes   []int
}

// Notice is a single alert.
type Notice struct {
	Kind    Kind `json:"kind"`
	Minutes int  `json:"minutes"`
}

// Message renders the notice text.
func (n Notice) Message() string {
	return strings.ReplaceAll(messages[n.Kind], "_min_", fmt.Sprint(n.Minutes))
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}

// due reports the first range minute m for which worked is exactly m minutes
// short of goal.
func due(goal, worked time.Duration, ranges []int) (int, bool) {
	for _, m := range ranges {
		if minutes(goal)-m == minutes(worked) {
			return m, true
		}
	}
	return 0, false
}

// Check returns the first notice due for report, in order: weekly goal,
// then today's daily goal, daily maximum and consecutive maximum.
func Check(report model.WeekReport, goals Goals) (Notice, bool) {
	today, hasToday := report.Today()

	weekWorked := report.Totals.LaborTime
	if hasToday {
		weekWorked += today.RunningTime - today.LaborTime
	}
	if m, ok := due(goals.Weekly, weekWorked, goals.RangeMinutes); ok {
		return Notice{Kind: WeeklyGoal, Minutes: m}, true
	}

	if !hasToday || today.Empty {
		return Notice{}, false
	}
	if m, ok := due(goals.Daily, today.RunningTime, goals.RangeMinutes); ok {
		return Notice{Kind: DailyGoal, Minutes: m}, true
	}
	if m, ok := due(goals.MaxDaily, today.RunningTime, goals.RangeMinutes); ok {
		return Notice{Kind: MaxDaily, Minutes: m}, true
	}
	if open, ok := today.OpenShift(); ok && open.Duration > 0 {
		if m, ok := due(goals.MaxConsecutive, open.Duration, goals.RangeMinutes); ok {
			return Notice{Kind: MaxConsecutive, Minutes: m}, true
		}
	}
	return Notice{}, false
}
