// Package attendance derives shifts from raw checkpoints and folds them into
// day and week totals.
package attendance

import (
	"fmt"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// ExtractShifts turns the checkpoints of day into shifts, oldest first.
//
// Closed shifts report their in-to-out duration, clamped at zero. An open
// shift only reports a running duration when day is today and it has been
// running for less than maxConsecutive; otherwise its duration is zero.
func ExtractShifts(day time.Time, checkpoints []model.Checkpoint, now time.Time, maxConsecutive time.Duration) ([]model.Shift, error) {
	shifts := make([]model.Shift, 0, len(checkpoints))
	for i, cp := range checkpoints {
		start, err := timecalc.CombineDateAndClock(day, cp.In)
		if err != nil {
			return nil, fmt.Errorf("checkpoint %d in: %w", i, err)
		}

		if cp.Out != nil {
			end, err := timecalc.CombineDateAndClock(day, *cp.Out)
			if err != nil {
				return nil, fmt.Errorf("checkpoint %d out: %w", i, err)
			}
			shifts = append(shifts, model.Shift{
				Start:    start,
				End:      &end,
				Duration: max(timecalc.Between(start, end), 0),
				Closed:   true,
			})
			continue
		}

		shift := model.Shift{Start: start}
		if timecalc.SameDay(day, now) {
			if running := timecalc.Between(start, now); running >= 0 && running < maxConsecutive {
				shift.Duration = running
			}
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}
