package storage

import (
	"errors"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// ErrAlreadyIn is returned when clocking in while a shift is open.
var ErrAlreadyIn = errors.New("already clocked in")

// ErrNotIn is returned when clocking out without an open shift.
var ErrNotIn = errors.New("not clocked in")

// PunchIn opens a shift on at's day at at's wall-clock minute.
func PunchIn(base string, at time.Time) (Checkpoint, error) {
	open, err := FindOpenCheckpoint(base, at)
	if err != nil {
		return Checkpoint{}, err
	}
	if open != nil {
		return *open, ErrAlreadyIn
	}
	cp := Checkpoint{
		ID:     NewID(),
		In:     timecalc.FormatClock(at),
		Source: SourceManual,
	}
	return cp, UpdateCheckpoint(base, at, cp)
}

// PunchOut closes the open shift of at's day.
func PunchOut(base string, at time.Time) (Checkpoint, error) {
	open, err := FindOpenCheckpoint(base, at)
	if err != nil {
		return Checkpoint{}, err
	}
	if open == nil {
		return Checkpoint{}, ErrNotIn
	}
	out := timecalc.FormatClock(at)
	open.Out = &out
	return *open, UpdateCheckpoint(base, at, *open)
}
