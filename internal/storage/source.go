package storage

import (
	"context"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// DirSource serves pages from the local store, mimicking the timesheet's
// seven-day window that starts on PageStart.
type DirSource struct {
	Base      string
	PageStart time.Weekday
	Today     time.Time
}

// Page returns the window offset pages away from the one containing Today.
// Windows that begin after Today do not exist yet.
func (s DirSource) Page(ctx context.Context, offset int) (model.Page, error) {
	if err := ctx.Err(); err != nil {
		return model.Page{}, err
	}
	first, last := timecalc.PageRange(s.Today.AddDate(0, 0, 7*offset), s.PageStart)
	if first.After(s.Today) {
		return model.Page{}, model.ErrNoPage
	}
	days, err := LoadRange(s.Base, first, last)
	if err != nil {
		return model.Page{}, err
	}
	return model.Page{Days: days}, nil
}
