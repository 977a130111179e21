package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// maxPages bounds how many pages Drive requests while locating a week and
// while assembling it.
const maxPages = 4

// Source yields timesheet pages by offset from the current page: 0 is the
// page showing today, -1 the one before it. A source returns
// model.ErrNoPage when the offset is out of range.
type Source interface {
	Page(ctx context.Context, offset int) (model.Page, error)
}

// Drive plays the navigating caller: it walks to the page holding the first
// day of the requested week, then feeds that page and the ones after it to a
// Session until the week is complete.
//
// Pages need not start on the week-start weekday. When the current week
// began on an earlier page, the walk spans from there to today's page.
func Drive(ctx context.Context, src Source, mode Mode, s Settings, now time.Time) (model.WeekReport, error) {
	first, _ := timecalc.PageRange(now, s.WeekStart)
	offset := 0
	if mode == PreviousWeek {
		first = first.AddDate(0, 0, -7)
		offset = -1
	}

	session := NewSession(s)
	page, offset, err := locate(ctx, src, offset, first)
	if errors.Is(err, model.ErrNoPage) {
		return model.WeekReport{}, fmt.Errorf("locating week of %s: %w", first.Format(timecalc.DateLayout), session.Exhausted())
	}
	if err != nil {
		return model.WeekReport{}, err
	}

	switch {
	case mode == PreviousWeek:
		session.PreviousWeek()
	case offset < 0:
		session.CurrentWeekFromEarlierPage()
	default:
		session.CurrentWeek()
	}

	for i := 0; i < maxPages; i++ {
		report, err := session.Feed(page, now)
		if err != nil {
			return model.WeekReport{}, err
		}
		if report != nil {
			return *report, nil
		}

		offset++
		page, err = src.Page(ctx, offset)
		if errors.Is(err, model.ErrNoPage) {
			return model.WeekReport{}, fmt.Errorf("page %d: %w", offset, session.Exhausted())
		}
		if err != nil {
			return model.WeekReport{}, fmt.Errorf("loading page %d: %w", offset, err)
		}
	}
	return model.WeekReport{}, fmt.Errorf("%w: week spans more than %d pages", ErrIncompleteWeek, maxPages)
}

// locate requests pages starting at offset and steps backwards or forwards
// until it finds the one whose days include day. A page without days is
// returned as is.
func locate(ctx context.Context, src Source, offset int, day time.Time) (model.Page, int, error) {
	for i := 0; i < maxPages; i++ {
		page, err := src.Page(ctx, offset)
		if errors.Is(err, model.ErrNoPage) {
			return model.Page{}, offset, err
		}
		if err != nil {
			return model.Page{}, offset, fmt.Errorf("loading page %d: %w", offset, err)
		}
		if len(page.Days) == 0 {
			return page, offset, nil
		}

		switch {
		case timecalc.CompareDates(day, page.Days[0].Date) < 0:
			offset--
		case timecalc.CompareDates(day, page.Days[len(page.Days)-1].Date) > 0:
			offset++
		default:
			return page, offset, nil
		}
	}
	return model.Page{}, offset, fmt.Errorf("%w: no page holds %s", ErrIncompleteWeek, day.Format(timecalc.DateLayout))
}
