package timesheet

import (
	"fmt"
	"sort"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/storage"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base   string
	DryRun bool
}

// sameCheckpoints reports whether stored and remote hold the same pairs in order.
func sameCheckpoints(stored []storage.Checkpoint, remote []model.Checkpoint) bool {
	if len(stored) != len(remote) {
		return false
	}
	for i := range stored {
		if stored[i].In != remote[i].In {
			return false
		}
		a, b := stored[i].Out, remote[i].Out
		if (a == nil) != (b == nil) || (a != nil && *a != *b) {
			return false
		}
	}
	return true
}

// mergeDay replaces the timesheet-sourced checkpoints of df with remote,
// keeping IDs of unchanged positions and any manual checkpoints.
func mergeDay(df storage.DayFile, remote []model.Checkpoint) (storage.DayFile, []storage.Checkpoint) {
	var synced, manual []storage.Checkpoint
	for _, cp := range df.Checkpoints {
		if cp.Source == storage.SourceTimesheet {
			synced = append(synced, cp)
		} else {
			manual = append(manual, cp)
		}
	}

	merged := make([]storage.Checkpoint, 0, len(remote)+len(manual))
	for i, rc := range remote {
		id := storage.NewID()
		if i < len(synced) && synced[i].In == rc.In {
			id = synced[i].ID
		}
		merged = append(merged, storage.Checkpoint{ID: id, In: rc.In, Out: rc.Out, Source: storage.SourceTimesheet})
	}
	merged = append(merged, manual...)
	// Zero-padded HH:MM labels sort chronologically.
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].In < merged[j].In })

	df.Checkpoints = merged
	return df, synced
}

// SyncPage writes the days of a fetched page into the local store.
// It prints progress to stdout and returns a SyncResult.
func SyncPage(page model.Page, opts SyncOptions) (SyncResult, error) {
	var result SyncResult

	for _, day := range page.Days {
		label := day.Date.Format(timecalc.DateLayout)

		existing, err := storage.LoadDay(opts.Base, day.Date)
		if err != nil {
			fmt.Printf("  ! Error loading %s: %v\n", label, err)
			result.Errors++
			continue
		}

		merged, synced := mergeDay(existing, day.Checkpoints)
		if sameCheckpoints(synced, day.Checkpoints) {
			if len(day.Checkpoints) > 0 {
				fmt.Printf("  – Skipped:  %s (unchanged)\n", label)
				result.Skipped++
			}
			continue
		}

		if !opts.DryRun {
			if err := storage.SaveDay(opts.Base, day.Date, merged); err != nil {
				fmt.Printf("  ! Error saving %s: %v\n", label, err)
				result.Errors++
				continue
			}
		}

		if len(synced) == 0 {
			fmt.Printf("  ✓ Imported: %s (%d checkpoints)\n", label, len(day.Checkpoints))
			result.Imported++
		} else {
			fmt.Printf("  ↑ Updated:  %s (%d checkpoints)\n", label, len(day.Checkpoints))
			result.Updated++
		}
	}

	return result, nil
}
