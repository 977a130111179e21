package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
)

// Sources recorded on stored checkpoints.
const (
	SourceManual    = "manual"
	SourceTimesheet = "timesheet"
)

// Checkpoint is a stored clock-in/clock-out pair.
type Checkpoint struct {
	ID     string  `json:"id"`
	In     string  `json:"in"`
	Out    *string `json:"out"`
	Source string  `json:"source"`
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date        string       `json:"date"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// Validate checks that every label is a well-formed HH:MM clock time.
func (df DayFile) Validate() error {
	for _, cp := range df.Checkpoints {
		if _, _, err := timecalc.ParseClock(cp.In); err != nil {
			return fmt.Errorf("%s checkpoint %s: %w", df.Date, cp.ID, err)
		}
		if cp.Out != nil {
			if _, _, err := timecalc.ParseClock(*cp.Out); err != nil {
				return fmt.Errorf("%s checkpoint %s: %w", df.Date, cp.ID, err)
			}
		}
	}
	return nil
}

// Day converts the file into the engine's day model, dated at midnight of t.
func (df DayFile) Day(t time.Time) model.Day {
	day := model.Day{Date: timecalc.StartOfDay(t), Checkpoints: make([]model.Checkpoint, 0, len(df.Checkpoints))}
	for _, cp := range df.Checkpoints {
		day.Checkpoints = append(day.Checkpoints, model.Checkpoint{In: cp.In, Out: cp.Out})
	}
	return day
}

// NewID returns a fresh checkpoint ID.
func NewID() string {
	return uuid.NewString()
}

// BaseDir returns the root data directory (~/.wp).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wp"), nil
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, "days", t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DayFile{Date: t.Format(timecalc.DateLayout), Checkpoints: []Checkpoint{}}, nil
	}
	if err != nil {
		return DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	if err := df.Validate(); err != nil {
		return DayFile{}, fmt.Errorf("invalid day file %s: %w", path, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df DayFile) error {
	if err := df.Validate(); err != nil {
		return fmt.Errorf("storage error: %w", err)
	}

	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// FindOpenCheckpoint returns the most recent checkpoint without an out time
// on day, or nil.
func FindOpenCheckpoint(base string, day time.Time) (*Checkpoint, error) {
	df, err := LoadDay(base, day)
	if err != nil {
		return nil, err
	}
	for i := len(df.Checkpoints) - 1; i >= 0; i-- {
		if df.Checkpoints[i].Out == nil {
			return &df.Checkpoints[i], nil
		}
	}
	return nil, nil
}

// UpdateCheckpoint replaces or appends a checkpoint in the DayFile for the given date.
func UpdateCheckpoint(base string, day time.Time, cp Checkpoint) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	for i, c := range df.Checkpoints {
		if c.ID == cp.ID {
			df.Checkpoints[i] = cp
			return SaveDay(base, day, df)
		}
	}
	df.Checkpoints = append(df.Checkpoints, cp)
	return SaveDay(base, day, df)
}

// LoadRange loads the days in [from, to] inclusive, one model.Day per
// calendar day whether or not anything was recorded.
func LoadRange(base string, from, to time.Time) ([]model.Day, error) {
	var days []model.Day
	for d := timecalc.StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		days = append(days, df.Day(d))
	}
	return days, nil
}
