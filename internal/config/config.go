package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/weekly-punch/internal/engine"
	"github.com/Tiliavir/weekly-punch/internal/notice"
	"github.com/Tiliavir/weekly-punch/internal/timecalc"
	"github.com/Tiliavir/weekly-punch/internal/timesheet"
)

// Config is the root configuration for wp, stored in ~/.wp/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// WeekStart is the weekday a logical week starts on, e.g. "monday".
	WeekStart string `json:"week_start"`
	// PageStart is the weekday the timesheet's seven-day window starts on.
	PageStart            string `json:"page_start"`
	DailyTargetMinutes   int    `json:"daily_target_minutes"`
	WeeklyTargetMinutes  int    `json:"weekly_target_minutes"`
	MaxConsecutiveHours  int    `json:"max_consecutive_hours"`
	MaxProjectionMinutes int    `json:"max_projection_minutes"`
	MaxDailyMinutes      int    `json:"max_daily_minutes"`
	NoticeRangeMinutes   []int  `json:"notice_range_minutes"`

	Timesheet TimesheetConfig `json:"timesheet"`
}

// TimesheetConfig holds the remote timesheet connection settings.
type TimesheetConfig struct {
	// BaseURL is the timesheet API root. Empty disables `wp sync`.
	BaseURL string `json:"base_url"`
	// TenantID is the Microsoft identity platform tenant used for the device
	// code flow when no explicit endpoints are set.
	TenantID string `json:"tenant_id"`
	// DeviceAuthURL and TokenURL point the device code flow at another
	// OAuth2 provider.
	DeviceAuthURL string `json:"device_auth_url"`
	TokenURL      string `json:"token_url"`
	// ClientID is the OAuth2 client ID for the device code flow.
	ClientID string `json:"client_id"`
	// Scopes requested for the timesheet API.
	Scopes []string `json:"scopes"`
}

const (
	DefaultWeekStart            = "monday"
	DefaultPageStart            = "monday"
	DefaultDailyTargetMinutes   = 528
	DefaultWeeklyTargetMinutes  = 44 * 60
	DefaultMaxConsecutiveHours  = 6
	DefaultMaxProjectionMinutes = 528
	DefaultMaxDailyMinutes      = 600
	DefaultTenantID = timesheet.DefaultTenantID
)

// DefaultNoticeRangeMinutes are the minutes-before-goal at which notices fire.
var DefaultNoticeRangeMinutes = []int{15, 5}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		WeekStart:            DefaultWeekStart,
		PageStart:            DefaultPageStart,
		DailyTargetMinutes:   DefaultDailyTargetMinutes,
		WeeklyTargetMinutes:  DefaultWeeklyTargetMinutes,
		MaxConsecutiveHours:  DefaultMaxConsecutiveHours,
		MaxProjectionMinutes: DefaultMaxProjectionMinutes,
		MaxDailyMinutes:      DefaultMaxDailyMinutes,
		NoticeRangeMinutes:   DefaultNoticeRangeMinutes,
		Timesheet: TimesheetConfig{
			TenantID: DefaultTenantID,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// wp configuration – ~/.wp/config.json
//
// All settings are optional; missing values fall back to the defaults below.
{
  // Weekday your working week starts on (sunday … saturday).
  "week_start": "monday",

  // Weekday the timesheet's seven-day page starts on. When it differs from
  // week_start, the previous week spans two pages.
  "page_start": "monday",

  // Daily and weekly targets in minutes (8h48 a day, 44h a week).
  "daily_target_minutes": 528,
  "weekly_target_minutes": 2640,

  // An open shift older than this is treated as a forgotten punch.
  "max_consecutive_hours": 6,

  // No time to leave is projected when more than this is still pending.
  "max_projection_minutes": 528,

  // Legal daily maximum, used for notices.
  "max_daily_minutes": 600,

  // Minutes before a goal at which a notice is shown.
  "notice_range_minutes": [15, 5],

  // ── Remote timesheet sync ────────────────────────────────────────────────
  "timesheet": {
    // API root, e.g. "https://timesheet.example.com/api". Empty disables sync.
    "base_url": "",
    "tenant_id": "common",
    // OAuth2 endpoints; empty means the Microsoft endpoints of tenant_id.
    "device_auth_url": "",
    "token_url": "",
    "client_id": "",
    "scopes": []
  }
}
`

// configFilePath returns the path to ~/.wp/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wp", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.wp/config.json, creating it with annotated defaults on first
// run.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, creating it with annotated defaults when
// it does not exist. Lines starting with // are treated as comments and
// stripped before JSON parsing.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig()
	if cfg.WeekStart == "" {
		cfg.WeekStart = def.WeekStart
	}
	if cfg.PageStart == "" {
		cfg.PageStart = def.PageStart
	}
	if cfg.DailyTargetMinutes <= 0 {
		cfg.DailyTargetMinutes = def.DailyTargetMinutes
	}
	if cfg.WeeklyTargetMinutes <= 0 {
		cfg.WeeklyTargetMinutes = def.WeeklyTargetMinutes
	}
	if cfg.MaxConsecutiveHours <= 0 {
		cfg.MaxConsecutiveHours = def.MaxConsecutiveHours
	}
	if cfg.MaxProjectionMinutes <= 0 {
		cfg.MaxProjectionMinutes = def.MaxProjectionMinutes
	}
	if cfg.MaxDailyMinutes <= 0 {
		cfg.MaxDailyMinutes = def.MaxDailyMinutes
	}
	if len(cfg.NoticeRangeMinutes) == 0 {
		cfg.NoticeRangeMinutes = def.NoticeRangeMinutes
	}
	if cfg.Timesheet.TenantID == "" {
		cfg.Timesheet.TenantID = def.Timesheet.TenantID
	}

	if _, err := cfg.Settings(); err != nil {
		return defaultConfig(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Settings converts the config into engine settings.
func (c Config) Settings() (engine.Settings, error) {
	weekStart, err := timecalc.ParseWeekday(c.WeekStart)
	if err != nil {
		return engine.Settings{}, fmt.Errorf("week_start: %w", err)
	}
	return engine.Settings{
		WeekStart:      weekStart,
		DailyTarget:    timecalc.MinutesToDuration(c.DailyTargetMinutes),
		WeeklyTarget:   timecalc.MinutesToDuration(c.WeeklyTargetMinutes),
		MaxConsecutive: timecalc.HoursToDuration(c.MaxConsecutiveHours),
		MaxProjection:  timecalc.MinutesToDuration(c.MaxProjectionMinutes),
	}, nil
}

// PageStartWeekday returns the weekday the timesheet page starts on.
func (c Config) PageStartWeekday() (time.Weekday, error) {
	d, err := timecalc.ParseWeekday(c.PageStart)
	if err != nil {
		return time.Sunday, fmt.Errorf("page_start: %w", err)
	}
	return d, nil
}

// Goals returns the thresholds notices are checked against.
func (c Config) Goals() notice.Goals {
	return notice.Goals{
		Weekly:         timecalc.MinutesToDuration(c.WeeklyTargetMinutes),
		Daily:          timecalc.MinutesToDuration(c.DailyTargetMinutes),
		MaxDaily:       timecalc.MinutesToDuration(c.MaxDailyMinutes),
		MaxConsecutive: timecalc.HoursToDuration(c.MaxConsecutiveHours),
		RangeMinutes:   c.NoticeRangeMinutes,
	}
}

// TimesheetAuth returns the OAuth2 settings of the timesheet sync.
func (c Config) TimesheetAuth() timesheet.AuthConfig {
	return timesheet.AuthConfig{
		TenantID:      c.Timesheet.TenantID,
		DeviceAuthURL: c.Timesheet.DeviceAuthURL,
		TokenURL:      c.Timesheet.TokenURL,
		ClientID:      c.Timesheet.ClientID,
		Scopes:        c.Timesheet.Scopes,
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
