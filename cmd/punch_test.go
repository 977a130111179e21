package cmd

import (
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{4*3600 + 30*60, "4h 30m"},
		{-30, "0m"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestPunchTime(t *testing.T) {
	now := time.Date(2026, 2, 27, 16, 20, 30, 0, time.UTC)

	got, err := punchTime(now, "")
	if err != nil || !got.Equal(now) {
		t.Errorf("punchTime(now, \"\") = %v, %v, want now", got, err)
	}

	got, err = punchTime(now, "08:15")
	if err != nil {
		t.Fatalf("punchTime: %v", err)
	}
	if want := time.Date(2026, 2, 27, 8, 15, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("punchTime = %v, want %v", got, want)
	}

	if _, err := punchTime(now, "8h15"); err == nil {
		t.Error("punchTime: expected error for malformed --at")
	}
}
