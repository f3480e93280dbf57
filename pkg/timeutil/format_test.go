package timeutil

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-03-01T10:00:00.000-06:00")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	want := time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseTimestampRejectsMissingOffset(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2024-03-01 10:00:00", "2024-03-01T10:00:00"} {
		if _, err := ParseTimestamp(s); err == nil {
			t.Errorf("ParseTimestamp(%q) succeeded, want error", s)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want string
	}{
		{now, "now"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-time.Hour), "1 hour ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-50 * time.Hour), "2 days ago"},
		{now.Add(2 * time.Hour), "2 hours from now"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.then, now); got != tt.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", now.Sub(tt.then), got, tt.want)
		}
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := Fixed(at)
	if !clock().Equal(at) {
		t.Errorf("Fixed clock drifted: %v", clock())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{450, "450ms"},
		{1200, "1.2s"},
		{135300, "2m 15.3s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
