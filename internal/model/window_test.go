package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowFromPreset(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		preset   WindowPreset
		wantDays int
	}{
		{name: "24h", preset: WindowDay, wantDays: 1},
		{name: "7d", preset: WindowWeek, wantDays: 7},
		{name: "30d", preset: WindowMonth, wantDays: 30},
		{name: "unknown falls back to week", preset: WindowPreset("1y"), wantDays: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowFromPreset(tt.preset, now)
			assert.Equal(t, now, w.End)
			assert.Equal(t, tt.wantDays, w.Days())
		})
	}
}

func TestTimeWindow_DaysRoundsUp(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	w := TimeWindow{Start: now.Add(-36 * time.Hour), End: now}
	assert.Equal(t, 2, w.Days())

	w = TimeWindow{Start: now.Add(-24 * time.Hour), End: now}
	assert.Equal(t, 1, w.Days())

	w = TimeWindow{Start: now, End: now}
	assert.Equal(t, 0, w.Days())

	w = TimeWindow{Start: now.Add(time.Hour), End: now} // inverted
	assert.Equal(t, 0, w.Days())
}

func TestTimeWindow_Contains(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: now.Add(-24 * time.Hour), End: now}

	assert.True(t, w.Contains(now))
	assert.True(t, w.Contains(now.Add(-24*time.Hour)))
	assert.True(t, w.Contains(now.Add(-time.Hour)))
	assert.False(t, w.Contains(now.Add(time.Second)))
	assert.False(t, w.Contains(now.Add(-25*time.Hour)))
}

func TestActiveCodes(t *testing.T) {
	retailers := []Retailer{
		{Code: "HP", Active: true},
		{Code: "TWD", Active: false},
		{Code: "GH", Active: true},
	}

	assert.Equal(t, []string{"HP", "GH"}, ActiveCodes(retailers))
	assert.Empty(t, ActiveCodes(nil))
}
