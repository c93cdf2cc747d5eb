package model

import "time"

// WindowPreset names a relative time window the dashboard offers.
type WindowPreset string

const (
	// WindowDay covers the last 24 hours.
	WindowDay WindowPreset = "24h"
	// WindowWeek covers the last 7 days.
	WindowWeek WindowPreset = "7d"
	// WindowMonth covers the last 30 days.
	WindowMonth WindowPreset = "30d"
)

// TimeWindow is a concrete start/end pair. Presets are re-anchored to "now"
// every time they are applied, never frozen at first selection.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// WindowFromPreset resolves a preset relative to now. Unknown presets fall
// back to the 7 day window.
func WindowFromPreset(preset WindowPreset, now time.Time) TimeWindow {
	var span time.Duration
	switch preset {
	case WindowDay:
		span = 24 * time.Hour
	case WindowWeek:
		span = 7 * 24 * time.Hour
	case WindowMonth:
		span = 30 * 24 * time.Hour
	default:
		span = 7 * 24 * time.Hour
	}
	return TimeWindow{Start: now.Add(-span), End: now}
}

// Days converts the window into the whole-day count the changes endpoint
// expects, rounding partial days up.
func (w TimeWindow) Days() int {
	span := w.End.Sub(w.Start)
	if span <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	days := int(span / day)
	if span%day != 0 {
		days++
	}
	return days
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
