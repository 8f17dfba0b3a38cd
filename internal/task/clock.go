package task

import (
	"fmt"
	"time"
)

// MinutesPerDay is the number of minutes in one day.
const MinutesPerDay = 1440

// YMDLayout is the date format used throughout the document.
const YMDLayout = "2006-01-02"

// Minutes converts an hour/minute pair to minutes since midnight.
func Minutes(h, m int) int {
	return h*60 + m
}

// Snap clamps min to [0, 1439] and rounds to the nearest multiple of
// unit. A unit of zero or less falls back to DefaultTimeUnit.
func Snap(min, unit int) int {
	if unit <= 0 {
		unit = DefaultTimeUnit
	}
	if min < 0 {
		min = 0
	}
	if min > MinutesPerDay-1 {
		min = MinutesPerDay - 1
	}
	snapped := ((min + unit/2) / unit) * unit
	// Rounding up from the clamp boundary would leave the day.
	if snapped > MinutesPerDay-1 {
		snapped -= unit
	}
	return snapped
}

// effectiveEnd interprets an end minute numerically less than the start
// as running to midnight, so cross-midnight entries never produce a
// negative duration.
func effectiveEnd(start, end int) int {
	if end >= start {
		return end
	}
	return MinutesPerDay
}

// HasConflict reports whether the intervals of two timed tasks overlap.
// A task missing either its start or its end minute never conflicts:
// open-ended entries must not block placement.
func HasConflict(a, b *Task) bool {
	if a.StartMin == nil || b.StartMin == nil {
		return false
	}
	if a.EndMin == nil || b.EndMin == nil {
		return false
	}
	return overlaps(*a.StartMin, *a.EndMin, *b.StartMin, *b.EndMin)
}

func overlaps(start1, end1, start2, end2 int) bool {
	e1 := effectiveEnd(start1, end1)
	e2 := effectiveEnd(start2, end2)
	return !(e1 <= start2 || start1 >= e2)
}

// MinutesToClock formats minutes since midnight as HH:MM.
func MinutesToClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ClockToMinutes parses an HH:MM string into minutes since midnight.
func ClockToMinutes(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return Minutes(h, m), nil
}

// FormatYMD formats a time as a YYYY-MM-DD date string.
func FormatYMD(t time.Time) string {
	return t.Format(YMDLayout)
}

// ParseYMD parses a YYYY-MM-DD date string.
func ParseYMD(s string) (time.Time, error) {
	t, err := time.Parse(YMDLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
