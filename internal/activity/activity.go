// Package activity maps raw per-day completion counts onto bounded
// intensity levels for heatmap-style displays. Stateless; every day
// maps to exactly one bucket and out-of-range days are dropped.
package activity

import "time"

// RecentWindowDays is the size of the rolling recent-activity window.
const RecentWindowDays = 8

// Day is a raw activity count on a calendar day.
type Day struct {
	Date  time.Time
	Count int
}

// Level buckets a raw count into an intensity level 0..4.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 10:
		return 3
	default:
		return 4
	}
}

// RecentWindow builds the 8-day rolling window ending at now, oldest
// first. Days with no recorded count are level 0; entries outside the
// window are ignored.
func RecentWindow(days []Day, now time.Time) []int {
	levels := make([]int, RecentWindowDays)
	start := now.AddDate(0, 0, -(RecentWindowDays - 1))
	for _, d := range days {
		offset := daysBetween(start, d.Date)
		if offset < 0 || offset >= RecentWindowDays {
			continue
		}
		levels[offset] = Level(d.Count)
	}
	return levels
}

// MonthLevels builds one level per day of the given month and year,
// index 0 being the 1st. The slice length follows the real calendar,
// leap years included. Entries whose day number falls outside the month
// are dropped silently.
func MonthLevels(days []Day, year int, month time.Month) []int {
	levels := make([]int, DaysIn(year, month))
	for _, d := range days {
		if d.Date.Year() != year || d.Date.Month() != month {
			continue
		}
		day := d.Date.Day()
		if day < 1 || day > len(levels) {
			continue
		}
		levels[day-1] = Level(d.Count)
	}
	return levels
}

// DaysIn returns the number of days in the month via calendar
// normalization: day 0 of the next month is the last day of this one.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween counts whole calendar days from a to b in a's location.
// Both dates are re-anchored at UTC midnight before subtracting so that
// DST transitions inside the span cannot shift the count.
func daysBetween(a, b time.Time) int {
	bb := b.In(a.Location())
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(bb.Year(), bb.Month(), bb.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
