// Package dateutil provides calendar-day arithmetic used by scheduling
// and billing. All helpers normalize to the location of the input time.
package dateutil

import "time"

// DayStart returns midnight at the start of t's calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last instant before the next calendar day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WeekStart returns midnight on the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	return DayStart(t).AddDate(0, 0, -(wd - 1))
}

// WeekEnd returns the last instant of the Sunday of t's week.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InRange reports whether t's day falls within [from, to] inclusive,
// compared at day granularity.
func InRange(t, from, to time.Time) bool {
	d := DayStart(t)
	return !d.Before(DayStart(from)) && !d.After(DayStart(to))
}

// DaysBetween returns the number of calendar days from a to b.
// Negative when b is before a. Counted on UTC midnights so a zone's
// offset changes cannot shorten a day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// At combines a calendar day with a minute-of-day offset.
func At(day time.Time, minuteOfDay int) time.Time {
	return DayStart(day).Add(time.Duration(minuteOfDay) * time.Minute)
}

// MinuteOfDay returns t's offset from midnight in minutes.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
