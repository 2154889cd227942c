package domain

import "time"

// DateRules evaluates calendar conditions used by date-bound promotions.
// Only the calendar day of the given time matters, read in the time's own
// location; callers convert to the store's location first.
type DateRules struct{}

// NewDateRules creates a DateRules evaluator.
func NewDateRules() *DateRules {
	return &DateRules{}
}

// IsLastFridayOfMonth reports whether date is a Friday with no later Friday in its month.
func (r *DateRules) IsLastFridayOfMonth(date time.Time) bool {
	if date.Weekday() != time.Friday {
		return false
	}
	year, month, day := date.Date()
	return LastFridayOfMonth(year, month).Day() == day
}

// LastFridayOfMonth returns the last Friday on or before the last day of the month,
// as midnight UTC.
func LastFridayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	back := (int(lastDay.Weekday()) - int(time.Friday) + 7) % 7
	return lastDay.AddDate(0, 0, -back)
}
