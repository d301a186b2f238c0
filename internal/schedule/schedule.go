// Package schedule maps wall-clock time onto the NFL season calendar and the
// weekly window in which freshly scored rankings are worth posting.
package schedule

import "time"

// Week start dates for the 2025 NFL season (first game September 4th, 2025).
// A date belongs to the most recent week whose start it is on or after.
var weekStarts = []struct {
	date time.Time
	week int
}{
	{time.Date(2025, time.September, 4, 0, 0, 0, 0, time.UTC), 1},
	{time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC), 2},
	{time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC), 3},
	{time.Date(2025, time.September, 22, 0, 0, 0, 0, time.UTC), 4},
	{time.Date(2025, time.September, 29, 0, 0, 0, 0, time.UTC), 5},
	{time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC), 6},
	{time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC), 7},
	{time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC), 8},
	{time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC), 9},
	{time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), 10},
	{time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC), 11},
	{time.Date(2025, time.November, 17, 0, 0, 0, 0, time.UTC), 12},
	{time.Date(2025, time.November, 24, 0, 0, 0, 0, time.UTC), 13},
	{time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), 14},
	{time.Date(2025, time.December, 8, 0, 0, 0, 0, time.UTC), 15},
	{time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC), 16},
	{time.Date(2025, time.December, 22, 0, 0, 0, 0, time.UTC), 17},
	{time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), 18},
}

// CurrentWeek returns the NFL week number the given time falls in, or 0
// before the season starts. Times after the final week start map to week 18.
func CurrentWeek(now time.Time) int {
	week := 0
	for _, start := range weekStarts {
		if now.Before(start.date) {
			break
		}
		week = start.week
	}
	return week
}

// CompletedWeeks returns the number of fully completed weeks at the given
// time: the current in-progress week never counts.
func CompletedWeeks(now time.Time) int {
	if week := CurrentWeek(now); week > 0 {
		return week - 1
	}
	return 0
}

// PostingWindow reports whether the given time falls in the weekly window
// where the previous week's scores are final and rankings are worth posting:
// Tuesday 04:00 through Friday 19:00 US Eastern. It also returns the Eastern
// day name for display.
func PostingWindow(now time.Time) (bool, string) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Zone data should always be available; fall back to UTC if not.
		eastern = time.UTC
	}

	local := now.In(eastern)
	day := local.Weekday()
	hour := local.Hour()

	open := false
	switch day {
	case time.Tuesday:
		open = hour >= 4
	case time.Wednesday, time.Thursday:
		open = true
	case time.Friday:
		open = hour < 19
	}

	return open, day.String()
}
