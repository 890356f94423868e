package schedule

import "time"

// WeekStart returns the Monday of the week containing t, time-zeroed in
// t's location.
func WeekStart(t time.Time) time.Time {
	days := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := t.AddDate(0, 0, -days)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// DateOnly strips the time-of-day from t.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
