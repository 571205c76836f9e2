package core

import "time"

// DayKey returns a stable ISO calendar-day key (YYYY-MM-DD) for t in its
// own location. All day bucketing uses this key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTransactionDate renders a transaction timestamp relative to now:
// "Today 14:05" for the current calendar day, "Yesterday" for the previous
// one, "Feb 3" otherwise. A zero timestamp (store has not committed it
// yet) renders empty.
func FormatTransactionDate(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return ""
	}
	createdAt = createdAt.In(now.Location())
	switch DayKey(createdAt) {
	case DayKey(now):
		return "Today " + createdAt.Format("15:04")
	case DayKey(now.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return createdAt.Format("Jan 2")
}

// dayLetter returns the Monday-first single-letter weekday label for t.
func dayLetter(t time.Time) string {
	letters := [7]string{"M", "T", "W", "T", "F", "S", "S"}
	return letters[(int(t.Weekday())+6)%7]
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
