package utils

import (
	"strings"
	"time"
)

// Layouts accepted for dates written by the various forms, most specific first.
var looseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLooseTime parses a stored timestamp or date. ok is false for anything
// unparsable; callers treat that as the epoch.
func ParseLooseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortKey returns unix millis for a stored date, 0 when unparsable.
func SortKey(s string) int64 {
	t, ok := ParseLooseTime(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

func FormatTimeISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of t's week.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday as 7
	}
	return StartOfDay(t.AddDate(0, 0, -weekday+1))
}

func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// AgeOn returns whole years between dob and now.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
