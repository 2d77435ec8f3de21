// Package timeparse converts between the textual time grammar used on the
// command line and absolute instants or durations.
//
// The grammar is fixed: clock instants are "DD/MM/YYYY HH:MM", durations
// are "H:MM" or "H:MM:SS", and forecast horizons are "<N> D" (N days).
// All parsing is pure; malformed input yields a *FormatError.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatError reports input that does not match the expected time grammar.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: %s", e.Input, e.Reason)
}

func formatErr(input, reason string) error {
	return &FormatError{Input: input, Reason: reason}
}

// ParseClock parses "DD/MM/YYYY HH:MM" into an instant in loc.
func ParseClock(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 {
		return time.Time{}, formatErr(s, "want DD/MM/YYYY HH:MM")
	}

	date := strings.Split(parts[0], "/")
	if len(date) != 3 {
		return time.Time{}, formatErr(s, "date must be DD/MM/YYYY")
	}
	clock := strings.Split(parts[1], ":")
	if len(clock) != 2 {
		return time.Time{}, formatErr(s, "time must be HH:MM")
	}

	day, err := atoiField(date[0])
	if err != nil {
		return time.Time{}, formatErr(s, "day is not a number")
	}
	month, err := atoiField(date[1])
	if err != nil {
		return time.Time{}, formatErr(s, "month is not a number")
	}
	year, err := atoiField(date[2])
	if err != nil {
		return time.Time{}, formatErr(s, "year is not a number")
	}
	hour, err := atoiField(clock[0])
	if err != nil {
		return time.Time{}, formatErr(s, "hour is not a number")
	}
	minute, err := atoiField(clock[1])
	if err != nil {
		return time.Time{}, formatErr(s, "minute is not a number")
	}

	if month < 1 || month > 12 {
		return time.Time{}, formatErr(s, "month out of range")
	}
	if day < 1 || day > 31 {
		return time.Time{}, formatErr(s, "day out of range")
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, formatErr(s, "hour out of range")
	}
	if minute < 0 || minute > 59 {
		return time.Time{}, formatErr(s, "minute out of range")
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), nil
}

// ParseDuration parses "H:MM" or "H:MM:SS" into a duration.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, formatErr(s, "want H:MM or H:MM:SS")
	}

	hours, err := atoiField(parts[0])
	if err != nil {
		return 0, formatErr(s, "hours is not a number")
	}
	minutes, err := atoiField(parts[1])
	if err != nil {
		return 0, formatErr(s, "minutes is not a number")
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, formatErr(s, "component out of range")
	}

	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute

	if len(parts) == 3 {
		seconds, err := atoiField(parts[2])
		if err != nil {
			return 0, formatErr(s, "seconds is not a number")
		}
		if seconds < 0 || seconds > 59 {
			return 0, formatErr(s, "seconds out of range")
		}
		total += time.Duration(seconds) * time.Second
	}

	return total, nil
}

// ParseForecast parses a forecast horizon expression "<N> D" (N days)
// into a duration.
func ParseForecast(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 2 {
		return 0, formatErr(s, "want \"<number> D\"")
	}

	n, err := atoiField(parts[0])
	if err != nil {
		return 0, formatErr(s, "count is not a number")
	}
	if n <= 0 {
		return 0, formatErr(s, "count must be positive")
	}

	switch strings.ToUpper(parts[1]) {
	case "D":
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, formatErr(s, "unknown unit, only D is supported")
	}
}

// StartOfWeek returns Monday 00:00:00 of the week containing t, in t's
// location.
func StartOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -daysSinceMonday)
}

// ShortHumanTime formats an instant as "Monday, January 2".
func ShortHumanTime(t time.Time) string {
	return t.Format("Monday, January 2")
}

// HumanHour formats an instant as "03:04 PM".
func HumanHour(t time.Time) string {
	return t.Format("03:04 PM")
}

// atoiField rejects empty fields and stray signs that strconv.Atoi would
// otherwise accept mid-grammar.
func atoiField(s string) (int, error) {
	if s == "" || s[0] == '+' {
		return 0, fmt.Errorf("bad field")
	}
	return strconv.Atoi(s)
}
