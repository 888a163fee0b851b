package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when a time-of-day string is not in the
// "H:MM AM" / "H:MM PM" shape the campaign API accepts.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// ClockTime is a parsed time of day on the 24-hour clock
type ClockTime struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// Window is the absolute interval a campaign may send within
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window (inclusive bounds)
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseClockTime converts a 12-hour time string like "04:15 AM" into a
// 24-hour ClockTime. Conversion rules: 12 AM maps to hour 0, 12 PM stays 12,
// PM hours 1-11 add 12, AM hours 1-11 are unchanged.
func ParseClockTime(text string) (ClockTime, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q, expected \"H:MM AM\" or \"H:MM PM\"", ErrInvalidTimeFormat, text)
	}

	marker := strings.ToUpper(fields[1])
	if marker != "AM" && marker != "PM" {
		return ClockTime{}, fmt.Errorf("%w: %q, expected AM or PM marker", ErrInvalidTimeFormat, text)
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q, expected \"H:MM AM\" or \"H:MM PM\"", ErrInvalidTimeFormat, text)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 1 || hour > 12 {
		return ClockTime{}, fmt.Errorf("%w: invalid hour in %q", ErrInvalidTimeFormat, text)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: invalid minute in %q", ErrInvalidTimeFormat, text)
	}

	if marker == "PM" && hour != 12 {
		hour += 12
	}
	if marker == "AM" && hour == 12 {
		hour = 0
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// BuildWindow combines a calendar date with parsed start/end times of day,
// zeroing seconds and sub-second components. It does not validate that start
// precedes end; an inverted window simply never admits a tick.
func BuildWindow(date time.Time, startText, endText string) (Window, error) {
	start, err := ParseClockTime(startText)
	if err != nil {
		return Window{}, err
	}

	end, err := ParseClockTime(endText)
	if err != nil {
		return Window{}, err
	}

	return Window{
		Start: time.Date(date.Year(), date.Month(), date.Day(), start.Hour, start.Minute, 0, 0, date.Location()),
		End:   time.Date(date.Year(), date.Month(), date.Day(), end.Hour, end.Minute, 0, 0, date.Location()),
	}, nil
}
