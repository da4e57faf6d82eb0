package task

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the stored due date form (YYYY-MM-DD).
	DateLayout = "2006-01-02"

	// DisplayLayout is the form users type at the command line (DD-MM-YYYY).
	DisplayLayout = "02-01-2006"

	// NoDate is the text form of a missing due date.
	NoDate = "None"
)

// DateParseError reports a date that does not match the required layout.
type DateParseError struct {
	Value  string
	Layout string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q (want %s)", e.Value, humanLayout(e.Layout))
}

// Unwrap returns the underlying time parse error.
func (e *DateParseError) Unwrap() error {
	return e.Err
}

func humanLayout(layout string) string {
	switch layout {
	case DateLayout:
		return "YYYY-MM-DD"
	case DisplayLayout:
		return "DD-MM-YYYY"
	}
	return layout
}

// ParseDate strictly parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return parse(s, DateLayout)
}

// ParseDisplayDate strictly parses a DD-MM-YYYY date.
func ParseDisplayDate(s string) (time.Time, error) {
	return parse(s, DisplayLayout)
}

func parse(s, layout string) (time.Time, error) {
	d, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, &DateParseError{Value: s, Layout: layout, Err: err}
	}
	return d, nil
}

// Day returns the UTC midnight of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day part of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return Day(t.Year(), t.Month(), t.Day())
}

// FormatDate renders d as YYYY-MM-DD, or "None" for the zero time.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return NoDate
	}
	return d.Format(DateLayout)
}
