package datetime

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used for the top bar label. Output is upper-cased.
const (
	DateLayout  = "02 Jan 2006"
	TimeLayout  = "03:04 PM"
	LabelLayout = DateLayout + ", " + TimeLayout
)

// Date is a calendar date without a time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Clock is a wall-clock time without a date or zone.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ClockOf returns the wall-clock time of t in t's location.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return Clock{Hour: h, Minute: m, Second: s}
}

// Compose combines a date and a clock in loc.
func Compose(d Date, c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, c.Second, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Validate reports whether d is a real calendar date.
func (d Date) Validate() error {
	if d.Year < 1 || d.Year > 9999 {
		return &ValidationError{Field: "year", Value: d.Year, Reason: "must be between 1 and 9999"}
	}
	if d.Month < time.January || d.Month > time.December {
		return &ValidationError{Field: "month", Value: int(d.Month), Reason: "must be between 1 and 12"}
	}
	if n := DaysIn(d.Year, d.Month); d.Day < 1 || d.Day > n {
		return &ValidationError{Field: "day", Value: d.Day, Reason: fmt.Sprintf("must be between 1 and %d", n)}
	}
	return nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func validateClock(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return &ValidationError{Field: "hour", Value: hour, Reason: "must be between 0 and 23"}
	}
	if minute < 0 || minute > 59 {
		return &ValidationError{Field: "minute", Value: minute, Reason: "must be between 0 and 59"}
	}
	return nil
}

// FormatDate renders d as e.g. "05 JUN 2024".
func FormatDate(d Date) string {
	return strings.ToUpper(Compose(d, Clock{}, time.UTC).Format(DateLayout))
}

// FormatClock renders c as e.g. "09:41 AM".
func FormatClock(c Clock) string {
	return strings.ToUpper(Compose(Date{Year: 2000, Month: time.January, Day: 1}, c, time.UTC).Format(TimeLayout))
}

// FormatLabel renders t in loc as e.g. "05 JUN 2024, 09:41 AM".
func FormatLabel(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return strings.ToUpper(t.Format(LabelLayout))
}

// ParseLabel parses a label produced by FormatLabel back into a time in loc.
// Month names and the AM/PM marker are matched case-insensitively.
func ParseLabel(label string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(LabelLayout, strings.TrimSpace(label), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse label %q: %w", label, err)
	}
	return t, nil
}
