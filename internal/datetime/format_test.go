package datetime

import (
	"testing"
	"time"
)

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 6, 5, 9, 41, 0, 0, time.UTC), "05 JUN 2024, 09:41 AM"},
		{time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), "02 JAN 2024, 10:00 AM"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "31 DEC 2024, 12:00 AM"},
		{time.Date(2024, 9, 15, 12, 30, 0, 0, time.UTC), "15 SEP 2024, 12:30 PM"},
		{time.Date(2024, 9, 15, 23, 59, 59, 0, time.UTC), "15 SEP 2024, 11:59 PM"},
	}
	for _, tt := range tests {
		if got := FormatLabel(tt.in, time.UTC); got != tt.want {
			t.Errorf("FormatLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateAndClock(t *testing.T) {
	if got := FormatDate(Date{2024, time.June, 5}); got != "05 JUN 2024" {
		t.Errorf("FormatDate() = %q", got)
	}
	if got := FormatClock(Clock{Hour: 21, Minute: 7}); got != "09:07 PM" {
		t.Errorf("FormatClock() = %q", got)
	}
}

func TestParseLabel_RoundTrip(t *testing.T) {
	zones := []*time.Location{time.UTC, time.FixedZone("EST", -5*60*60), time.FixedZone("IST", 5*60*60+30*60)}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, loc := range zones {
		for i := 0; i < 400; i++ {
			ts := start.Add(time.Duration(i) * 21 * time.Hour).Add(time.Duration(i*7) * time.Minute)
			label := FormatLabel(ts, loc)

			parsed, err := ParseLabel(label, loc)
			if err != nil {
				t.Fatalf("ParseLabel(%q) error = %v", label, err)
			}
			if again := FormatLabel(parsed, loc); again != label {
				t.Fatalf("round trip %q -> %q", label, again)
			}
		}
	}
}

func TestParseLabel_Invalid(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "05 JUN 2024", "32 JAN 2024, 10:00 AM", "05 JUN 2024, 13:00 PM"} {
		if _, err := ParseLabel(in, time.UTC); err == nil {
			t.Errorf("ParseLabel(%q) succeeded, want error", in)
		}
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
