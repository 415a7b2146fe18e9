// Package export builds day, week and whole-journal reports for the
// export subcommand. Reports render as Markdown or JSON.
package export

import (
	"time"

	"moodlog/internal/storage"
)

// Period is the span a report covers.
type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
	PeriodAll  Period = "all"
)

// ParsePeriod accepts the long names plus d, w and a.
func ParsePeriod(s string) (Period, bool) {
	switch s {
	case "day", "daily", "d", "":
		return PeriodDay, true
	case "week", "weekly", "w":
		return PeriodWeek, true
	case "all", "a":
		return PeriodAll, true
	}
	return "", false
}

// Report is the aggregated view of the entries in a period.
type Report struct {
	Period      Period      `json:"period"`
	Start       *time.Time  `json:"start,omitempty"`
	End         *time.Time  `json:"end,omitempty"`
	Total       int         `json:"total"`
	Moods       []MoodCount `json:"moods"`
	Days        []DayReport `json:"days"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// MoodCount is how often a mood was logged in the period.
type MoodCount struct {
	Mood  storage.Mood `json:"mood"`
	Count int          `json:"count"`
}

// DayReport holds one calendar day's entries, newest first.
type DayReport struct {
	Date    time.Time       `json:"date"`
	Entries []storage.Diary `json:"entries"`
}
