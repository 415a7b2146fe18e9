package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"moodlog/internal/storage"
)

// JrnlImporter handles the JSON written by "jrnl --export json".
type JrnlImporter struct {
	// Location interprets jrnl's zone-less dates. Defaults to time.Local.
	Location *time.Location
}

type jrnlExport struct {
	Entries []jrnlEntry `json:"entries"`
}

type jrnlEntry struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Date    string   `json:"date"` // 2006-01-02
	Time    string   `json:"time"` // 15:04
	Tags    []string `json:"tags"`
	Starred bool     `json:"starred"`
}

// Name returns the importer name.
func (j *JrnlImporter) Name() string {
	return "jrnl"
}

// Import reads jrnl entries and adds them to storage.
func (j *JrnlImporter) Import(reader io.Reader, store *storage.Storage) (*ImportResult, error) {
	entries, err := j.Preview(reader)
	if err != nil {
		return nil, err
	}
	return importAll(entries, store)
}

// Preview converts jrnl entries without importing them. A tag naming a mood
// (e.g. @happy) sets the entry's mood.
func (j *JrnlImporter) Preview(reader io.Reader) ([]storage.Diary, error) {
	var export jrnlExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, fmt.Errorf("failed to parse jrnl JSON: %w", err)
	}

	loc := j.Location
	if loc == nil {
		loc = time.Local
	}

	entries := make([]storage.Diary, 0, len(export.Entries))
	for i, e := range export.Entries {
		date, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid date %q %q", i+1, e.Date, e.Time)
		}
		d := storage.Diary{
			Mood:        jrnlMood(e.Tags),
			Title:       strings.TrimSpace(e.Title),
			Description: strings.TrimSpace(e.Body),
			Date:        date,
		}
		// jrnl allows title-only entries.
		if d.Description == "" {
			d.Description = d.Title
		}
		entries = append(entries, d)
	}
	return entries, nil
}

func jrnlMood(tags []string) storage.Mood {
	for _, tag := range tags {
		m := storage.Mood(strings.ToLower(strings.TrimLeft(tag, "@#")))
		if m.Valid() {
			return m
		}
	}
	return storage.MoodNeutral
}
