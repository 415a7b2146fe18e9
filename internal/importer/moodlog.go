package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"moodlog/internal/storage"
)

// MoodlogImporter reads moodlog's own JSON: a diaries.json file, the output
// of "moodlog export --format json", or a bare array of entries.
type MoodlogImporter struct{}

type moodlogDocument struct {
	Diaries []storage.Diary `json:"diaries"`
	Days    []struct {
		Entries []storage.Diary `json:"entries"`
	} `json:"days"`
}

// Name returns the importer name.
func (m *MoodlogImporter) Name() string {
	return "moodlog"
}

// Import reads entries and adds the ones not already in storage.
func (m *MoodlogImporter) Import(reader io.Reader, store *storage.Storage) (*ImportResult, error) {
	entries, err := m.Preview(reader)
	if err != nil {
		return nil, err
	}
	return importAll(entries, store)
}

// Preview returns the entries that would be imported.
func (m *MoodlogImporter) Preview(reader io.Reader) ([]storage.Diary, error) {
	br := bufio.NewReader(reader)
	prefix, first, err := readFirstNonSpaceByte(br)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	dec := json.NewDecoder(io.MultiReader(bytes.NewReader(prefix), br))
	switch first {
	case '[':
		var entries []storage.Diary
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to parse entry array: %w", err)
		}
		return entries, nil
	case '{':
		var doc moodlogDocument
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse moodlog JSON: %w", err)
		}
		entries := doc.Diaries
		for _, day := range doc.Days {
			entries = append(entries, day.Entries...)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("not a moodlog JSON file: starts with %q", first)
	}
}
