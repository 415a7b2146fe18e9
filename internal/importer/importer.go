// Package importer brings entries from other journals, or from another
// moodlog data directory, into the local store.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"moodlog/internal/storage"
)

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Imported int      // entries added to the store
	Skipped  int      // entries whose ID already exists
	Warnings []string // entries imported with changes, e.g. missing images
	Errors   []string // entries that could not be imported
}

// Importer defines the interface for import implementations.
type Importer interface {
	// Import reads entries from the reader and adds them to storage.
	Import(reader io.Reader, store *storage.Storage) (*ImportResult, error)

	// Preview reads entries from the reader without importing.
	Preview(reader io.Reader) ([]storage.Diary, error)

	// Name returns the importer name (e.g., "moodlog", "jrnl").
	Name() string
}

// GetImporter returns the appropriate importer for the given format.
func GetImporter(format string) Importer {
	switch format {
	case "moodlog", "json":
		return &MoodlogImporter{}
	case "jrnl":
		return &JrnlImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"moodlog", "jrnl"}
}

// importAll stores parsed entries. Entries that carry an ID keep it along
// with their timestamps; an ID already in the store is a duplicate.
func importAll(entries []storage.Diary, store *storage.Storage) (*ImportResult, error) {
	existing, err := store.LoadDiaries()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing.Diaries))
	for _, d := range existing.Diaries {
		seen[d.ID] = true
	}

	result := &ImportResult{}
	for _, d := range entries {
		if d.ID != "" && seen[d.ID] {
			result.Skipped++
			continue
		}

		if missing := dropMissingImages(&d, store.GetDataDir()); missing > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %d image(s) not found in the data directory", d.Title, missing))
		}

		if d.ID == "" {
			_, err = store.AddDiary(d)
		} else {
			err = store.RestoreDiary(d)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", label(d), err))
			continue
		}
		if d.ID != "" {
			seen[d.ID] = true
		}
		result.Imported++
	}
	return result, nil
}

// dropMissingImages keeps only image paths that exist under dataDir.
func dropMissingImages(d *storage.Diary, dataDir string) int {
	kept := d.Images[:0:0]
	for _, rel := range d.Images {
		if filepath.IsAbs(rel) {
			continue
		}
		if _, err := os.Stat(filepath.Join(dataDir, filepath.FromSlash(rel))); err == nil {
			kept = append(kept, rel)
		}
	}
	missing := len(d.Images) - len(kept)
	d.Images = kept
	return missing
}

func label(d storage.Diary) string {
	if d.Title != "" {
		return d.Title
	}
	if !d.Date.IsZero() {
		return d.Date.Format("2006-01-02 15:04")
	}
	return "(untitled)"
}

func readFirstNonSpaceByte(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		if !isSpaceByte(b) {
			return prefix, b, nil
		}
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
