package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"moodlog/internal/fsutil"

	"github.com/google/uuid"
)

// DiariesFile is the name of the entries file inside the data directory.
const DiariesFile = "diaries.json"

// ErrNotFound is returned when an entry ID does not exist.
var ErrNotFound = errors.New("diary not found")

// ErrEmptyFields is returned when a diary is saved without a title or description.
var ErrEmptyFields = errors.New("fields can not be empty")

// SaveContext describes a save for semantic commit messages such as
// "Add diary: Trip to the lake".
type SaveContext struct {
	Filename  string // e.g. "diaries.json"
	Operation string // "add", "update", "delete", "restore"
	ItemType  string // "diary"
	ItemName  string // truncated title
}

// Storage handles all file I/O for journal entries.
type Storage struct {
	dataDir           string
	onSaveWithContext func(ctx SaveContext)
	now               func() time.Time // injectable clock for deterministic tests
}

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	maxTitleLen       = 120
	maxDescriptionLen = 20000
	maxImages         = 32
)

// New creates a Storage rooted at dataDir, creating it if needed.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, now: time.Now}

	if !fileExists(s.path(DiariesFile)) {
		if err := s.SaveDiaries(&DiaryStore{Diaries: []Diary{}}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// SetOnSaveWithContext registers a callback run after each successful write.
func (s *Storage) SetOnSaveWithContext(fn func(ctx SaveContext)) {
	s.onSaveWithContext = fn
}

// GetDataDir returns the path to the data directory.
func (s *Storage) GetDataDir() string {
	return s.dataDir
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (s *Storage) notify(op string, d Diary) {
	if s.onSaveWithContext == nil {
		return
	}
	s.onSaveWithContext(SaveContext{
		Filename:  DiariesFile,
		Operation: op,
		ItemType:  "diary",
		ItemName:  truncateForCommit(d.Title, 50),
	})
}

// truncateForCommit truncates a string for use in commit messages.
func truncateForCommit(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	} else {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
	}
}

// recoverCorruptJSON loads the .bak copy if it parses, otherwise resets the
// file. The broken file is kept next to it with a .corrupt suffix.
func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.Now().Format("20060102-150405"))

	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), filename)
		}
	}

	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

// ============================================================================
// Diaries
// ============================================================================

// LoadDiaries reads all entries from disk. On a recovered parse error the
// returned store is usable and err describes what happened.
func (s *Storage) LoadDiaries() (*DiaryStore, error) {
	store := DiaryStore{Diaries: []Diary{}}
	err := s.loadJSONWithRecovery(DiariesFile, &store)
	return &store, err
}

// SaveDiaries writes all entries to disk.
func (s *Storage) SaveDiaries(store *DiaryStore) error {
	return s.writeJSONAtomic(DiariesFile, store)
}

// GetDiary returns the entry with the given ID.
func (s *Storage) GetDiary(id string) (*Diary, error) {
	store, err := s.LoadDiaries()
	if err != nil {
		return nil, err
	}
	for _, d := range store.Diaries {
		if d.ID == id {
			found := d
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// normalize trims and validates user-editable fields in place.
func normalize(d *Diary) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)

	if d.Title == "" || d.Description == "" {
		return ErrEmptyFields
	}
	if len([]rune(d.Title)) > maxTitleLen {
		return fmt.Errorf("title too long (max %d)", maxTitleLen)
	}
	if len([]rune(d.Description)) > maxDescriptionLen {
		return fmt.Errorf("description too long (max %d)", maxDescriptionLen)
	}
	if d.Mood == "" {
		d.Mood = MoodNeutral
	}
	if !d.Mood.Valid() {
		return fmt.Errorf("invalid mood: %q", d.Mood)
	}
	if len(d.Images) > maxImages {
		return fmt.Errorf("too many images (max %d)", maxImages)
	}
	return nil
}

// AddDiary stores a new entry. A zero Date defaults to now.
func (s *Storage) AddDiary(d Diary) (*Diary, error) {
	if err := normalize(&d); err != nil {
		return nil, err
	}

	store, err := s.LoadDiaries()
	if err != nil {
		return nil, err
	}

	now := s.Now()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = time.Time{}
	if d.Date.IsZero() {
		d.Date = now
	}

	store.Diaries = append(store.Diaries, d)
	if err := s.SaveDiaries(store); err != nil {
		return nil, err
	}

	s.notify("add", d)
	return &d, nil
}

// UpdateDiary replaces the editable fields of an existing entry. CreatedAt is
// preserved; a zero Date keeps the stored one.
func (s *Storage) UpdateDiary(d Diary) (*Diary, error) {
	if strings.TrimSpace(d.ID) == "" {
		return nil, fmt.Errorf("diary id is required")
	}
	if err := normalize(&d); err != nil {
		return nil, err
	}

	store, err := s.LoadDiaries()
	if err != nil {
		return nil, err
	}

	for i := range store.Diaries {
		if store.Diaries[i].ID != d.ID {
			continue
		}
		existing := store.Diaries[i]
		d.CreatedAt = existing.CreatedAt
		if d.Date.IsZero() {
			d.Date = existing.Date
		}
		d.UpdatedAt = s.Now()
		store.Diaries[i] = d

		if err := s.SaveDiaries(store); err != nil {
			return nil, err
		}
		s.notify("update", d)
		return &d, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, d.ID)
}

// UpsertDiary adds d when it has no ID and updates it otherwise.
func (s *Storage) UpsertDiary(d Diary) (*Diary, error) {
	if d.ID == "" {
		return s.AddDiary(d)
	}
	return s.UpdateDiary(d)
}

// RestoreDiary puts back a previously deleted entry, keeping its ID and
// timestamps. Used by undo.
func (s *Storage) RestoreDiary(d Diary) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("diary id is required")
	}
	if err := normalize(&d); err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.Now()
	}
	if d.Date.IsZero() {
		d.Date = d.CreatedAt
	}

	store, err := s.LoadDiaries()
	if err != nil {
		return err
	}
	for _, existing := range store.Diaries {
		if existing.ID == d.ID {
			return fmt.Errorf("diary already exists: %s", d.ID)
		}
	}

	store.Diaries = append(store.Diaries, d)
	if err := s.SaveDiaries(store); err != nil {
		return err
	}
	s.notify("restore", d)
	return nil
}

// DeleteDiary removes an entry and returns it so callers can offer undo.
func (s *Storage) DeleteDiary(id string) (*Diary, error) {
	store, err := s.LoadDiaries()
	if err != nil {
		return nil, err
	}

	for i, d := range store.Diaries {
		if d.ID != id {
			continue
		}
		store.Diaries = append(store.Diaries[:i], store.Diaries[i+1:]...)
		if err := s.SaveDiaries(store); err != nil {
			return nil, err
		}
		s.notify("delete", d)
		return &d, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SortDiaries returns entries newest first by Date, then by CreatedAt.
func SortDiaries(diaries []Diary) []Diary {
	sorted := make([]Diary, len(diaries))
	copy(sorted, diaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// GroupByDay groups entries by their local calendar day, newest day first.
func GroupByDay(diaries []Diary, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.Local
	}
	var groups []DayGroup
	for _, d := range SortDiaries(diaries) {
		t := d.Date.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Diaries = append(groups[n-1].Diaries, d)
			continue
		}
		groups = append(groups, DayGroup{Day: day, Diaries: []Diary{d}})
	}
	return groups
}

// DiariesBetween returns entries with start <= Date < end, newest first.
func (s *Storage) DiariesBetween(start, end time.Time) ([]Diary, error) {
	store, err := s.LoadDiaries()
	if err != nil {
		return nil, err
	}
	var out []Diary
	for _, d := range store.Diaries {
		if !d.Date.Before(start) && d.Date.Before(end) {
			out = append(out, d)
		}
	}
	return SortDiaries(out), nil
}
