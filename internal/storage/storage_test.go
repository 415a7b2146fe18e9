package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// createTestStorage creates a Storage instance with a temporary directory.
func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// =============================================================================
// Diary Tests
// =============================================================================

func TestAddDiary(t *testing.T) {
	tests := []struct {
		name  string
		diary Diary
		want  Mood
	}{
		{
			name:  "simple entry",
			diary: Diary{Title: "Lake", Description: "Swam at the lake", Mood: MoodHappy},
			want:  MoodHappy,
		},
		{
			name:  "empty mood defaults to neutral",
			diary: Diary{Title: "Errands", Description: "Groceries and laundry"},
			want:  MoodNeutral,
		},
		{
			name:  "unicode text",
			diary: Diary{Title: "Café ☕", Description: "Long talk, good espresso 🎉", Mood: MoodCalm},
			want:  MoodCalm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			now := time.Date(2024, 6, 5, 9, 41, 0, 0, time.UTC)
			store.SetNowFunc(fixedClock(now))

			d, err := store.AddDiary(tt.diary)
			if err != nil {
				t.Fatalf("AddDiary() error = %v", err)
			}

			if d.ID == "" {
				t.Error("diary.ID is empty")
			}
			if d.Mood != tt.want {
				t.Errorf("diary.Mood = %q, want %q", d.Mood, tt.want)
			}
			if !d.CreatedAt.Equal(now) {
				t.Errorf("diary.CreatedAt = %v, want %v", d.CreatedAt, now)
			}
			if !d.Date.Equal(now) {
				t.Errorf("diary.Date = %v, want %v (zero date defaults to now)", d.Date, now)
			}

			loaded, err := store.LoadDiaries()
			if err != nil {
				t.Fatalf("LoadDiaries() error = %v", err)
			}
			if len(loaded.Diaries) != 1 {
				t.Fatalf("len(diaries) = %d, want 1", len(loaded.Diaries))
			}
			if loaded.Diaries[0].Title != tt.diary.Title {
				t.Errorf("persisted title = %q, want %q", loaded.Diaries[0].Title, tt.diary.Title)
			}
		})
	}
}

func TestAddDiary_KeepsChosenDate(t *testing.T) {
	store := createTestStorage(t)
	chosen := time.Date(2023, 12, 24, 18, 30, 0, 0, time.UTC)

	d, err := store.AddDiary(Diary{Title: "Eve", Description: "Dinner", Date: chosen})
	if err != nil {
		t.Fatalf("AddDiary() error = %v", err)
	}
	if !d.Date.Equal(chosen) {
		t.Errorf("Date = %v, want %v", d.Date, chosen)
	}
}

func TestAddDiary_Validation(t *testing.T) {
	tests := []struct {
		name    string
		diary   Diary
		wantErr error
	}{
		{"empty title", Diary{Description: "body"}, ErrEmptyFields},
		{"empty description", Diary{Title: "title"}, ErrEmptyFields},
		{"whitespace only", Diary{Title: "   ", Description: "\n\t"}, ErrEmptyFields},
		{"title too long", Diary{Title: strings.Repeat("a", maxTitleLen+1), Description: "x"}, nil},
		{"unknown mood", Diary{Title: "a", Description: "b", Mood: "ecstatic"}, nil},
		{"too many images", Diary{Title: "a", Description: "b", Images: make([]string, maxImages+1)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			_, err := store.AddDiary(tt.diary)
			if err == nil {
				t.Fatal("AddDiary() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("AddDiary() error = %v, want %v", err, tt.wantErr)
			}

			loaded, _ := store.LoadDiaries()
			if len(loaded.Diaries) != 0 {
				t.Errorf("invalid diary was persisted")
			}
		})
	}
}

func TestUpdateDiary(t *testing.T) {
	store := createTestStorage(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store.SetNowFunc(fixedClock(created))

	d, err := store.AddDiary(Diary{Title: "Draft", Description: "first pass"})
	if err != nil {
		t.Fatalf("AddDiary() error = %v", err)
	}

	updated := created.Add(2 * time.Hour)
	store.SetNowFunc(fixedClock(updated))

	d.Title = "Final"
	d.Mood = MoodRomantic
	d.Date = time.Time{}
	got, err := store.UpdateDiary(*d)
	if err != nil {
		t.Fatalf("UpdateDiary() error = %v", err)
	}

	if got.Title != "Final" || got.Mood != MoodRomantic {
		t.Errorf("UpdateDiary() = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.Equal(updated) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, updated)
	}
	if !got.Date.Equal(created) {
		t.Errorf("Date = %v, want stored date %v", got.Date, created)
	}

	again, err := store.GetDiary(d.ID)
	if err != nil {
		t.Fatalf("GetDiary() error = %v", err)
	}
	if again.Title != "Final" {
		t.Errorf("persisted title = %q, want Final", again.Title)
	}
}

func TestUpdateDiary_NotFound(t *testing.T) {
	store := createTestStorage(t)
	_, err := store.UpdateDiary(Diary{ID: "missing", Title: "a", Description: "b"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateDiary() error = %v, want ErrNotFound", err)
	}
}

func TestUpsertDiary(t *testing.T) {
	store := createTestStorage(t)

	d, err := store.UpsertDiary(Diary{Title: "New", Description: "entry"})
	if err != nil {
		t.Fatalf("UpsertDiary(add) error = %v", err)
	}
	d.Description = "edited"
	if _, err := store.UpsertDiary(*d); err != nil {
		t.Fatalf("UpsertDiary(update) error = %v", err)
	}

	loaded, _ := store.LoadDiaries()
	if len(loaded.Diaries) != 1 {
		t.Fatalf("len(diaries) = %d, want 1", len(loaded.Diaries))
	}
	if loaded.Diaries[0].Description != "edited" {
		t.Errorf("Description = %q, want edited", loaded.Diaries[0].Description)
	}
}

func TestDeleteAndRestoreDiary(t *testing.T) {
	store := createTestStorage(t)
	d, _ := store.AddDiary(Diary{Title: "Gone", Description: "soon", Mood: MoodLonely})

	deleted, err := store.DeleteDiary(d.ID)
	if err != nil {
		t.Fatalf("DeleteDiary() error = %v", err)
	}
	if deleted.Title != "Gone" {
		t.Errorf("deleted.Title = %q", deleted.Title)
	}
	if _, err := store.GetDiary(d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDiary() after delete error = %v, want ErrNotFound", err)
	}

	if err := store.RestoreDiary(*deleted); err != nil {
		t.Fatalf("RestoreDiary() error = %v", err)
	}
	restored, err := store.GetDiary(d.ID)
	if err != nil {
		t.Fatalf("GetDiary() after restore error = %v", err)
	}
	if !restored.CreatedAt.Equal(d.CreatedAt) {
		t.Errorf("restored CreatedAt = %v, want %v", restored.CreatedAt, d.CreatedAt)
	}

	if err := store.RestoreDiary(*deleted); err == nil {
		t.Error("RestoreDiary() twice should fail")
	}
}

func TestDeleteDiary_NotFound(t *testing.T) {
	store := createTestStorage(t)
	if _, err := store.DeleteDiary("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteDiary() error = %v, want ErrNotFound", err)
	}
}

func TestOnSaveContext(t *testing.T) {
	store := createTestStorage(t)
	var got []SaveContext
	store.SetOnSaveWithContext(func(ctx SaveContext) { got = append(got, ctx) })

	d, _ := store.AddDiary(Diary{Title: strings.Repeat("t", 80), Description: "x"})
	d.Title = "Short"
	_, _ = store.UpdateDiary(*d)
	_, _ = store.DeleteDiary(d.ID)

	ops := []string{"add", "update", "delete"}
	if len(got) != len(ops) {
		t.Fatalf("len(contexts) = %d, want %d", len(got), len(ops))
	}
	for i, op := range ops {
		if got[i].Operation != op {
			t.Errorf("contexts[%d].Operation = %q, want %q", i, got[i].Operation, op)
		}
		if got[i].Filename != DiariesFile || got[i].ItemType != "diary" {
			t.Errorf("contexts[%d] = %+v", i, got[i])
		}
	}
	if n := len([]rune(got[0].ItemName)); n != 50 {
		t.Errorf("truncated ItemName has %d runes, want 50", n)
	}
}

// =============================================================================
// Ordering
// =============================================================================

func TestSortDiaries(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	in := []Diary{
		{ID: "old", Date: base.Add(-48 * time.Hour)},
		{ID: "new", Date: base},
		{ID: "same-date-later", Date: base, CreatedAt: base.Add(time.Minute)},
		{ID: "mid", Date: base.Add(-24 * time.Hour)},
	}

	got := SortDiaries(in)
	want := []string{"same-date-later", "new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("SortDiaries()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if in[0].ID != "old" {
		t.Error("SortDiaries modified its input")
	}
}

func TestGroupByDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := []Diary{
		{ID: "a", Date: time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)}, // 2 May local
		{ID: "b", Date: time.Date(2024, 5, 2, 8, 0, 0, 0, loc)},
		{ID: "c", Date: time.Date(2024, 4, 30, 9, 0, 0, 0, loc)},
	}

	groups := GroupByDay(in, loc)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Day.Day() != 2 || len(groups[0].Diaries) != 2 {
		t.Errorf("groups[0] = %v with %d diaries", groups[0].Day, len(groups[0].Diaries))
	}
	if groups[1].Day.Day() != 30 || len(groups[1].Diaries) != 1 {
		t.Errorf("groups[1] = %v with %d diaries", groups[1].Day, len(groups[1].Diaries))
	}
}

func TestDiariesBetween(t *testing.T) {
	store := createTestStorage(t)
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for i, h := range []int{-1, 0, 12, 24} {
		_, err := store.AddDiary(Diary{
			Title:       "entry",
			Description: string(rune('a' + i)),
			Date:        day.Add(time.Duration(h) * time.Hour),
		})
		if err != nil {
			t.Fatalf("AddDiary() error = %v", err)
		}
	}

	got, err := store.DiariesBetween(day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DiariesBetween() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Description != "c" || got[1].Description != "b" {
		t.Errorf("got order %q, %q; want c, b", got[0].Description, got[1].Description)
	}
}

// =============================================================================
// Recovery and files
// =============================================================================

func TestLoadDiaries_RecoversFromBackup(t *testing.T) {
	store := createTestStorage(t)
	if _, err := store.AddDiary(Diary{Title: "Keep", Description: "me"}); err != nil {
		t.Fatalf("AddDiary() error = %v", err)
	}
	// Second write makes the .bak hold the first entry.
	if _, err := store.AddDiary(Diary{Title: "Second", Description: "entry"}); err != nil {
		t.Fatalf("AddDiary() error = %v", err)
	}

	path := filepath.Join(store.GetDataDir(), DiariesFile)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadDiaries()
	if err == nil || !strings.Contains(err.Error(), "recovered") {
		t.Fatalf("LoadDiaries() error = %v, want recovery notice", err)
	}
	if len(loaded.Diaries) != 1 || loaded.Diaries[0].Title != "Keep" {
		t.Errorf("recovered diaries = %+v", loaded.Diaries)
	}

	matches, _ := filepath.Glob(path + ".corrupt.*")
	if len(matches) != 1 {
		t.Errorf("corrupt copies = %v, want 1", matches)
	}
}

func TestLoadDiaries_EmptyFileResets(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, DiariesFile)
	_ = os.Remove(path + ".bak")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadDiaries()
	if err == nil {
		t.Fatal("LoadDiaries() error = nil, want reset notice")
	}
	if loaded == nil || len(loaded.Diaries) != 0 {
		t.Errorf("loaded = %+v, want empty store", loaded)
	}

	data, _ := os.ReadFile(path)
	var check DiaryStore
	if err := json.Unmarshal(data, &check); err != nil {
		t.Errorf("reset file is not valid JSON: %v", err)
	}
}

func TestStorage_PermissionsArePrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions are not meaningful on Windows")
	}

	dataDir := t.TempDir()
	if _, err := New(dataDir); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p := filepath.Join(dataDir, DiariesFile)
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("Stat(%s) error = %v", p, err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Fatalf("%s permissions = %o, want no group/other bits", p, info.Mode().Perm())
	}
}

func TestMood(t *testing.T) {
	if len(Moods) != 16 {
		t.Errorf("len(Moods) = %d, want 16", len(Moods))
	}
	for i, m := range Moods {
		if !m.Valid() {
			t.Errorf("%q is not valid", m)
		}
		if m.Index() != i {
			t.Errorf("%q.Index() = %d, want %d", m, m.Index(), i)
		}
		if m.Icon() == "" {
			t.Errorf("%q has no icon", m)
		}
	}
	if MoodDisappointed.Name() != "Disappointed" {
		t.Errorf("Name() = %q", MoodDisappointed.Name())
	}
	if Mood("nope").Valid() {
		t.Error("unknown mood reported valid")
	}
}
