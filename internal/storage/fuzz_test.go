package storage

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzAddDiary checks that AddDiary never panics and validates consistently.
func FuzzAddDiary(f *testing.F) {
	f.Add("", "", "")
	f.Add("Valid", "Body", "happy")
	f.Add(strings.Repeat("a", maxTitleLen), "x", "")
	f.Add(strings.Repeat("a", maxTitleLen+1), "x", "")
	f.Add("Title\nwith\nnewlines", "Body", "tense")
	f.Add("Unicode 🎉", "Café ☕ 日本語", "calm")
	f.Add("   padded   ", "  body  ", "neutral")
	f.Add("\x00\x01", "\x02", "")
	f.Add("ok", "ok", "ecstatic")

	f.Fuzz(func(t *testing.T, title, description, mood string) {
		store := createTestStorage(t)

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("AddDiary panicked with title=%q description=%q mood=%q: %v", title, description, mood, r)
			}
		}()

		d, err := store.AddDiary(Diary{Title: title, Description: description, Mood: Mood(mood)})

		trimmedTitle := strings.TrimSpace(title)
		trimmedDesc := strings.TrimSpace(description)
		switch {
		case trimmedTitle == "" || trimmedDesc == "":
			if err == nil {
				t.Error("AddDiary should reject empty fields")
			}
			return
		case utf8.RuneCountInString(trimmedTitle) > maxTitleLen,
			utf8.RuneCountInString(trimmedDesc) > maxDescriptionLen:
			if err == nil {
				t.Error("AddDiary should reject overly long fields")
			}
			return
		case mood != "" && !Mood(mood).Valid():
			if err == nil {
				t.Errorf("AddDiary should reject mood %q", mood)
			}
			return
		}

		if err != nil {
			t.Errorf("AddDiary failed for valid input: %v", err)
			return
		}
		if d.Title != trimmedTitle || d.Description != trimmedDesc {
			t.Errorf("fields not trimmed: %q / %q", d.Title, d.Description)
		}

		loaded, err := store.LoadDiaries()
		if err != nil {
			t.Errorf("LoadDiaries failed: %v", err)
			return
		}
		if len(loaded.Diaries) != 1 || loaded.Diaries[0].ID != d.ID {
			t.Errorf("loaded diaries = %+v", loaded.Diaries)
		}
	})
}

// FuzzDiaryStoreJSON checks that malformed files never panic the loader.
func FuzzDiaryStoreJSON(f *testing.F) {
	f.Add(`{"diaries":[]}`)
	f.Add(`{"diaries":[{"id":"d1","mood":"happy","title":"T","description":"D","date":"2025-01-01T00:00:00Z","created_at":"2025-01-01T00:00:00Z"}]}`)
	f.Add(`{}`)
	f.Add(``)
	f.Add(`{`)
	f.Add(`{"diaries":null}`)
	f.Add(`{"diaries":[null]}`)
	f.Add(`{"diaries":[{"date":"not a time"}]}`)

	f.Fuzz(func(t *testing.T, jsonData string) {
		store := createTestStorage(t)

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("LoadDiaries panicked with JSON: %q, panic: %v", jsonData, r)
			}
		}()

		if err := os.WriteFile(store.path(DiariesFile), []byte(jsonData), dataFilePerm); err != nil {
			t.Skip("cannot write file")
		}

		loaded, err := store.LoadDiaries()
		if loaded == nil {
			t.Fatalf("LoadDiaries returned nil store (err=%v)", err)
		}
	})
}
