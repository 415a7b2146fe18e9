package ui

import (
	"strings"
	"testing"
	"time"

	"moodlog/internal/config"
	"moodlog/internal/storage"
)

func newTestHome() *HomeScreen {
	h := NewHomeScreen(createTestStyles(), NewHomeKeyMap(&config.KeysConfig{}), "notty", fixedClock, time.UTC)
	h.SetSize(120, 30, false)
	return h
}

func testDiaries() []storage.Diary {
	return []storage.Diary{
		{ID: "old", Mood: storage.MoodBored, Title: "Rainy walk", Description: "Wet.", Date: time.Date(2025, 11, 2, 8, 0, 0, 0, time.UTC)},
		{ID: "today", Mood: storage.MoodHappy, Title: "Lake day", Description: "Calm **water**.", Date: time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC)},
		{ID: "yday", Mood: storage.MoodCalm, Title: "Tea", Description: "Green.", Date: time.Date(2026, 2, 28, 21, 0, 0, 0, time.UTC)},
	}
}

func TestHomeScreen_OrderAndNavigation(t *testing.T) {
	h := newTestHome()
	h.SetDiaries(testDiaries())

	if h.Len() != 3 {
		t.Fatalf("Len() = %d", h.Len())
	}
	wantOrder := []string{"today", "yday", "old"}
	for i, id := range wantOrder {
		if got := h.Selected(); got == nil || got.ID != id {
			t.Fatalf("step %d: Selected() = %v, want %s", i, got, id)
		}
		h.Update(keyMsg("j"))
	}
	// Down at the end stays put.
	if h.Selected().ID != "old" {
		t.Error("cursor moved past the last entry")
	}
	h.Update(keyMsg("k"))
	if h.Selected().ID != "yday" {
		t.Errorf("Selected() = %s after up, want yday", h.Selected().ID)
	}
}

func TestHomeScreen_SetDiariesKeepsSelection(t *testing.T) {
	h := newTestHome()
	h.SetDiaries(testDiaries())
	h.Select("old")

	ds := testDiaries()
	ds = append(ds, storage.Diary{ID: "new", Title: "New", Description: "x", Date: fixedNow})
	h.SetDiaries(ds)
	if h.Selected().ID != "old" {
		t.Errorf("Selected() = %s, want old", h.Selected().ID)
	}

	// When the selected entry disappears the cursor stays in range.
	h.SetDiaries(testDiaries()[:1])
	if h.Selected() == nil || h.Selected().ID != "old" {
		t.Errorf("Selected() = %v", h.Selected())
	}
	h.SetDiaries(nil)
	if h.Selected() != nil {
		t.Error("Selected() should be nil for an empty journal")
	}
}

func TestHomeScreen_View(t *testing.T) {
	setupTest(t)
	h := newTestHome()
	h.SetDiaries(testDiaries())
	view := h.View()

	for _, want := range []string{"Journal (3)", "Today", "Yesterday", "Sun, 02 Nov 2025", "09:15 AM", "Lake day", "Rainy walk", "water"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Today") > strings.Index(view, "Yesterday") {
		t.Error("newest day should be listed first")
	}
}

func TestHomeScreen_EmptyView(t *testing.T) {
	setupTest(t)
	h := newTestHome()
	h.SetDiaries(nil)
	if view := h.View(); !strings.Contains(view, "No entries yet") || !strings.Contains(view, "Press n") {
		t.Errorf("empty view:\n%s", view)
	}
}

func TestHomeScreen_NarrowStacksPanes(t *testing.T) {
	setupTest(t)
	h := newTestHome()
	h.SetSize(60, 30, true)
	h.SetDiaries(testDiaries())

	view := h.View()
	lines := strings.Split(view, "\n")
	for _, l := range lines {
		if w := len([]rune(l)); w > 60 {
			t.Errorf("line wider than the terminal (%d): %q", w, l)
		}
	}
	if !strings.Contains(view, "Lake day") {
		t.Error("preview missing in narrow layout")
	}
}

func TestDiaryMarkdown(t *testing.T) {
	d := storage.Diary{
		Mood:        storage.MoodHappy,
		Title:       "Lake day",
		Description: "Calm water.",
		Images:      []string{"images/a.png"},
		Date:        time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC),
	}
	md := diaryMarkdown(d, time.UTC)
	for _, want := range []string{"# 😊 Lake day", "*Happy · Sunday, 01 Mar 2026 09:15 AM*", "Calm water.", "- `images/a.png`"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestResolveGlamourStyle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"dark", "dark"},
		{" Light ", "light"},
		{"notty", "notty"},
	}
	for _, tt := range tests {
		if got := resolveGlamourStyle(tt.in); got != tt.want {
			t.Errorf("resolveGlamourStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
