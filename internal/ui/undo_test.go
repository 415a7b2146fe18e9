package ui

import (
	"errors"
	"testing"

	"moodlog/internal/storage"
)

func counterAction(state *int) *UndoableAction {
	return &UndoableAction{
		Description: "Increment",
		Undo:        func() error { *state--; return nil },
		Redo:        func() error { *state++; return nil },
	}
}

func TestUndoManager_UndoRedo(t *testing.T) {
	manager := NewUndoManager()
	state := 1
	manager.Push(counterAction(&state))

	desc, err := manager.Undo()
	if err != nil || desc != "Increment" || state != 0 {
		t.Fatalf("Undo() = %q, %v; state = %d", desc, err, state)
	}
	if manager.CanUndo() || !manager.CanRedo() {
		t.Error("after undo: want CanUndo=false, CanRedo=true")
	}

	desc, err = manager.Redo()
	if err != nil || desc != "Increment" || state != 1 {
		t.Fatalf("Redo() = %q, %v; state = %d", desc, err, state)
	}
	if !manager.CanUndo() || manager.CanRedo() {
		t.Error("after redo: want CanUndo=true, CanRedo=false")
	}
}

func TestUndoManager_Empty(t *testing.T) {
	manager := NewUndoManager()
	if desc, err := manager.Undo(); desc != "" || err != nil {
		t.Errorf("Undo() on empty = %q, %v", desc, err)
	}
	if desc, err := manager.Redo(); desc != "" || err != nil {
		t.Errorf("Redo() on empty = %q, %v", desc, err)
	}
}

func TestUndoManager_MaxHistory(t *testing.T) {
	manager := NewUndoManager()
	state := 0
	for i := 0; i < maxHistorySize+10; i++ {
		manager.Push(counterAction(&state))
	}

	count := 0
	for manager.CanUndo() {
		_, _ = manager.Undo()
		count++
	}
	if count != maxHistorySize {
		t.Errorf("undo count = %d, want %d", count, maxHistorySize)
	}
}

func TestUndoManager_PushClearsRedo(t *testing.T) {
	manager := NewUndoManager()
	state := 0
	manager.Push(counterAction(&state))
	_, _ = manager.Undo()

	manager.Push(counterAction(&state))
	if manager.CanRedo() {
		t.Error("CanRedo() = true after a new push")
	}
}

func TestUndoManager_FailureKeepsAction(t *testing.T) {
	manager := NewUndoManager()
	wantErr := errors.New("disk full")
	manager.Push(&UndoableAction{Description: "x", Undo: func() error { return wantErr }})

	desc, err := manager.Undo()
	if !errors.Is(err, wantErr) || desc != "" {
		t.Errorf("Undo() = %q, %v", desc, err)
	}
	if !manager.CanUndo() {
		t.Error("failed action should stay on the undo stack")
	}
}

func TestUndoManager_NilRedoNotRedoable(t *testing.T) {
	manager := NewUndoManager()
	manager.Push(&UndoableAction{Description: "once", Undo: func() error { return nil }})
	_, _ = manager.Undo()
	if manager.CanRedo() {
		t.Error("action without Redo should not be redoable")
	}
}

func TestUndoManager_Clear(t *testing.T) {
	manager := NewUndoManager()
	state := 0
	manager.Push(counterAction(&state))
	manager.Push(counterAction(&state))
	_, _ = manager.Undo()

	manager.Clear()
	if manager.CanUndo() || manager.CanRedo() {
		t.Error("history not empty after Clear")
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer text", 10, "this is .."},
		{"abcd", 3, "a.."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateText(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func addTestDiary(t *testing.T, store *storage.Storage, title string) *storage.Diary {
	t.Helper()
	d, err := store.AddDiary(storage.Diary{Mood: storage.MoodCalm, Title: title, Description: "Some words."})
	if err != nil {
		t.Fatalf("AddDiary() error = %v", err)
	}
	return d
}

func countDiaries(t *testing.T, store *storage.Storage) int {
	t.Helper()
	ds, err := store.LoadDiaries()
	if err != nil {
		t.Fatal(err)
	}
	return len(ds.Diaries)
}

func TestNewDeleteDiaryAction(t *testing.T) {
	store := createTestStorage(t)
	d := addTestDiary(t, store, "Lake day")
	if _, err := store.DeleteDiary(d.ID); err != nil {
		t.Fatal(err)
	}

	action := NewDeleteDiaryAction(store, *d)
	if action.Description != "Deleted: Lake day" {
		t.Errorf("Description = %q", action.Description)
	}

	if err := action.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	restored, err := store.GetDiary(d.ID)
	if err != nil {
		t.Fatalf("entry not restored: %v", err)
	}
	if !restored.CreatedAt.Equal(d.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", restored.CreatedAt, d.CreatedAt)
	}

	if err := action.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if n := countDiaries(t, store); n != 0 {
		t.Errorf("diaries after redo = %d, want 0", n)
	}
}

func TestNewAddDiaryAction(t *testing.T) {
	store := createTestStorage(t)
	d := addTestDiary(t, store, "Fresh")
	action := NewAddDiaryAction(store, *d)

	if err := action.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if n := countDiaries(t, store); n != 0 {
		t.Errorf("diaries after undo = %d, want 0", n)
	}
	if err := action.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if _, err := store.GetDiary(d.ID); err != nil {
		t.Errorf("entry missing after redo: %v", err)
	}
}

func TestNewEditDiaryAction(t *testing.T) {
	store := createTestStorage(t)
	before := addTestDiary(t, store, "Draft")
	edited := *before
	edited.Title = "Final"
	after, err := store.UpdateDiary(edited)
	if err != nil {
		t.Fatal(err)
	}

	action := NewEditDiaryAction(store, *before, *after)
	if err := action.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got, _ := store.GetDiary(before.ID); got.Title != "Draft" {
		t.Errorf("title after undo = %q, want Draft", got.Title)
	}
	if err := action.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if got, _ := store.GetDiary(before.ID); got.Title != "Final" {
		t.Errorf("title after redo = %q, want Final", got.Title)
	}
}
