package ui

import (
	"moodlog/internal/datetime"
	"moodlog/internal/gallery"
	"moodlog/internal/storage"
	"moodlog/internal/sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Async results from commands.go. Every storage or filesystem call runs in a
// tea.Cmd and reports back with one of these.

type undoResultMsg struct {
	desc string
	err  error
}

type redoResultMsg struct {
	desc string
	err  error
}

// diariesLoadedMsg carries the full journal.
type diariesLoadedMsg struct {
	diaries []storage.Diary
	err     error
}

// diarySavedMsg is sent after the write screen persisted an entry.
type diarySavedMsg struct {
	diary    *storage.Diary
	previous *storage.Diary // nil when the entry was created
	err      error
}

// diaryDeletedMsg carries the removed entry so it can be restored by undo.
type diaryDeletedMsg struct {
	id    string
	diary *storage.Diary
	err   error
}

// imageUploadedMsg is sent when a picked file was copied into the data dir.
type imageUploadedMsg struct {
	image gallery.Image
	err   error
}

// imagesDeletedMsg reports cleanup of discarded attachments.
type imagesDeletedMsg struct {
	count int
	err   error
}

// Picker results. The write screen feeds them to the datetime editor.

type dateChosenMsg struct {
	date datetime.Date
}

type timeChosenMsg struct {
	hour   int
	minute int
}

type pickerDismissedMsg struct{}

// syncStatusMsg is sent when git sync status is refreshed.
type syncStatusMsg struct {
	status *sync.Status
	err    error
}

// statusMsg asks the app to show a transient status line.
type statusMsg struct {
	text    string
	isError bool
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
