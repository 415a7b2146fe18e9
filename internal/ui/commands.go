package ui

import (
	"errors"

	"moodlog/internal/gallery"
	"moodlog/internal/storage"
	"moodlog/internal/sync"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Diary Commands
// =============================================================================

func loadDiariesCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		diaryStore, err := store.LoadDiaries()
		if diaryStore == nil {
			return diariesLoadedMsg{err: err}
		}
		return diariesLoadedMsg{diaries: storage.SortDiaries(diaryStore.Diaries), err: err}
	}
}

// saveDiaryCmd creates or updates d. For updates the stored version is
// captured first so the edit can be undone.
func saveDiaryCmd(store *storage.Storage, d storage.Diary) tea.Cmd {
	return func() tea.Msg {
		var previous *storage.Diary
		if d.ID != "" {
			prev, err := store.GetDiary(d.ID)
			if err != nil {
				return diarySavedMsg{err: err}
			}
			previous = prev
		}
		saved, err := store.UpsertDiary(d)
		return diarySavedMsg{diary: saved, previous: previous, err: err}
	}
}

func deleteDiaryCmd(store *storage.Storage, id string) tea.Cmd {
	return func() tea.Msg {
		deleted, err := store.DeleteDiary(id)
		return diaryDeletedMsg{id: id, diary: deleted, err: err}
	}
}

// =============================================================================
// Gallery Commands
// =============================================================================

// uploadImageCmd uploads into a snapshot of the current state so the limit
// check sees existing images without the command touching UI state.
func uploadImageCmd(u *gallery.Uploader, current []gallery.Image, path string) tea.Cmd {
	snapshot := &gallery.State{Images: append([]gallery.Image(nil), current...)}
	return func() tea.Msg {
		img, err := u.Upload(snapshot, path)
		return imageUploadedMsg{image: img, err: err}
	}
}

// deleteImagesCmd removes stored files for discarded attachments.
func deleteImagesCmd(u *gallery.Uploader, remotePaths []string) tea.Cmd {
	if u == nil || len(remotePaths) == 0 {
		return nil
	}
	paths := append([]string(nil), remotePaths...)
	return func() tea.Msg {
		var errs []error
		for _, p := range paths {
			if err := u.Delete(p); err != nil {
				errs = append(errs, err)
			}
		}
		return imagesDeletedMsg{count: len(paths), err: errors.Join(errs...)}
	}
}

// =============================================================================
// Undo/Redo Commands
// =============================================================================

func undoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Undo()
		return undoResultMsg{desc: desc, err: err}
	}
}

func redoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Redo()
		return redoResultMsg{desc: desc, err: err}
	}
}

// =============================================================================
// Sync Commands
// =============================================================================

// refreshSyncStatusCmd returns nil when sync is disabled.
func refreshSyncStatusCmd(gs *sync.GitSync) tea.Cmd {
	if gs == nil {
		return nil
	}
	return func() tea.Msg {
		status, err := gs.Status()
		return syncStatusMsg{status: status, err: err}
	}
}
