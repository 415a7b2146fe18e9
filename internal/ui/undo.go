package ui

import (
	"sync"

	"moodlog/internal/storage"

	"github.com/mattn/go-runewidth"
)

const maxHistorySize = 50

// UndoableAction is one reversible journal change. Redo may be nil.
type UndoableAction struct {
	Description string
	Undo        func() error
	Redo        func() error
}

// UndoManager keeps bounded undo and redo stacks. Actions run outside the
// lock because they hit the disk.
type UndoManager struct {
	mu        sync.Mutex
	undoStack []*UndoableAction
	redoStack []*UndoableAction
}

// NewUndoManager creates an empty history.
func NewUndoManager() *UndoManager {
	return &UndoManager{
		undoStack: make([]*UndoableAction, 0, maxHistorySize),
		redoStack: make([]*UndoableAction, 0, maxHistorySize),
	}
}

// Push records action and drops the redo history. The oldest entry falls off
// once the stack is full.
func (m *UndoManager) Push(action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.redoStack = m.redoStack[:0]
	if len(m.undoStack) >= maxHistorySize {
		m.undoStack = m.undoStack[1:]
	}
	m.undoStack = append(m.undoStack, action)
}

// CanUndo reports whether Undo would do anything.
func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

// CanRedo reports whether Redo would do anything.
func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// Undo reverses the latest action and returns its description. An empty
// history yields "", nil. A failed action stays on the stack.
func (m *UndoManager) Undo() (string, error) {
	action := m.pop(&m.undoStack)
	if action == nil {
		return "", nil
	}
	if err := action.Undo(); err != nil {
		m.push(&m.undoStack, action)
		return "", err
	}
	if action.Redo != nil {
		m.push(&m.redoStack, action)
	}
	return action.Description, nil
}

// Redo reapplies the latest undone action.
func (m *UndoManager) Redo() (string, error) {
	action := m.pop(&m.redoStack)
	if action == nil {
		return "", nil
	}
	if err := action.Redo(); err != nil {
		m.push(&m.redoStack, action)
		return "", err
	}
	m.push(&m.undoStack, action)
	return action.Description, nil
}

// Clear drops all history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = m.undoStack[:0]
	m.redoStack = m.redoStack[:0]
}

func (m *UndoManager) pop(stack *[]*UndoableAction) *UndoableAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(*stack)
	if n == 0 {
		return nil
	}
	action := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return action
}

func (m *UndoManager) push(stack *[]*UndoableAction, action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*stack = append(*stack, action)
}

// =============================================================================
// Undoable Action Factories
// =============================================================================

// NewDeleteDiaryAction captures a deleted entry so undo can restore it with
// its original ID and timestamps.
func NewDeleteDiaryAction(store *storage.Storage, d storage.Diary) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted: " + truncateText(d.Title, 20),
		Undo: func() error {
			return store.RestoreDiary(d)
		},
		Redo: func() error {
			_, err := store.DeleteDiary(d.ID)
			return err
		},
	}
}

// NewAddDiaryAction makes a newly written entry undoable.
func NewAddDiaryAction(store *storage.Storage, d storage.Diary) *UndoableAction {
	return &UndoableAction{
		Description: "Added: " + truncateText(d.Title, 20),
		Undo: func() error {
			_, err := store.DeleteDiary(d.ID)
			return err
		},
		Redo: func() error {
			return store.RestoreDiary(d)
		},
	}
}

// NewEditDiaryAction swaps between the stored versions before and after an edit.
func NewEditDiaryAction(store *storage.Storage, before, after storage.Diary) *UndoableAction {
	return &UndoableAction{
		Description: "Edited: " + truncateText(after.Title, 20),
		Undo: func() error {
			_, err := store.UpdateDiary(before)
			return err
		},
		Redo: func() error {
			_, err := store.UpdateDiary(after)
			return err
		},
	}
}

// truncateText shortens text to maxLen with ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
