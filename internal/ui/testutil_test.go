package ui

import (
	"testing"
	"time"

	"moodlog/internal/config"
	"moodlog/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest disables colors so rendered output is plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a Storage instance with a temporary directory.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// fixedNow is the wall clock used by UI tests: Sunday 2026-03-01 14:30 UTC.
var fixedNow = time.Date(2026, time.March, 1, 14, 30, 45, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// keyMsg builds a key press. Named keys such as "enter" or "ctrl+s" map to
// their tea.KeyType; anything else is sent as runes.
func keyMsg(k string) tea.KeyMsg {
	named := map[string]tea.KeyType{
		"enter":      tea.KeyEnter,
		"esc":        tea.KeyEsc,
		"tab":        tea.KeyTab,
		"shift+tab":  tea.KeyShiftTab,
		"up":         tea.KeyUp,
		"down":       tea.KeyDown,
		"left":       tea.KeyLeft,
		"right":      tea.KeyRight,
		"pgup":       tea.KeyPgUp,
		"pgdown":     tea.KeyPgDown,
		"backspace":  tea.KeyBackspace,
		"ctrl+c":     tea.KeyCtrlC,
		"ctrl+d":     tea.KeyCtrlD,
		"ctrl+o":     tea.KeyCtrlO,
		"ctrl+r":     tea.KeyCtrlR,
		"ctrl+s":     tea.KeyCtrlS,
		"ctrl+t":     tea.KeyCtrlT,
		"ctrl+x":     tea.KeyCtrlX,
		"ctrl+y":     tea.KeyCtrlY,
		"ctrl+z":     tea.KeyCtrlZ,
		"ctrl+left":  tea.KeyCtrlLeft,
		"ctrl+right": tea.KeyCtrlRight,
	}
	if kt, ok := named[k]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// runCmd executes cmd and returns its message, or nil for a nil cmd.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
