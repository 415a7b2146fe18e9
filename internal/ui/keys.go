package ui

import (
	"strings"

	"moodlog/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// binding builds a key.Binding whose help label is the first bound key.
func binding(custom string, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], desc),
	)
}

// =============================================================================
// Global Keys
// =============================================================================

// GlobalKeyMap defines keys available outside text fields.
type GlobalKeyMap struct {
	Quit key.Binding
	Help key.Binding
	Undo key.Binding
	Redo key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: binding(cfg.Quit, "quit", "ctrl+c"),
		Help: binding(cfg.Help, "help", "?"),
		Undo: binding(cfg.Undo, "undo", "ctrl+z", "u"),
		Redo: binding(cfg.Redo, "redo", "ctrl+y"),
	}
}

// =============================================================================
// Home Screen Keys
// =============================================================================

// HomeKeyMap defines keys for the entry list.
type HomeKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	New    key.Binding
	Open   key.Binding
	Delete key.Binding

	// PreviewUp and PreviewDown scroll the markdown preview.
	PreviewUp   key.Binding
	PreviewDown key.Binding
}

// NewHomeKeyMap creates home key bindings from config.
func NewHomeKeyMap(cfg *config.KeysConfig) HomeKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return HomeKeyMap{
		Up:          binding(cfg.Up, "up", "k", "up"),
		Down:        binding(cfg.Down, "down", "j", "down"),
		New:         binding(cfg.New, "new entry", "n", "a"),
		Open:        binding(cfg.Open, "open", "enter"),
		Delete:      binding(cfg.Delete, "delete", "x"),
		PreviewUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll preview")),
		PreviewDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll preview")),
	}
}

// ShortHelp implements help.KeyMap.
func (k HomeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Open, k.Delete, k.Down}
}

// FullHelp implements help.KeyMap.
func (k HomeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.Delete},
		{k.Up, k.Down, k.PreviewUp, k.PreviewDown},
	}
}

// =============================================================================
// Write Screen Keys
// =============================================================================

// WriteKeyMap defines keys for the write screen. Plain letters are left to
// the text fields, so every default carries a modifier.
type WriteKeyMap struct {
	Save        key.Binding
	PickDate    key.Binding
	RevertDate  key.Binding
	DeleteEntry key.Binding
	Back        key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	PrevMood    key.Binding
	NextMood    key.Binding
	AddImage    key.Binding
	RemoveImage key.Binding
}

// NewWriteKeyMap creates write screen key bindings from config.
func NewWriteKeyMap(cfg *config.KeysConfig) WriteKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return WriteKeyMap{
		Save:        binding(cfg.Save, "save", "ctrl+s"),
		PickDate:    binding(cfg.PickDate, "date", "ctrl+t"),
		RevertDate:  binding(cfg.RevertDate, "revert date", "ctrl+r"),
		DeleteEntry: binding(cfg.DeleteEntry, "delete", "ctrl+x"),
		Back:        binding(cfg.Back, "back", "esc"),
		NextField:   binding(cfg.NextField, "next field", "tab"),
		PrevField:   binding(cfg.PrevField, "prev field", "shift+tab"),
		PrevMood:    binding(cfg.PrevMood, "prev mood", "ctrl+left"),
		NextMood:    binding(cfg.NextMood, "next mood", "ctrl+right"),
		AddImage:    binding(cfg.AddImage, "add image", "ctrl+o"),
		RemoveImage: binding(cfg.RemoveImage, "remove image", "ctrl+d"),
	}
}

// ShortHelp implements help.KeyMap.
func (k WriteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.PickDate, k.NextMood, k.NextField, k.Back}
}

// FullHelp implements help.KeyMap.
func (k WriteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Back, k.DeleteEntry},
		{k.PickDate, k.RevertDate},
		{k.PrevMood, k.NextMood, k.NextField, k.PrevField},
		{k.AddImage, k.RemoveImage},
	}
}

// =============================================================================
// Dialog Keys
// =============================================================================

// DialogKeyMap defines keys shared by confirm and picker dialogs.
type DialogKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewDialogKeyMap creates dialog key bindings from config.
func NewDialogKeyMap(cfg *config.KeysConfig) DialogKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return DialogKeyMap{
		Confirm: binding(cfg.Confirm, "confirm", "enter"),
		Cancel:  binding(cfg.Cancel, "cancel", "esc"),
	}
}

// PickerKeyMap drives the calendar and clock dialogs.
type PickerKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	PrevYear  key.Binding
	NextYear  key.Binding
	Today     key.Binding
	DialogKeyMap
}

// NewPickerKeyMap returns the picker bindings. Only confirm and cancel are
// configurable.
func NewPickerKeyMap(cfg *config.KeysConfig) PickerKeyMap {
	return PickerKeyMap{
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		PrevMonth:    key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("[", "prev month")),
		NextMonth:    key.NewBinding(key.WithKeys("pgdown", "]"), key.WithHelp("]", "next month")),
		PrevYear:     key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "prev year")),
		NextYear:     key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "next year")),
		Today:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		DialogKeyMap: NewDialogKeyMap(cfg),
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
