// Package ui provides the terminal user interface for moodlog.
// This file contains the main App model which switches between the journal
// list and the write screen and routes messages using the Bubble Tea
// architecture.
package ui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moodlog/internal/config"
	"moodlog/internal/gallery"
	"moodlog/internal/storage"
	"moodlog/internal/sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifies the visible screen.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenWrite
)

// LayoutMode determines how the home panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows the list and preview side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow stacks the preview under the list.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	NarrowLayoutThreshold int
	GlamourStyle          string
	MaxImages             int
	ThumbnailSize         int

	// Location and Now default to time.Local and time.Now.
	Location *time.Location
	Now      func() time.Time
}

// App is the main application model.
type App struct {
	storage     *storage.Storage
	styles      *Styles
	config      *AppConfig
	uploader    *gallery.Uploader
	gitSync     *sync.GitSync
	syncStatus  *sync.Status
	home        *HomeScreen
	write       *WriteScreen // nil unless on the write screen
	helpOverlay *HelpOverlay
	help        help.Model
	undoManager *UndoManager
	undoBusy    bool
	saving      bool
	confirmDel  *confirmDeleteState
	screen      Screen
	layoutMode  LayoutMode
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// selectAfterLoad is the entry to highlight once the list reloads.
	selectAfterLoad string

	keys       GlobalKeyMap
	homeKeys   HomeKeyMap
	writeKeys  WriteKeyMap
	pickerKeys PickerKeyMap
	helpKeys   HelpKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store *storage.Storage, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = store.Now
	}

	globalKeys := NewGlobalKeyMap(cfg.Keys)
	homeKeys := NewHomeKeyMap(cfg.Keys)
	writeKeys := NewWriteKeyMap(cfg.Keys)
	pickerKeys := NewPickerKeyMap(cfg.Keys)

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle

	return &App{
		storage:     store,
		styles:      styles,
		config:      cfg,
		uploader:    gallery.NewUploader(store.GetDataDir(), cfg.MaxImages, cfg.ThumbnailSize),
		home:        NewHomeScreen(styles, homeKeys, resolveGlamourStyle(cfg.GlamourStyle), cfg.Now, cfg.Location),
		helpOverlay: NewHelpOverlay(styles, globalKeys, homeKeys, writeKeys, pickerKeys),
		help:        h,
		undoManager: NewUndoManager(),
		screen:      ScreenHome,
		keys:        globalKeys,
		homeKeys:    homeKeys,
		writeKeys:   writeKeys,
		pickerKeys:  pickerKeys,
		helpKeys:    DefaultHelpKeyMap(),
	}
}

// NewAppWithSync creates an app that shows git sync status.
func NewAppWithSync(store *storage.Storage, styles *Styles, cfg *AppConfig, gs *sync.GitSync) *App {
	app := NewApp(store, styles, cfg)
	app.gitSync = gs
	return app
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the app and loads the journal asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		loadDiariesCmd(a.storage),
		refreshSyncStatusCmd(a.gitSync),
	)
}

// Screen returns the visible screen.
func (a *App) Screen() Screen {
	return a.screen
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async results are handled first, whatever the screen.
	switch msg := msg.(type) {
	case diariesLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Journal: "+msg.err.Error(), true)
		}
		a.home.SetDiaries(msg.diaries)
		if a.selectAfterLoad != "" {
			a.home.Select(a.selectAfterLoad)
			a.selectAfterLoad = ""
		}
		return a, nil

	case diarySavedMsg:
		a.saving = false
		if msg.err != nil {
			log.Printf("save diary: %v", msg.err)
			a.SetStatus("Save: "+msg.err.Error(), true)
			return a, nil
		}
		if msg.previous != nil {
			a.undoManager.Push(NewEditDiaryAction(a.storage, *msg.previous, *msg.diary))
		} else {
			a.undoManager.Push(NewAddDiaryAction(a.storage, *msg.diary))
		}
		var cleanup tea.Cmd
		if a.write != nil {
			cleanup = deleteImagesCmd(a.uploader, a.write.RemovedImages())
		}
		a.SetStatus("Saved: "+truncateText(msg.diary.Title, 40), false)
		a.selectAfterLoad = msg.diary.ID
		a.showHome()
		return a, tea.Batch(cleanup, loadDiariesCmd(a.storage), refreshSyncStatusCmd(a.gitSync))

	case diaryDeletedMsg:
		if msg.err != nil {
			log.Printf("delete diary %s: %v", msg.id, msg.err)
			a.SetStatus("Delete: "+msg.err.Error(), true)
			return a, nil
		}
		// Image files stay on disk so undo can bring the entry back intact.
		if msg.diary != nil {
			a.undoManager.Push(NewDeleteDiaryAction(a.storage, *msg.diary))
			a.SetStatus("Deleted: "+truncateText(msg.diary.Title, 40)+" (undo: "+a.keys.Undo.Help().Key+")", false)
		}
		var cleanup tea.Cmd
		if a.write != nil {
			cleanup = deleteImagesCmd(a.uploader, a.write.AddedImages())
			a.showHome()
		}
		return a, tea.Batch(cleanup, loadDiariesCmd(a.storage), refreshSyncStatusCmd(a.gitSync))

	case imageUploadedMsg:
		if a.write == nil {
			// The user left the write screen before the copy finished.
			if msg.err == nil {
				return a, deleteImagesCmd(a.uploader, []string{msg.image.RemotePath})
			}
			return a, nil
		}
		return a, a.write.Update(msg)

	case imagesDeletedMsg:
		if msg.err != nil {
			log.Printf("delete images: %v", msg.err)
			a.SetStatus("Images: "+msg.err.Error(), true)
		}
		return a, nil

	case dateChosenMsg, timeChosenMsg, pickerDismissedMsg:
		if a.write != nil {
			return a, a.write.Update(msg)
		}
		return a, nil

	case statusMsg:
		a.SetStatus(msg.text, msg.isError)
		return a, nil

	case syncStatusMsg:
		if msg.err != nil {
			a.syncStatus = nil
			return a, nil
		}
		a.syncStatus = msg.status
		return a, nil

	case undoResultMsg:
		a.undoBusy = false
		if msg.err != nil {
			a.SetStatus("Undo failed: "+msg.err.Error(), true)
		} else if msg.desc != "" {
			a.SetStatus("Undid: "+msg.desc, false)
		} else {
			a.SetStatus("Nothing to undo", false)
		}
		return a, loadDiariesCmd(a.storage)

	case redoResultMsg:
		a.undoBusy = false
		if msg.err != nil {
			a.SetStatus("Redo failed: "+msg.err.Error(), true)
		} else if msg.desc != "" {
			a.SetStatus("Redid: "+msg.desc, false)
		} else {
			a.SetStatus("Nothing to redo", false)
		}
		return a, loadDiariesCmd(a.storage)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		if a.confirmDel != nil || a.showHelp {
			if msg.Action == tea.MouseActionPress {
				a.confirmDel = nil
				a.showHelp = false
			}
			return a, nil
		}
		if a.screen == ScreenHome {
			return a, a.home.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	if a.write != nil {
		return a, a.write.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Quit) {
		a.quitting = true
		return tea.Quit
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return cmd
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	if a.screen == ScreenWrite {
		return a.handleWriteKey(msg)
	}
	return a.handleHomeKey(msg)
}

func (a *App) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.homeKeys.New):
		a.openWrite(nil)
		return nil

	case key.Matches(msg, a.homeKeys.Open):
		d := a.home.Selected()
		if d == nil {
			a.SetStatus("No entry selected", true)
			return nil
		}
		a.openWrite(d)
		return nil

	case key.Matches(msg, a.homeKeys.Delete):
		d := a.home.Selected()
		if d == nil {
			a.SetStatus("No entry selected", true)
			return nil
		}
		return a.confirmDelete(*d)

	case key.Matches(msg, a.keys.Undo):
		if a.undoBusy {
			a.SetStatus("Undo: busy", true)
			return nil
		}
		a.undoBusy = true
		return undoCmd(a.undoManager)

	case key.Matches(msg, a.keys.Redo):
		if a.undoBusy {
			a.SetStatus("Redo: busy", true)
			return nil
		}
		a.undoBusy = true
		return redoCmd(a.undoManager)
	}
	return a.home.Update(msg)
}

func (a *App) handleWriteKey(msg tea.KeyMsg) tea.Cmd {
	// An open picker owns the keyboard, Esc included.
	if a.write.TopBar().DialogOpen() {
		return a.write.Update(msg)
	}

	switch {
	case key.Matches(msg, a.writeKeys.Save):
		return a.save()

	case key.Matches(msg, a.writeKeys.Back):
		cleanup := deleteImagesCmd(a.uploader, a.write.AddedImages())
		a.showHome()
		return cleanup

	case key.Matches(msg, a.writeKeys.DeleteEntry):
		d := a.write.Diary()
		if d == nil {
			return nil
		}
		return a.confirmDelete(*d)
	}
	return a.write.Update(msg)
}

func (a *App) save() tea.Cmd {
	if a.saving {
		return nil
	}
	d, err := a.write.BuildDiary()
	if errors.Is(err, storage.ErrEmptyFields) {
		a.SetStatus("Fields can not be empty", true)
		return nil
	}
	if err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	a.saving = true
	return saveDiaryCmd(a.storage, d)
}

func (a *App) confirmDelete(d storage.Diary) tea.Cmd {
	cmd := deleteDiaryCmd(a.storage, d.ID)
	if !a.config.ConfirmDeletions {
		return cmd
	}
	a.confirmDel = &confirmDeleteState{
		title: "Delete",
		body:  fmt.Sprintf("Are you sure you want to delete note '%s'?", truncateText(d.Title, 40)),
		cmd:   cmd,
	}
	return nil
}

func (a *App) openWrite(d *storage.Diary) {
	a.write = NewWriteScreen(a.styles, a.writeKeys, a.pickerKeys, WriteOptions{
		Diary:    d,
		Uploader: a.uploader,
		Now:      a.config.Now,
		Location: a.config.Location,
	})
	a.screen = ScreenWrite
	a.updateLayout()
}

func (a *App) showHome() {
	a.write = nil
	a.saving = false
	a.screen = ScreenHome
}

// updateLayout recalculates screen sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (1) and help bar (1).
	contentHeight := max(a.height-3, 10)

	a.helpOverlay.SetSize(a.width, a.height)
	a.help.Width = a.width

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}
	a.layoutMode = LayoutWide
	if a.width < threshold {
		a.layoutMode = LayoutNarrow
	}

	a.home.SetSize(a.width, contentHeight, a.layoutMode == LayoutNarrow)
	if a.write != nil {
		a.write.SetSize(a.width, contentHeight)
	}
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	if a.screen == ScreenWrite && a.write != nil {
		b.WriteString(a.write.View())
	} else {
		b.WriteString(a.home.View())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] yes    [n/esc] no"))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

func (a *App) renderGoodbye() string {
	n := a.home.Len()
	if n == 0 {
		return "\n  See you later!\n\n"
	}
	return fmt.Sprintf("\n  See you later! %d %s in your journal.\n\n", n, pluralize(n, "entry", "entries"))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// renderTitleBar creates the top title bar with entry stats and sync state.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" moodlog ")

	now := a.config.Now().In(a.config.Location)
	today := 0
	for _, g := range storage.GroupByDay(a.home.diaries, a.config.Location) {
		if g.Day.Year() == now.Year() && g.Day.YearDay() == now.YearDay() {
			today = len(g.Diaries)
		}
	}
	stats := a.styles.DateStyle.Render(fmt.Sprintf("%d %s · %d today", a.home.Len(), pluralize(a.home.Len(), "entry", "entries"), today))
	syncView := a.renderSyncStatus()
	date := a.styles.DateStyle.Render(now.Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(syncView) + lipgloss.Width(date) + 2
	spacer := max(a.width-used, 2)
	return title + "  " + stats + strings.Repeat(" ", spacer) + syncView + date
}

func (a *App) renderSyncStatus() string {
	if a.gitSync == nil {
		return ""
	}
	s := a.syncStatus
	switch {
	case s == nil || !s.IsRepo:
		return a.styles.SyncDisabledStyle.Render("○ no sync") + "  "
	case s.Behind > 0:
		return a.styles.SyncBehindStyle.Render(fmt.Sprintf("↓%d", s.Behind)) + "  "
	case s.HasChanges:
		return a.styles.SyncPendingStyle.Render("● pending") + "  "
	case s.Ahead > 0:
		return a.styles.SyncAheadStyle.Render(fmt.Sprintf("↑%d", s.Ahead)) + "  "
	default:
		return a.styles.SyncSyncedStyle.Render("✓ synced") + "  "
	}
}

// renderHelpBar shows the status line, else context-sensitive key hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}
	if a.screen == ScreenWrite && a.write != nil {
		if a.write.TopBar().DialogOpen() {
			return ""
		}
		return a.help.View(a.writeKeys)
	}
	return a.help.View(a.homeKeys)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program without git sync.
func Run(store *storage.Storage, styles *Styles, cfg *AppConfig) error {
	return RunWithSync(store, styles, cfg, nil)
}

// RunWithSync starts the Bubble Tea program. gs may be nil. Setting
// MOODLOG_DEBUG=1 sends the std logger to <data dir>/debug.log; otherwise log
// output is discarded while the TUI owns the terminal.
func RunWithSync(store *storage.Storage, styles *Styles, cfg *AppConfig, gs *sync.GitSync) error {
	if os.Getenv("MOODLOG_DEBUG") == "1" {
		f, err := tea.LogToFile(filepath.Join(store.GetDataDir(), "debug.log"), "moodlog")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	defer log.SetOutput(os.Stderr)

	app := NewAppWithSync(store, styles, cfg, gs)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
