package ui

import (
	"fmt"
	"strings"
	"time"

	"moodlog/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// HomeScreen lists entries grouped by day with a markdown preview of the
// selected one.
type HomeScreen struct {
	styles       *Styles
	keys         HomeKeyMap
	loc          *time.Location
	now          func() time.Time
	glamourStyle string

	diaries []storage.Diary // newest first, same order as the day groups
	groups  []storage.DayGroup
	cursor  int

	preview viewport.Model

	width  int
	height int
	narrow bool
}

// NewHomeScreen creates an empty home screen.
func NewHomeScreen(styles *Styles, keys HomeKeyMap, glamourStyle string, now func() time.Time, loc *time.Location) *HomeScreen {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &HomeScreen{
		styles:       styles,
		keys:         keys,
		loc:          loc,
		now:          now,
		glamourStyle: glamourStyle,
		preview:      viewport.New(40, 10),
	}
}

// SetDiaries replaces the list and keeps the selection on the same entry
// when it still exists.
func (h *HomeScreen) SetDiaries(diaries []storage.Diary) {
	selected := ""
	if d := h.Selected(); d != nil {
		selected = d.ID
	}
	h.diaries = storage.SortDiaries(diaries)
	h.groups = storage.GroupByDay(h.diaries, h.loc)

	h.cursor = min(h.cursor, max(len(h.diaries)-1, 0))
	for i, d := range h.diaries {
		if d.ID == selected {
			h.cursor = i
			break
		}
	}
	h.refreshPreview()
}

// Select moves the cursor to the entry with id.
func (h *HomeScreen) Select(id string) {
	for i, d := range h.diaries {
		if d.ID == id {
			h.cursor = i
			h.refreshPreview()
			return
		}
	}
}

// Selected returns the highlighted entry, nil when the list is empty.
func (h *HomeScreen) Selected() *storage.Diary {
	if h.cursor < 0 || h.cursor >= len(h.diaries) {
		return nil
	}
	d := h.diaries[h.cursor]
	return &d
}

// Len returns the number of entries.
func (h *HomeScreen) Len() int {
	return len(h.diaries)
}

// SetSize lays out the list and preview.
func (h *HomeScreen) SetSize(width, height int, narrow bool) {
	h.width, h.height, h.narrow = width, height, narrow
	pw, ph := h.previewSize()
	h.preview.Width = pw
	h.preview.Height = ph
	h.refreshPreview()
}

func (h *HomeScreen) listWidth() int {
	if h.narrow {
		return max(h.width-4, 10)
	}
	return max(h.width*2/5-4, 10)
}

func (h *HomeScreen) previewSize() (int, int) {
	if h.narrow {
		return max(h.width-4, 10), max(h.height/2-2, 3)
	}
	return max(h.width-h.listWidth()-8, 10), max(h.height-2, 3)
}

func (h *HomeScreen) listHeight() int {
	if h.narrow {
		return max(h.height-h.preview.Height-4, 3)
	}
	return max(h.height-2, 3)
}

func (h *HomeScreen) refreshPreview() {
	d := h.Selected()
	if d == nil {
		h.preview.SetContent("")
		return
	}
	h.preview.SetContent(renderMarkdown(diaryMarkdown(*d, h.loc), h.glamourStyle, h.preview.Width))
	h.preview.GotoTop()
}

// Update handles navigation keys and mouse wheel scrolling of the preview.
func (h *HomeScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.keys.Up):
			if h.cursor > 0 {
				h.cursor--
				h.refreshPreview()
			}
		case key.Matches(msg, h.keys.Down):
			if h.cursor < len(h.diaries)-1 {
				h.cursor++
				h.refreshPreview()
			}
		case key.Matches(msg, h.keys.PreviewUp):
			h.preview.HalfViewUp()
		case key.Matches(msg, h.keys.PreviewDown):
			h.preview.HalfViewDown()
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		h.preview, cmd = h.preview.Update(msg)
		return cmd
	}
	return nil
}

// dayLabel names a day relative to today.
func (h *HomeScreen) dayLabel(day time.Time) string {
	now := h.now().In(h.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case day.Year() == today.Year():
		return day.Format("Mon, 02 Jan")
	default:
		return day.Format("Mon, 02 Jan 2006")
	}
}

// listLines renders every row and returns the line index of the cursor.
func (h *HomeScreen) listLines(width int) ([]string, int) {
	var lines []string
	cursorLine := 0
	i := 0
	for _, g := range h.groups {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, h.styles.DayHeaderStyle.Render(h.dayLabel(g.Day)))
		for _, d := range g.Diaries {
			stamp := d.Date.In(h.loc).Format("03:04 PM")
			text := ansi.Truncate(fmt.Sprintf("%s %s", d.Mood.Icon(), d.Title), max(width-len(stamp)-3, 1), "…")
			if i == h.cursor {
				cursorLine = len(lines)
				lines = append(lines, h.styles.EntrySelectedStyle.Render("› "+stamp+" "+text))
			} else {
				lines = append(lines, "  "+h.styles.EntryTimeStyle.Render(stamp)+" "+h.styles.EntryStyle.Render(text))
			}
			i++
		}
	}
	return lines, cursorLine
}

func (h *HomeScreen) renderList() string {
	width := h.listWidth()
	if len(h.diaries) == 0 {
		return h.styles.DateStyle.Render("No entries yet.\nPress " + h.keys.New.Help().Key + " to write one.")
	}
	lines, cursorLine := h.listLines(width)
	height := h.listHeight()
	if len(lines) > height {
		start := max(cursorLine-height/2, 0)
		start = min(start, len(lines)-height)
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

// View renders the list and preview panes.
func (h *HomeScreen) View() string {
	title := h.styles.PaneTitleStyle.Render(fmt.Sprintf("Journal (%d)", len(h.diaries)))
	list := h.styles.PaneFocusedStyle.Width(h.listWidth()).Render(title + "\n" + h.renderList())
	preview := h.styles.PaneStyle.Width(h.preview.Width).Render(h.preview.View())
	if h.narrow {
		return lipgloss.JoinVertical(lipgloss.Left, list, preview)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
}
