package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global GlobalKeyMap
	home   HomeKeyMap
	write  WriteKeyMap
	picker PickerKeyMap
}

// NewHelpOverlay creates a new help overlay listing the configured keys.
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, home HomeKeyMap, write WriteKeyMap, picker PickerKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		global: global,
		home:   home,
		write:  write,
		picker: picker,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(18)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	section := func(name string, bindings ...key.Binding) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kb := range bindings {
			if !kb.Enabled() {
				continue
			}
			b.WriteString(keyStyle.Render(strings.Join(kb.Keys(), " / ")) + descStyle.Render(kb.Help().Desc) + "\n")
		}
	}

	b.WriteString(titleStyle.Render("moodlog - Keyboard Shortcuts"))
	b.WriteString("\n")

	section("Global", h.global.Help, h.global.Undo, h.global.Redo, h.global.Quit)
	section("Journal", h.home.New, h.home.Open, h.home.Delete, h.home.Up, h.home.Down, h.home.PreviewUp, h.home.PreviewDown)
	section("Write", h.write.Save, h.write.Back, h.write.DeleteEntry, h.write.NextField, h.write.PrevField,
		h.write.PrevMood, h.write.NextMood, h.write.AddImage, h.write.RemoveImage)
	section("Date & time", h.write.PickDate, h.write.RevertDate, h.picker.PrevMonth, h.picker.NextMonth,
		h.picker.PrevYear, h.picker.NextYear, h.picker.Today, h.picker.Confirm, h.picker.Cancel)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to close"))

	content := overlayStyle.Render(b.String())
	return RenderCentered(content, h.width, h.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
