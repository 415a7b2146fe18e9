package ui

import (
	"fmt"
	"strings"

	"moodlog/internal/datetime"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type clockField int

const (
	fieldHour clockField = iota
	fieldMinute
)

// TimePicker edits an hour and a minute. Up and down step the focused field,
// left, right and tab switch fields and two typed digits fill a field.
type TimePicker struct {
	styles *Styles
	keys   PickerKeyMap

	hour   int
	minute int
	field  clockField
	digits string
	forDay string
}

// NewTimePicker creates a picker. Call Reset before showing it.
func NewTimePicker(styles *Styles, keys PickerKeyMap) *TimePicker {
	return &TimePicker{styles: styles, keys: keys}
}

// Reset loads c and focuses the hour field.
func (p *TimePicker) Reset(c datetime.Clock) {
	p.hour = c.Hour
	p.minute = c.Minute
	p.field = fieldHour
	p.digits = ""
}

// SetDay names the day being timed in the title.
func (p *TimePicker) SetDay(label string) {
	p.forDay = label
}

// Selected returns the hour and minute shown.
func (p *TimePicker) Selected() (int, int) {
	return p.hour, p.minute
}

// Update handles a key while the picker is open.
func (p *TimePicker) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Confirm):
		h, m := p.hour, p.minute
		return func() tea.Msg { return timeChosenMsg{hour: h, minute: m} }
	case key.Matches(msg, p.keys.Cancel):
		return func() tea.Msg { return pickerDismissedMsg{} }
	case key.Matches(msg, p.keys.Up):
		p.step(1)
	case key.Matches(msg, p.keys.Down):
		p.step(-1)
	case key.Matches(msg, p.keys.Left), key.Matches(msg, p.keys.Right),
		msg.Type == tea.KeyTab, msg.Type == tea.KeyShiftTab:
		p.toggleField()
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9':
		p.typeDigit(msg.Runes[0])
	}
	return nil
}

func (p *TimePicker) step(delta int) {
	p.digits = ""
	if p.field == fieldHour {
		p.hour = (p.hour + delta + 24) % 24
		return
	}
	p.minute = (p.minute + delta + 60) % 60
}

func (p *TimePicker) toggleField() {
	p.digits = ""
	if p.field == fieldHour {
		p.field = fieldMinute
	} else {
		p.field = fieldHour
	}
}

// typeDigit collects up to two digits. A complete hour moves focus to the
// minute; out-of-range input is dropped.
func (p *TimePicker) typeDigit(r rune) {
	p.digits += string(r)
	if len(p.digits) < 2 {
		return
	}
	var n int
	fmt.Sscanf(p.digits, "%d", &n)
	p.digits = ""
	if p.field == fieldHour {
		if n < 24 {
			p.hour = n
			p.field = fieldMinute
		}
		return
	}
	if n < 60 {
		p.minute = n
	}
}

// View renders the two fields and a 12-hour preview.
func (p *TimePicker) View() string {
	var b strings.Builder
	title := "Pick a time"
	if p.forDay != "" {
		title += " for " + p.forDay
	}
	b.WriteString(p.styles.DialogTitleStyle.Render(title))
	b.WriteString("\n\n")

	hour := fmt.Sprintf("%02d", p.hour)
	minute := fmt.Sprintf("%02d", p.minute)
	if p.field == fieldHour {
		hour = p.styles.CalendarSelStyle.Render("[" + hour + "]")
		minute = " " + minute + " "
	} else {
		hour = " " + hour + " "
		minute = p.styles.CalendarSelStyle.Render("[" + minute + "]")
	}
	b.WriteString("  " + hour + ":" + minute + "\n\n")
	b.WriteString(p.styles.DateStyle.Render(datetime.FormatClock(datetime.Clock{Hour: p.hour, Minute: p.minute})))
	b.WriteString("\n\n")
	b.WriteString(p.styles.RenderHelp("↑↓", "adjust", "tab", "field", "enter", "done", "esc", "cancel"))
	return p.styles.DialogStyle.Render(b.String())
}
