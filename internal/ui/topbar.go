package ui

import (
	"strings"
	"time"

	"moodlog/internal/datetime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TopBarOptions configures a TopBar.
type TopBarOptions struct {
	// Persisted is the stored timestamp of the entry being edited.
	Persisted *time.Time
	// Existing enables the delete action.
	Existing bool
	// OnUpdatedDateTime receives every composed or reverted timestamp.
	OnUpdatedDateTime func(time.Time)

	Now      func() time.Time
	Location *time.Location
}

// TopBar is the write screen header: back action, mood name, the entry
// date label and the date or revert action. It owns the date and time
// pickers and drives a datetime.Editor with their results.
type TopBar struct {
	styles   *Styles
	keys     WriteKeyMap
	editor   *datetime.Editor
	date     *DatePicker
	clock    *TimePicker
	existing bool
	now      func() time.Time
	loc      *time.Location
}

// NewTopBar creates a top bar for one editing session.
func NewTopBar(styles *Styles, keys WriteKeyMap, pickerKeys PickerKeyMap, opts TopBarOptions) *TopBar {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &TopBar{
		styles: styles,
		keys:   keys,
		editor: datetime.New(datetime.Options{
			Persisted: opts.Persisted,
			OnUpdate:  opts.OnUpdatedDateTime,
			Now:       now,
			Location:  loc,
		}),
		date:     NewDatePicker(styles, pickerKeys),
		clock:    NewTimePicker(styles, pickerKeys),
		existing: opts.Existing,
		now:      now,
		loc:      loc,
	}
}

// Editor exposes the underlying state machine.
func (b *TopBar) Editor() *datetime.Editor {
	return b.editor
}

// Label is the date line currently shown.
func (b *TopBar) Label() string {
	return b.editor.Label()
}

// DialogOpen reports whether a picker has the keyboard.
func (b *TopBar) DialogOpen() bool {
	return b.editor.Dialog() != datetime.DialogNone
}

// OpenDatePicker shows the calendar on the pending date. It does nothing
// while the date is overridden.
func (b *TopBar) OpenDatePicker() bool {
	if !b.editor.OpenDatePicker() {
		return false
	}
	pending, _ := b.editor.Pending()
	b.date.Reset(pending, datetime.DateOf(b.now().In(b.loc)))
	return true
}

// Revert drops the override and goes back to now.
func (b *TopBar) Revert() bool {
	return b.editor.Revert()
}

// HandleDateChosen records the date and opens the time picker on the
// pending clock.
func (b *TopBar) HandleDateChosen(d datetime.Date) error {
	if err := b.editor.OnDateChosen(d); err != nil {
		return err
	}
	_, c := b.editor.Pending()
	b.clock.Reset(c)
	if day, ok := b.editor.PendingDate(); ok {
		b.clock.SetDay(datetime.FormatDate(day))
	}
	return nil
}

// HandleTimeChosen completes the pick.
func (b *TopBar) HandleTimeChosen(hour, minute int) error {
	return b.editor.OnTimeChosen(hour, minute)
}

// Dismiss closes whichever picker is open.
func (b *TopBar) Dismiss() {
	b.editor.Dismiss()
}

// Update forwards a key to the open picker.
func (b *TopBar) Update(msg tea.KeyMsg) tea.Cmd {
	switch b.editor.Dialog() {
	case datetime.DialogDate:
		return b.date.Update(msg)
	case datetime.DialogTime:
		return b.clock.Update(msg)
	}
	return nil
}

// View renders the header line for the given mood at width.
func (b *TopBar) View(mood string, width int) string {
	left := b.styles.ActionStyle.Render("‹ " + b.keys.Back.Help().Key)

	var right []string
	right = append(right, b.styles.DateStyle.Render(b.Label()))
	if b.editor.Overridden() {
		right = append(right, b.styles.ActionStyle.Render("["+b.keys.RevertDate.Help().Key+"] revert"))
	} else {
		right = append(right, b.styles.ActionStyle.Render("["+b.keys.PickDate.Help().Key+"] date"))
	}
	if b.existing {
		right = append(right, b.styles.ActionStyle.Render("["+b.keys.DeleteEntry.Help().Key+"] delete"))
	}
	rightStr := strings.Join(right, "  ")

	center := b.styles.MoodNameStyle.Render(mood)
	gap := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if gap < lipgloss.Width(center)+2 {
		return b.styles.TopBarStyle.Render(left + " " + center + "\n" + rightStr)
	}
	center = lipgloss.PlaceHorizontal(gap, lipgloss.Center, center)
	return b.styles.TopBarStyle.Render(left + center + rightStr)
}

// DialogView renders the open picker, or "" when none is open.
func (b *TopBar) DialogView() string {
	switch b.editor.Dialog() {
	case datetime.DialogDate:
		return b.date.View()
	case datetime.DialogTime:
		return b.clock.View()
	}
	return ""
}
