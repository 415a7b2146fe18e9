package ui

import (
	"fmt"
	"strings"
	"time"

	"moodlog/internal/datetime"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DatePicker is a modal month calendar. Arrow keys move by day and week,
// [ ] by month and { } by year. Enter sends dateChosenMsg, Esc
// pickerDismissedMsg.
type DatePicker struct {
	styles *Styles
	keys   PickerKeyMap
	cursor datetime.Date
	today  datetime.Date
}

// NewDatePicker creates a picker. Call Reset before showing it.
func NewDatePicker(styles *Styles, keys PickerKeyMap) *DatePicker {
	return &DatePicker{styles: styles, keys: keys}
}

// Reset moves the cursor to selected and marks today.
func (p *DatePicker) Reset(selected, today datetime.Date) {
	p.cursor = selected
	p.today = today
}

// Selected returns the date under the cursor.
func (p *DatePicker) Selected() datetime.Date {
	return p.cursor
}

// Update handles a key while the picker is open.
func (p *DatePicker) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Confirm):
		d := p.cursor
		return func() tea.Msg { return dateChosenMsg{date: d} }
	case key.Matches(msg, p.keys.Cancel):
		return func() tea.Msg { return pickerDismissedMsg{} }
	case key.Matches(msg, p.keys.Left):
		p.cursor = addDays(p.cursor, -1)
	case key.Matches(msg, p.keys.Right):
		p.cursor = addDays(p.cursor, 1)
	case key.Matches(msg, p.keys.Up):
		p.cursor = addDays(p.cursor, -7)
	case key.Matches(msg, p.keys.Down):
		p.cursor = addDays(p.cursor, 7)
	case key.Matches(msg, p.keys.PrevMonth):
		p.cursor = addMonths(p.cursor, -1)
	case key.Matches(msg, p.keys.NextMonth):
		p.cursor = addMonths(p.cursor, 1)
	case key.Matches(msg, p.keys.PrevYear):
		p.cursor = addMonths(p.cursor, -12)
	case key.Matches(msg, p.keys.NextYear):
		p.cursor = addMonths(p.cursor, 12)
	case key.Matches(msg, p.keys.Today):
		p.cursor = p.today
	}
	return nil
}

// View renders the calendar for the cursor's month.
func (p *DatePicker) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", p.cursor.Month, p.cursor.Year)
	b.WriteString(p.styles.DialogTitleStyle.Render("Pick a date"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(calendarWidth, lipgloss.Center, title))
	b.WriteString("\n")
	b.WriteString(p.styles.CalendarHeadStyle.Render(" Mo  Tu  We  Th  Fr  Sa  Su "))
	b.WriteString("\n")

	first := time.Date(p.cursor.Year, p.cursor.Month, 1, 12, 0, 0, 0, time.UTC)
	// Weeks start on Monday.
	lead := (int(first.Weekday()) + 6) % 7
	days := datetime.DaysIn(p.cursor.Year, p.cursor.Month)

	col := 0
	b.WriteString(strings.Repeat("    ", lead))
	col = lead
	for day := 1; day <= days; day++ {
		b.WriteString(p.renderDay(day))
		col++
		if col == 7 && day < days {
			b.WriteString("\n")
			col = 0
		}
	}

	b.WriteString("\n\n")
	b.WriteString(p.styles.RenderHelp("←→↑↓", "day", "[ ]", "month", "{ }", "year", "enter", "next", "esc", "cancel"))
	return p.styles.DialogStyle.Render(b.String())
}

const calendarWidth = 28

func (p *DatePicker) renderDay(day int) string {
	d := datetime.Date{Year: p.cursor.Year, Month: p.cursor.Month, Day: day}
	switch {
	case d == p.cursor:
		return p.styles.CalendarSelStyle.Render(fmt.Sprintf("[%2d]", day))
	case d == p.today:
		return " " + p.styles.CalendarTodayStyle.Render(fmt.Sprintf("%2d", day)) + " "
	default:
		return p.styles.CalendarDayStyle.Render(fmt.Sprintf(" %2d ", day))
	}
}

func addDays(d datetime.Date, n int) datetime.Date {
	t := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return clampDate(datetime.DateOf(t), d)
}

// addMonths moves by whole months and clamps the day, so Jan 31 + 1 month is
// the last day of February.
func addMonths(d datetime.Date, n int) datetime.Date {
	total := d.Year*12 + int(d.Month-1) + n
	year, month := total/12, time.Month(total%12+1)
	day := min(d.Day, datetime.DaysIn(year, month))
	return clampDate(datetime.Date{Year: year, Month: month, Day: day}, d)
}

// clampDate keeps the cursor inside the years the editor accepts.
func clampDate(next, prev datetime.Date) datetime.Date {
	if next.Validate() != nil {
		return prev
	}
	return next
}
