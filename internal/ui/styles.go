package ui

import (
	"moodlog/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	// Home list
	DayHeaderStyle     lipgloss.Style
	EntryStyle         lipgloss.Style
	EntrySelectedStyle lipgloss.Style
	EntryTimeStyle     lipgloss.Style

	// Write screen
	TopBarStyle     lipgloss.Style
	MoodNameStyle   lipgloss.Style
	ActionStyle     lipgloss.Style
	FieldLabelStyle lipgloss.Style
	FieldFocusStyle lipgloss.Style
	MoodPagerStyle  lipgloss.Style
	ThumbStyle      lipgloss.Style
	ThumbSelected   lipgloss.Style

	// Pickers
	DialogStyle        lipgloss.Style
	DialogTitleStyle   lipgloss.Style
	CalendarHeadStyle  lipgloss.Style
	CalendarDayStyle   lipgloss.Style
	CalendarSelStyle   lipgloss.Style
	CalendarTodayStyle lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	// Sync status styles
	SyncSyncedStyle   lipgloss.Style
	SyncPendingStyle  lipgloss.Style
	SyncAheadStyle    lipgloss.Style
	SyncBehindStyle   lipgloss.Style
	SyncDisabledStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates Styles from a ThemeConfig. Empty colors fall
// back to the built-in palette.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#F59E0B")
	s.ColorSecondary = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")
	s.ColorDanger = colorOrDefault(theme.Danger, "#EF4444")

	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")
	s.ColorAccent = colorOrDefault(theme.Accent, "#3B82F6")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()
	return s
}

func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorBg).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary).
		MarginBottom(1)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.EntryStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.EntrySelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.EntryTimeStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.TopBarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(s.ColorMuted)

	s.MoodNameStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText)

	s.ActionStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary)

	s.FieldLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.FieldFocusStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.MoodPagerStyle = lipgloss.NewStyle().
		Foreground(s.ColorSecondary)

	s.ThumbStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.ThumbSelected = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.DialogStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 2)

	s.DialogTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.CalendarHeadStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.CalendarDayStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.CalendarSelStyle = lipgloss.NewStyle().
		Foreground(s.ColorBg).
		Background(s.ColorPrimary).
		Bold(true)

	s.CalendarTodayStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Underline(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.SyncSyncedStyle = lipgloss.NewStyle().Foreground(s.ColorSuccess)
	s.SyncPendingStyle = lipgloss.NewStyle().Foreground(s.ColorWarning)
	s.SyncAheadStyle = lipgloss.NewStyle().Foreground(s.ColorAccent)
	s.SyncBehindStyle = lipgloss.NewStyle().Foreground(s.ColorWarning).Bold(true)
	s.SyncDisabledStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)
}

// RenderHelp renders "[key] desc" pairs.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
