package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"moodlog/internal/datetime"
)

// FormatJSON formats a report as indented JSON.
func FormatJSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FormatMarkdown formats a report as a Markdown document.
func FormatMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# " + heading(r) + "\n\n")
	b.WriteString(english.Plural(r.Total, "entry", "entries") + "\n")

	if r.Total == 0 {
		b.WriteString("\n_No entries._\n")
		return b.String()
	}

	b.WriteString("\n## Moods\n\n")
	for _, mc := range r.Moods {
		fmt.Fprintf(&b, "- %s %s: %d (%d%%)\n", mc.Mood.Icon(), mc.Mood.Name(), mc.Count, mc.Percent(r.Total))
	}

	for _, day := range r.Days {
		fmt.Fprintf(&b, "\n## %s\n", day.Date.Format("Monday, 02 Jan 2006"))
		for _, d := range day.Entries {
			fmt.Fprintf(&b, "\n### %s %s\n\n", d.Mood.Icon(), d.Title)
			fmt.Fprintf(&b, "_%s · %s_\n\n", datetime.FormatClock(datetime.ClockOf(d.Date.In(day.Date.Location()))), d.Mood.Name())
			b.WriteString(strings.TrimSpace(d.Description) + "\n")
			if len(d.Images) > 0 {
				b.WriteString("\n")
				for _, img := range d.Images {
					fmt.Fprintf(&b, "- `%s`\n", img)
				}
			}
		}
	}
	return b.String()
}

func heading(r *Report) string {
	switch {
	case r.Period == PeriodDay && r.Start != nil:
		return "Journal: " + r.Start.Format("Monday, 02 Jan 2006")
	case r.Period == PeriodWeek && r.Start != nil && r.End != nil:
		return fmt.Sprintf("Journal: week of %s - %s", r.Start.Format("02 Jan"), r.End.Format("02 Jan 2006"))
	default:
		return "Journal"
	}
}
