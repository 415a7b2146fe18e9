package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"moodlog/internal/storage"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached per style and wrap width. WithAutoStyle queries
	// the terminal, so a fixed style is resolved up front instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// resolveGlamourStyle maps "auto" or "" to dark or light from lipgloss's
// background detection.
func resolveGlamourStyle(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	default:
		return strings.ToLower(strings.TrimSpace(style))
	}
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func renderMarkdown(md, style string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)

	cacheKey := fmt.Sprintf("%s:%d", style, width)
	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()

	r := mdRenderers[cacheKey]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[cacheKey] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// diaryMarkdown is the preview document for one entry.
func diaryMarkdown(d storage.Diary, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", d.Mood.Icon(), d.Title)
	fmt.Fprintf(&b, "*%s · %s*\n\n", d.Mood.Name(), d.Date.In(loc).Format("Monday, 02 Jan 2006 03:04 PM"))
	b.WriteString(d.Description)
	b.WriteString("\n")
	if len(d.Images) > 0 {
		b.WriteString("\n---\n\n")
		for _, img := range d.Images {
			fmt.Fprintf(&b, "- `%s`\n", img)
		}
	}
	return b.String()
}
