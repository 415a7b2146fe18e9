// Package notify sends desktop notifications and implements the daily
// writing reminder.
package notify

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize/english"

	"moodlog/internal/storage"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	Send(title, message string, sound bool) error
	IsSupported() bool
}

// commandNotifier runs the platform's notification tool.
type commandNotifier struct {
	tool  string
	build func(title, message string, sound bool) []string
}

func (n *commandNotifier) IsSupported() bool {
	if n.tool == "" {
		return false
	}
	_, err := exec.LookPath(n.tool)
	return err == nil
}

func (n *commandNotifier) Send(title, message string, sound bool) error {
	if n.tool == "" {
		return nil
	}
	if err := exec.Command(n.tool, n.build(title, message, sound)...).Run(); err != nil {
		return fmt.Errorf("%s failed: %w", n.tool, err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(string, string, bool) error { return nil }
func (noopNotifier) IsSupported() bool               { return false }

// New returns the platform notifier, or a no-op one when the platform tool
// is missing.
func New() Notifier {
	n := &commandNotifier{tool: platformTool, build: platformArgs}
	if !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Reminder nudges the writer when nothing has been logged today.
type Reminder struct {
	Notifier Notifier
	Store    *storage.Storage
	Sound    bool
	Now      func() time.Time
	Location *time.Location
}

// Check sends a reminder if today has no entries. It reports whether a
// notification was sent and the message used.
func (r *Reminder) Check() (bool, string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	store, err := r.Store.LoadDiaries()
	if err != nil {
		return false, "", err
	}

	today := now().In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	groups := storage.GroupByDay(store.Diaries, loc)
	if len(groups) > 0 && groups[0].Day.Equal(today) {
		return false, "", nil
	}

	msg := reminderMessage(Streak(groups, today.AddDate(0, 0, -1)))
	if err := r.Notifier.Send("moodlog", msg, r.Sound); err != nil {
		return false, msg, err
	}
	return true, msg, nil
}

// Streak counts consecutive days with at least one entry, ending at day.
// groups must be newest first, as returned by storage.GroupByDay.
func Streak(groups []storage.DayGroup, day time.Time) int {
	n := 0
	for _, g := range groups {
		if g.Day.After(day) {
			continue
		}
		if !g.Day.Equal(day) {
			break
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func reminderMessage(streak int) string {
	if streak == 0 {
		return "How are you feeling today? Take a minute to write it down."
	}
	return fmt.Sprintf("You've written %s in a row. Keep it going today.", english.Plural(streak, "day", "days"))
}
