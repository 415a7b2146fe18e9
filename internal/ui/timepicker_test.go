package ui

import (
	"strings"
	"testing"

	"moodlog/internal/config"
	"moodlog/internal/datetime"
)

func newTestTimePicker(hour, minute int) *TimePicker {
	p := NewTimePicker(createTestStyles(), NewPickerKeyMap(&config.KeysConfig{}))
	p.Reset(datetime.Clock{Hour: hour, Minute: minute})
	return p
}

func TestTimePicker_Keys(t *testing.T) {
	tests := []struct {
		name       string
		hour, min  int
		keys       []string
		wantHour   int
		wantMinute int
	}{
		{"hour up", 9, 41, []string{"up"}, 10, 41},
		{"hour down", 9, 41, []string{"down", "down"}, 7, 41},
		{"hour wraps", 23, 0, []string{"up"}, 0, 0},
		{"minute field", 9, 41, []string{"tab", "up"}, 9, 42},
		{"minute wraps", 9, 0, []string{"right", "down"}, 9, 59},
		{"switch back", 9, 41, []string{"tab", "left", "up"}, 10, 41},
		{"typed time", 0, 0, []string{"1", "7", "0", "5"}, 17, 5},
		{"bad hour ignored", 8, 30, []string{"9", "9"}, 8, 30},
		{"bad minute ignored", 8, 30, []string{"tab", "7", "5"}, 8, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestTimePicker(tt.hour, tt.min)
			for _, k := range tt.keys {
				p.Update(keyMsg(k))
			}
			h, m := p.Selected()
			if h != tt.wantHour || m != tt.wantMinute {
				t.Errorf("Selected() = %02d:%02d, want %02d:%02d", h, m, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestTimePicker_ConfirmAndCancel(t *testing.T) {
	p := newTestTimePicker(20, 15)

	msg, ok := runCmd(p.Update(keyMsg("enter"))).(timeChosenMsg)
	if !ok {
		t.Fatal("enter did not produce timeChosenMsg")
	}
	if msg.hour != 20 || msg.minute != 15 {
		t.Errorf("chosen = %d:%d, want 20:15", msg.hour, msg.minute)
	}

	if _, ok := runCmd(p.Update(keyMsg("esc"))).(pickerDismissedMsg); !ok {
		t.Error("esc did not produce pickerDismissedMsg")
	}
}

func TestTimePicker_View(t *testing.T) {
	setupTest(t)
	p := newTestTimePicker(17, 5)
	view := p.View()
	for _, want := range []string{"Pick a time", "[17]", "05", "05:05 PM"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	p.Update(keyMsg("tab"))
	if !strings.Contains(p.View(), "[05]") {
		t.Error("minute field not highlighted after tab")
	}
}
