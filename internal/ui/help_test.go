package ui

import (
	"strings"
	"testing"

	"moodlog/internal/config"
)

func newTestHelp(keys *config.KeysConfig) *HelpOverlay {
	return NewHelpOverlay(createTestStyles(),
		NewGlobalKeyMap(keys), NewHomeKeyMap(keys), NewWriteKeyMap(keys), NewPickerKeyMap(keys))
}

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)

	help := newTestHelp(&config.KeysConfig{})
	help.SetSize(100, 60)
	output := help.View()

	sections := []string{"Global", "Journal", "Write", "Date & time"}
	for _, section := range sections {
		if !strings.Contains(output, section) {
			t.Errorf("Help overlay missing section: %s", section)
		}
	}

	shortcuts := []string{"ctrl+s", "ctrl+t", "ctrl+r", "ctrl+x", "ctrl+z / u", "new entry", "revert date"}
	for _, s := range shortcuts {
		if !strings.Contains(output, s) {
			t.Errorf("Help overlay missing %q", s)
		}
	}
}

func TestHelpOverlay_CustomKeys(t *testing.T) {
	setupTest(t)

	help := newTestHelp(&config.KeysConfig{Save: "ctrl+w", PickDate: "ctrl+p, f2"})
	help.SetSize(100, 60)
	output := help.View()

	if !strings.Contains(output, "ctrl+w") {
		t.Error("custom save key not shown")
	}
	if !strings.Contains(output, "ctrl+p / f2") {
		t.Error("custom date keys not shown")
	}
	if strings.Contains(output, "ctrl+s") {
		t.Error("default save key still shown")
	}
}

func TestHelpOverlay_FitsSmallTerminal(t *testing.T) {
	setupTest(t)

	help := newTestHelp(&config.KeysConfig{})
	help.SetSize(40, 60)
	for _, line := range strings.Split(help.View(), "\n") {
		if w := len([]rune(line)); w > 40 {
			t.Errorf("line wider than 40 (%d): %q", w, line)
		}
	}
}
