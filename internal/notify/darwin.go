//go:build darwin

package notify

import (
	"fmt"
	"strings"
)

const platformTool = "osascript"

func platformArgs(title, message string, sound bool) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(message), escapeAppleScript(title))
	if sound {
		script += ` sound name "default"`
	}
	return []string{"-e", script}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
