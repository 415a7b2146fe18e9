//go:build linux

package notify

const platformTool = "notify-send"

func platformArgs(title, message string, sound bool) []string {
	args := []string{"--app-name=moodlog"}
	// Whether a sound plays is up to the notification daemon.
	if sound {
		args = append(args, "--urgency=normal")
	}
	return append(args, title, message)
}
