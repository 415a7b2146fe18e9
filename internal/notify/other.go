//go:build !darwin && !linux

package notify

const platformTool = ""

func platformArgs(string, string, bool) []string { return nil }
