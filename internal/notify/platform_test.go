//go:build linux

package notify

import (
	"reflect"
	"testing"
)

func TestPlatformArgs(t *testing.T) {
	got := platformArgs("moodlog", "Write something", true)
	want := []string{"--app-name=moodlog", "--urgency=normal", "moodlog", "Write something"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("platformArgs() = %v, want %v", got, want)
	}
}
