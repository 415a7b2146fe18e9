package main

import (
	"flag"
	"fmt"
	"os"

	"moodlog/internal/notify"
)

const remindHelpText = `moodlog remind - Remind yourself to write

USAGE:
    moodlog remind [OPTIONS]

OPTIONS:
    --sound        Play a sound with the notification
    -h, --help     Show this help message

DESCRIPTION:
    Shows a desktop notification if you have not written an entry today.
    Meant to be run from cron or a systemd timer, e.g. every evening:

        0 21 * * * moodlog remind

    Uses notify-send on Linux and osascript on macOS.
`

// runRemind handles the "moodlog remind" subcommand.
func runRemind(args []string) {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)

	soundFlag := fs.Bool("sound", false, "play a sound")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, remindHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(remindHelpText)
		os.Exit(0)
	}

	cfg := mustLoadConfig()
	store := mustOpenStorage(cfg)

	n := notify.New()
	if !n.IsSupported() {
		warnf("desktop notifications are not available on this system")
	}

	r := &notify.Reminder{
		Notifier: n,
		Store:    store,
		Sound:    *soundFlag || cfg.Remind.Sound,
	}
	sent, msg, err := r.Check()
	if err != nil {
		fatalf("sending reminder: %v", err)
	}
	if !sent {
		okf("Already wrote today.")
		return
	}
	fmt.Println(msg)
}
