// Package main is the entry point for the moodlog application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"moodlog/internal/config"
	"moodlog/internal/storage"
	"moodlog/internal/sync"
	"moodlog/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `moodlog - A mood journal for your terminal

USAGE:
    moodlog [OPTIONS]
    moodlog <command> [ARGS]

COMMANDS:
    list             Print journal entries as a table
    list --week      Only this week's entries
    backup           Create a backup of all data
    backup --list    List available backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    export           Export today's entries (Markdown)
    export --week    Export this week's entries
    export --all     Export the whole journal
    export -f json   Output the export as JSON
    sync             Sync data with git (commit + push)
    sync --init      Initialize git repo in data directory
    sync --status    Show git sync status
    sync --history   Show recent sync commits
    import FMT FILE  Import entries (moodlog or jrnl JSON)
    remind           Notify if nothing was written today

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    moodlog is a keyboard-driven journal. Each entry has a mood, a title,
    a description, optional images and a date you can change after writing.

KEYBINDINGS:
    Journal:
        j/k, ↓/↑     Navigate entries
        n            New entry
        Enter        Open entry
        x            Delete entry
        u, Ctrl+Z    Undo
        Ctrl+Y       Redo
        ?            Show help overlay
        Ctrl+C       Quit

    Write:
        Ctrl+S       Save
        Esc          Back without saving
        Ctrl+T       Pick date and time
        Ctrl+R       Revert date to now
        Ctrl+←/→     Previous/next mood
        Ctrl+O       Attach image
        Ctrl+X       Delete entry

DATA STORAGE:
    All data is stored in ~/.moodlog/:
        diaries.json - Your entries
        images/      - Attached images and thumbnails

CONFIGURATION:
    Optional config file: ~/.config/moodlog/config.yaml

EXAMPLES:
    # Start the app
    moodlog

    # Export this week as JSON
    moodlog export --week --format json

    # Restore from the latest backup
    moodlog restore --latest
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list", "ls":
			runList(os.Args[2:])
			return
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "sync":
			runSync(os.Args[2:])
			return
		case "import":
			runImport(os.Args[2:])
			return
		case "remind":
			runRemind(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("moodlog version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	store := mustOpenStorage(cfg)

	var gitSync *sync.GitSync
	if cfg.Sync.Enabled && sync.IsGitInstalled() {
		gitSync = sync.New(cfg.GetDataDir(), syncConfig(cfg))

		if cfg.Sync.PullOnStartup && gitSync.IsRepo() {
			if err := gitSync.Pull(); err != nil {
				// Local data is still valid.
				warnf("sync pull failed: %v", err)
			}
		}

		if cfg.Sync.AutoCommit && gitSync.IsRepo() {
			store.SetOnSaveWithContext(gitSync.OnFileSavedWithContext)
		}
	}

	styles := ui.NewStylesFromTheme(&cfg.Theme)

	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		GlamourStyle:          cfg.UX.GlamourStyle,
		MaxImages:             cfg.Gallery.MaxImages,
		ThumbnailSize:         cfg.Gallery.ThumbnailSize,
	}

	if err := ui.RunWithSync(store, styles, appCfg, gitSync); err != nil {
		fatalf("running app: %v", err)
	}

	// Flush any pending git commits before exit
	if gitSync != nil {
		gitSync.Flush()
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}
	return cfg
}

func mustOpenStorage(cfg *config.Config) *storage.Storage {
	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fatalf("initializing storage: %v", err)
	}
	return store
}

func syncConfig(cfg *config.Config) *sync.Config {
	return &sync.Config{
		Enabled:       cfg.Sync.Enabled,
		AutoCommit:    cfg.Sync.AutoCommit,
		AutoPush:      cfg.Sync.AutoPush,
		PullOnStartup: cfg.Sync.PullOnStartup,
		CommitMessage: cfg.Sync.CommitMessage,
	}
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	faint     = color.New(color.Faint)
	bold      = color.New(color.Bold)
)

func okf(format string, args ...any) {
	_, _ = okColor.Fprint(color.Output, "✓ ")
	_, _ = fmt.Fprintf(color.Output, format+"\n", args...)
}

func warnf(format string, args ...any) {
	_, _ = warnColor.Fprint(os.Stderr, "Warning: ")
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func fatalf(format string, args ...any) {
	_, _ = errColor.Fprint(os.Stderr, "Error: ")
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
