package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"moodlog/internal/config"
	"moodlog/internal/sync"
)

const syncHelpText = `moodlog sync - Git synchronization for your journal

USAGE:
    moodlog sync [OPTIONS]

OPTIONS:
    --setup        Interactive setup wizard
    --init         Initialize git repository in data directory
    --status       Show sync status
    --history      Show recent commits (use -n to change the count)
    --pull         Pull latest changes from remote
    --push         Push local changes to remote
    -h, --help     Show this help message

DESCRIPTION:
    Your entries and images can be committed to a git repository after every
    change, for backup and for sync across machines. Commit messages describe
    the change, e.g. "Add diary: Lake day".

CONFIGURATION:
    sync:
      enabled: false           # Enable/disable git sync
      auto_commit: true        # Commit after changes
      auto_push: false         # Push after commits
      pull_on_startup: false   # Pull when starting the app
      commit_message: "auto"   # "auto" or a fixed message
`

// runSync handles the "moodlog sync" subcommand.
func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	setupFlag := fs.Bool("setup", false, "interactive setup wizard")
	initFlag := fs.Bool("init", false, "initialize git repository")
	statusFlag := fs.Bool("status", false, "show sync status")
	historyFlag := fs.Bool("history", false, "show recent commits")
	countFlag := fs.Int("n", 10, "number of commits for --history")
	pullFlag := fs.Bool("pull", false, "pull latest changes")
	pushFlag := fs.Bool("push", false, "push local changes")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, syncHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(syncHelpText)
		os.Exit(0)
	}

	if !sync.IsGitInstalled() {
		fatalf("git is not installed. Please install git to use sync.")
	}

	cfg := mustLoadConfig()
	gs := sync.New(cfg.GetDataDir(), syncConfig(cfg))

	switch {
	case *setupFlag:
		runSyncSetup(gs, cfg)
	case *initFlag:
		runSyncInit(gs, cfg.GetDataDir())
	case *statusFlag:
		runSyncStatus(gs, cfg)
	case *historyFlag:
		runSyncHistory(gs, *countFlag)
	case *pullFlag:
		requireRepo(gs)
		fmt.Println("Pulling latest changes...")
		if err := gs.Pull(); err != nil {
			fatalf("%v", err)
		}
		okf("Pull complete.")
	case *pushFlag:
		requireRepo(gs)
		fmt.Println("Pushing local changes...")
		if err := gs.Push(); err != nil {
			fatalf("%v", err)
		}
		okf("Push complete.")
	default:
		runSyncDefault(gs)
	}
}

func requireRepo(gs *sync.GitSync) {
	if !gs.IsRepo() {
		fatalf("not a git repository. Run 'moodlog sync --init' first.")
	}
}

func runSyncInit(gs *sync.GitSync, dataDir string) {
	if gs.IsRepo() {
		fmt.Printf("Git repository already initialized in %s\n", dataDir)
		return
	}

	fmt.Printf("Initializing git repository in %s...\n", dataDir)
	if err := gs.Init(); err != nil {
		fatalf("%v", err)
	}

	okf("Repository initialized.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. cd %s && git remote add origin <your-repo-url>\n", dataDir)
	fmt.Printf("  2. Set sync.enabled: true in %s\n", config.Path())
}

func runSyncStatus(gs *sync.GitSync, cfg *config.Config) {
	status, err := gs.Status()
	if err != nil {
		fatalf("getting status: %v", err)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	row := func(k string, v any) { tbl.AddRow(bold.Sprint(k), v) }

	if cfg.Sync.Enabled {
		row("Sync", okColor.Sprint("enabled"))
	} else {
		row("Sync", faint.Sprint("disabled"))
	}
	row("Data dir", cfg.GetDataDir())

	if !status.IsRepo {
		row("Repository", warnColor.Sprint("not initialized"))
		_, _ = fmt.Fprintln(color.Output, tbl)
		fmt.Println()
		fmt.Println("Run 'moodlog sync --init' to initialize.")
		return
	}

	row("Repository", "initialized")
	row("Branch", status.Branch)
	if status.HasRemote {
		row("Remote", fmt.Sprintf("%s (%s)", status.RemoteName, status.RemoteURL))
		if status.Ahead > 0 || status.Behind > 0 {
			row("Status", warnColor.Sprintf("%d ahead, %d behind", status.Ahead, status.Behind))
		} else {
			row("Status", "up to date")
		}
	} else {
		row("Remote", faint.Sprint("not configured"))
	}
	if status.HasChanges {
		row("Changes", warnColor.Sprint("uncommitted changes present"))
	} else {
		row("Changes", "clean")
	}
	if status.LastCommitAt != nil {
		row("Last commit", humanize.Time(*status.LastCommitAt))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func runSyncHistory(gs *sync.GitSync, n int) {
	commits, err := gs.History(n)
	if err != nil {
		fatalf("%v", err)
	}
	if len(commits) == 0 {
		fmt.Println("No commits yet.")
		return
	}

	hash := color.New(color.FgHiYellow)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range commits {
		tbl.AddRow(hash.Sprint(c.Hash), faint.Sprint(humanize.Time(c.When)), c.Subject)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// runSyncDefault commits everything and pushes when a remote exists.
func runSyncDefault(gs *sync.GitSync) {
	requireRepo(gs)

	fmt.Println("Committing changes...")
	if err := gs.CommitAll(); err != nil {
		fatalf("committing: %v", err)
	}

	status, err := gs.Status()
	if err != nil {
		fatalf("getting status: %v", err)
	}

	if !status.HasRemote {
		okf("Changes committed locally.")
		_, _ = faint.Println("(No remote configured - add one with 'git remote add origin <url>')")
		return
	}

	fmt.Println("Pushing to remote...")
	if err := gs.Push(); err != nil {
		warnf("push failed: %v", err)
		fmt.Println("Changes committed locally.")
		return
	}
	okf("Sync complete.")
}

// runSyncSetup walks through init, remote and config options.
func runSyncSetup(gs *sync.GitSync, cfg *config.Config) {
	reader := bufio.NewReader(os.Stdin)
	ask := func(prompt string) string {
		fmt.Print(prompt)
		response, _ := reader.ReadString('\n')
		return strings.TrimSpace(response)
	}
	askBool := func(prompt string, def bool) bool {
		response := strings.ToLower(ask(fmt.Sprintf("%s [%s] ", prompt, yesNoDefault(def))))
		if response == "" {
			return def
		}
		return response == "y" || response == "yes"
	}

	fmt.Println()
	_, _ = bold.Println("Git Sync Setup")
	fmt.Printf("Data directory: %s\n\n", cfg.GetDataDir())

	if !gs.IsRepo() {
		if !askBool("Initialize git repository?", true) {
			fmt.Println("Setup canceled.")
			return
		}
		if err := gs.Init(); err != nil {
			fatalf("%v", err)
		}
		okf("Repository initialized")
	} else {
		okf("Repository already initialized")
	}

	status, err := gs.Status()
	if err != nil {
		fatalf("getting status: %v", err)
	}

	if status.HasRemote {
		okf("Remote configured: %s (%s)", status.RemoteName, status.RemoteURL)
	} else if askBool("Add a remote repository?", false) {
		remoteURL := ask("Remote URL (e.g., git@github.com:user/journal.git): ")
		switch {
		case remoteURL == "":
			fmt.Println("Skipped (no URL provided)")
		default:
			if err := gs.AddRemote("origin", remoteURL); err != nil {
				warnf("adding remote: %v", err)
			} else {
				okf("Remote 'origin' added")
			}
		}
	}
	fmt.Println()

	cfg.Sync.Enabled = true
	cfg.Sync.AutoCommit = askBool("Commit after each change?", cfg.Sync.AutoCommit)
	cfg.Sync.AutoPush = askBool("Push after each commit?", cfg.Sync.AutoPush)
	cfg.Sync.PullOnStartup = askBool("Pull when moodlog starts?", cfg.Sync.PullOnStartup)
	fmt.Println()

	if err := cfg.Save(); err != nil {
		warnf("could not save config: %v", err)
		fmt.Printf("\nAdd this to %s:\n\n", config.Path())
		fmt.Println("sync:")
		fmt.Println("  enabled: true")
		fmt.Printf("  auto_commit: %v\n", cfg.Sync.AutoCommit)
		fmt.Printf("  auto_push: %v\n", cfg.Sync.AutoPush)
		fmt.Printf("  pull_on_startup: %v\n", cfg.Sync.PullOnStartup)
		return
	}
	okf("Configuration saved. Git sync is now enabled.")
}

func yesNoDefault(defaultYes bool) string {
	if defaultYes {
		return "Y/n"
	}
	return "y/N"
}
