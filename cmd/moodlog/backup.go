package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"moodlog/internal/backup"
)

const backupHelpText = `moodlog backup - Create and manage backups

USAGE:
    moodlog backup [OPTIONS]

OPTIONS:
    -l, --list       List available backups
    --prune N        Delete all but the N most recent backups
    -h, --help       Show this help message

DESCRIPTION:
    Creates a timestamped backup of your entries and attached images.
    Backups are stored in ~/.moodlog/backups/ and can be restored later.

EXAMPLES:
    # Create a new backup
    moodlog backup

    # List all available backups
    moodlog backup --list

    # Keep only the five most recent backups
    moodlog backup --prune 5
`

// runBackup handles the "moodlog backup" subcommand.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	listFlag := fs.Bool("list", false, "list available backups")
	fs.BoolVar(listFlag, "l", false, "list available backups (shorthand)")

	pruneFlag := fs.Int("prune", -1, "keep only the N most recent backups")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, backupHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(backupHelpText)
		os.Exit(0)
	}

	cfg := mustLoadConfig()
	manager := backup.NewManager(cfg.GetDataDir(), version)

	switch {
	case *listFlag:
		listBackups(manager)
	case *pruneFlag >= 0:
		removed, err := manager.Prune(*pruneFlag)
		if err != nil {
			fatalf("pruning backups: %v", err)
		}
		okf("Removed %d old backup(s)", removed)
	default:
		createBackup(manager)
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(manager *backup.Manager) {
	name, err := manager.Create()
	if err != nil {
		fatalf("creating backup: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		fatalf("reading backup info: %v", err)
	}

	okf("Backup created: %s", name)
	fmt.Printf("  Entries: %d, Images: %d, Size: %s\n",
		info.Stats["diaries"], info.Stats["images"], info.Size())
	fmt.Printf("  Location: %s\n", info.Path)
}

// listBackups lists all available backups.
func listBackups(manager *backup.Manager) {
	backups, err := manager.List()
	if err != nil {
		fatalf("listing backups: %v", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups available.")
		fmt.Println("Run 'moodlog backup' to create one.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("NAME"), bold.Sprint("AGE"), bold.Sprint("ENTRIES"), bold.Sprint("IMAGES"), bold.Sprint("SIZE"))
	for _, b := range backups {
		tbl.AddRow(b.Name, faint.Sprint(b.Age()), b.Stats["diaries"], b.Stats["images"], b.Size())
	}
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(color.Output, tbl)
}
