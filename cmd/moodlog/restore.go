package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"moodlog/internal/backup"
)

const restoreHelpText = `moodlog restore - Restore data from a backup

USAGE:
    moodlog restore [OPTIONS] [BACKUP_NAME]

OPTIONS:
    --latest       Restore from the most recent backup
    --force, -f    Skip confirmation prompt
    -h, --help     Show this help message

ARGUMENTS:
    BACKUP_NAME    Name of the backup to restore (e.g., 2026-03-01_143022_000)
                   Use 'moodlog backup --list' to see available backups.

DESCRIPTION:
    Restores your entries and images from a specific backup.
    A safety backup is automatically created before restoring.

EXAMPLES:
    # Restore from a specific backup
    moodlog restore 2026-03-01_143022_000

    # Restore from the most recent backup
    moodlog restore --latest

    # Restore without confirmation prompt
    moodlog restore --force 2026-03-01_143022_000
`

// runRestore handles the "moodlog restore" subcommand.
func runRestore(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)

	latestFlag := fs.Bool("latest", false, "restore from most recent backup")
	forceFlag := fs.Bool("force", false, "skip confirmation prompt")
	fs.BoolVar(forceFlag, "f", false, "skip confirmation prompt (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, restoreHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(restoreHelpText)
		os.Exit(0)
	}

	cfg := mustLoadConfig()
	manager := backup.NewManager(cfg.GetDataDir(), version)

	var backupName string
	switch {
	case *latestFlag:
		backups, err := manager.List()
		if err != nil {
			fatalf("listing backups: %v", err)
		}
		if len(backups) == 0 {
			fatalf("no backups available")
		}
		backupName = backups[0].Name
	case fs.NArg() > 0:
		backupName = fs.Arg(0)
	default:
		fmt.Fprintln(os.Stderr, "Use 'moodlog restore BACKUP_NAME' or 'moodlog restore --latest'")
		fmt.Fprintln(os.Stderr, "Run 'moodlog backup --list' to see available backups.")
		fatalf("no backup specified")
	}

	info, err := manager.GetBackup(backupName)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Restoring from backup: %s\n", info.Name)
	fmt.Printf("  Created: %s (%s)\n", info.CreatedAt.Format("2006-01-02 15:04:05"), info.Age())
	fmt.Printf("  Entries: %d, Images: %d\n", info.Stats["diaries"], info.Stats["images"])
	fmt.Println()

	if !*forceFlag {
		_, _ = warnColor.Println("⚠ This will overwrite your current journal.")
		fmt.Print("Continue? [y/N] ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			fatalf("reading input: %v", err)
		}

		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Restore canceled.")
			os.Exit(0)
		}
	}

	okf("Creating safety backup first...")
	if err := manager.Restore(backupName); err != nil {
		fatalf("restoring backup: %v", err)
	}

	okf("Restored successfully from %s", backupName)
}
