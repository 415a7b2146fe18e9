package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moodlog/internal/export"
	"moodlog/internal/fsutil"
)

const exportHelpText = `moodlog export - Export journal entries

USAGE:
    moodlog export [OPTIONS] [DATE]

OPTIONS:
    -d, --day          Export one day (default)
    -w, --week         Export the Monday-to-Sunday week containing DATE
    -a, --all          Export every entry
    -f, --format FMT   Output format: markdown (default) or json
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

ARGUMENTS:
    DATE               Date to export (YYYY-MM-DD). Defaults to today.

DESCRIPTION:
    Exports entries grouped by day with a summary of logged moods.
    Output is Markdown (human-readable) or JSON (machine-readable).

EXAMPLES:
    # Today's entries in Markdown
    moodlog export

    # A specific day
    moodlog export 2026-03-01

    # This week as JSON, saved to a file
    moodlog export --week --format json --output week.json
`

// runExport handles the "moodlog export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	dayFlag := fs.Bool("day", false, "export one day")
	fs.BoolVar(dayFlag, "d", false, "export one day (shorthand)")

	weekFlag := fs.Bool("week", false, "export one week")
	fs.BoolVar(weekFlag, "w", false, "export one week (shorthand)")

	allFlag := fs.Bool("all", false, "export every entry")
	fs.BoolVar(allFlag, "a", false, "export every entry (shorthand)")

	formatFlag := fs.String("format", "markdown", "output format: markdown or json")
	fs.StringVar(formatFlag, "f", "markdown", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	format := *formatFlag
	switch format {
	case "markdown", "md":
		format = "markdown"
	case "json":
	default:
		fatalf("invalid format %q. Use 'markdown' or 'json'.", format)
	}

	period := export.PeriodDay
	switch {
	case *allFlag:
		period = export.PeriodAll
	case *weekFlag:
		period = export.PeriodWeek
	}

	date := time.Now()
	if fs.NArg() > 0 {
		parsed, err := time.ParseInLocation("2006-01-02", fs.Arg(0), time.Local)
		if err != nil {
			fatalf("invalid date %q. Use YYYY-MM-DD format.", fs.Arg(0))
		}
		date = parsed
	}

	cfg := mustLoadConfig()
	store := mustOpenStorage(cfg)

	report, err := export.NewGenerator(store).Generate(period, date)
	if err != nil {
		fatalf("generating %s export: %v", period, err)
	}

	var output []byte
	if format == "json" {
		output, err = export.FormatJSON(report)
		if err != nil {
			fatalf("formatting JSON: %v", err)
		}
		output = append(output, '\n')
	} else {
		output = []byte(export.FormatMarkdown(report))
	}

	if *outputFlag == "" {
		_, _ = os.Stdout.Write(output)
		return
	}

	if dir := filepath.Dir(*outputFlag); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			fatalf("creating output directory: %v", err)
		}
	}
	if err := fsutil.WriteFileAtomic(*outputFlag, output, 0600); err != nil {
		fatalf("writing to file: %v", err)
	}
	okf("Export written to %s", *outputFlag)
}
