package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"moodlog/internal/datetime"
	"moodlog/internal/importer"
)

const importHelpText = `moodlog import - Import entries from a file

USAGE:
    moodlog import [OPTIONS] FORMAT FILE

FORMATS:
    moodlog    diaries.json, or "moodlog export --format json" output
    jrnl       Output of "jrnl --export json"

OPTIONS:
    --preview      Show what would be imported without importing
    -h, --help     Show this help message

DESCRIPTION:
    Entries that already exist (same ID) are skipped. Use "-" as FILE to
    read from stdin. A jrnl tag naming a mood, such as @happy, sets the
    entry's mood.

EXAMPLES:
    moodlog import moodlog ~/old-laptop/.moodlog/diaries.json
    jrnl --export json | moodlog import jrnl -
`

// runImport handles the "moodlog import" subcommand.
func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	previewFlag := fs.Bool("preview", false, "preview without importing")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, importHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(importHelpText)
		os.Exit(0)
	}

	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}

	imp := importer.GetImporter(fs.Arg(0))
	if imp == nil {
		fatalf("unknown format %q. Supported: %s", fs.Arg(0), strings.Join(importer.SupportedFormats(), ", "))
	}

	var in io.Reader = os.Stdin
	if path := fs.Arg(1); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fatalf("opening file: %v", err)
		}
		defer f.Close()
		in = f
	}

	if *previewFlag {
		entries, err := imp.Preview(in)
		if err != nil {
			fatalf("parsing %s input: %v", imp.Name(), err)
		}
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 50
		for _, d := range entries {
			tbl.AddRow(faint.Sprint(datetime.FormatLabel(d.Date, nil)), d.Mood.Icon(), d.Title)
		}
		_, _ = fmt.Fprintln(color.Output, tbl)
		fmt.Printf("\n%d entries would be imported.\n", len(entries))
		return
	}

	cfg := mustLoadConfig()
	store := mustOpenStorage(cfg)

	result, err := imp.Import(in, store)
	if err != nil {
		fatalf("importing: %v", err)
	}

	okf("Imported %d entries (%d skipped)", result.Imported, result.Skipped)
	for _, w := range result.Warnings {
		warnf("%s", w)
	}
	for _, e := range result.Errors {
		_, _ = errColor.Fprint(os.Stderr, "  ✗ ")
		fmt.Fprintln(os.Stderr, e)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
