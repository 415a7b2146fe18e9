package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"moodlog/internal/datetime"
	"moodlog/internal/export"
	"moodlog/internal/storage"
)

const listHelpText = `moodlog list - Print journal entries

USAGE:
    moodlog list [OPTIONS]

OPTIONS:
    -w, --week     Only entries from this week
    -t, --today    Only entries from today
    -n N           Show at most N entries (default 20, 0 for all)
    --ids          Show entry IDs
    -h, --help     Show this help message

DESCRIPTION:
    Prints entries newest first, grouped by day.
`

// runList handles the "moodlog list" subcommand.
func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	weekFlag := fs.Bool("week", false, "only this week")
	fs.BoolVar(weekFlag, "w", false, "only this week (shorthand)")

	todayFlag := fs.Bool("today", false, "only today")
	fs.BoolVar(todayFlag, "t", false, "only today (shorthand)")

	limitFlag := fs.Int("n", 20, "maximum number of entries")
	idsFlag := fs.Bool("ids", false, "show entry IDs")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, listHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(listHelpText)
		os.Exit(0)
	}

	cfg := mustLoadConfig()
	store := mustOpenStorage(cfg)

	period := export.PeriodAll
	switch {
	case *todayFlag:
		period = export.PeriodDay
	case *weekFlag:
		period = export.PeriodWeek
	}

	report, err := export.NewGenerator(store).Generate(period, time.Now())
	if err != nil {
		fatalf("loading entries: %v", err)
	}

	if report.Total == 0 {
		_, _ = faint.Println("No entries yet. Run 'moodlog' to write one.")
		return
	}

	printDays(report.Days, *limitFlag, *idsFlag)

	if *limitFlag > 0 && report.Total > *limitFlag {
		_, _ = faint.Printf("… %d more\n", report.Total-*limitFlag)
	}
}

// printDays prints up to limit entries as one table per day.
func printDays(days []export.DayReport, limit int, showIDs bool) {
	title := color.New(color.Bold, color.Underline)
	idColor := color.New(color.FgHiYellow, color.Faint)

	shown := 0
	for _, day := range days {
		if limit > 0 && shown >= limit {
			return
		}
		_, _ = title.Fprintf(color.Output, "%s", dayHeading(day.Date))
		_, _ = faint.Fprintf(color.Output, " - %s\n", humanize.Time(day.Date))

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		for _, d := range day.Entries {
			if limit > 0 && shown >= limit {
				break
			}
			row := []any{
				datetime.FormatClock(datetime.ClockOf(d.Date.In(day.Date.Location()))),
				d.Mood.Icon() + " " + d.Mood.Name(),
				bold.Sprint(d.Title),
				faint.Sprint(summary(d)),
			}
			if showIDs {
				row = append([]any{idColor.Sprint(shortID(d.ID))}, row...)
			}
			tbl.AddRow(row...)
			shown++
		}
		_, _ = fmt.Fprintln(color.Output, tbl)
		fmt.Println()
	}
}

func dayHeading(day time.Time) string {
	return day.Format("Monday, 02 Jan 2006")
}

// summary is the first line of the description, cut to fit a table cell.
func summary(d storage.Diary) string {
	line := d.Description
	for i, r := range line {
		if r == '\n' {
			line = line[:i]
			break
		}
	}
	s := ansi.Truncate(line, 40, "…")
	if n := len(d.Images); n > 0 {
		s += fmt.Sprintf(" [%d img]", n)
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
