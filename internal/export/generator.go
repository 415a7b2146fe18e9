package export

import (
	"math"
	"sort"
	"time"

	"moodlog/internal/storage"
)

// Generator creates reports from storage data.
type Generator struct {
	store *storage.Storage
	now   func() time.Time
	loc   *time.Location
}

// NewGenerator creates a report generator using the local time zone.
func NewGenerator(store *storage.Storage) *Generator {
	return &Generator{store: store, now: time.Now, loc: time.Local}
}

// SetClock overrides the clock and zone used for GeneratedAt and day
// boundaries.
func (g *Generator) SetClock(now func() time.Time, loc *time.Location) {
	if now != nil {
		g.now = now
	}
	if loc != nil {
		g.loc = loc
	}
}

// Generate dispatches on period. date is ignored for PeriodAll.
func (g *Generator) Generate(period Period, date time.Time) (*Report, error) {
	switch period {
	case PeriodWeek:
		return g.GenerateWeekly(date)
	case PeriodAll:
		return g.GenerateAll()
	default:
		return g.GenerateDaily(date)
	}
}

// GenerateDaily reports the calendar day containing date.
func (g *Generator) GenerateDaily(date time.Time) (*Report, error) {
	start := g.startOfDay(date)
	return g.between(PeriodDay, start, start.AddDate(0, 0, 1))
}

// GenerateWeekly reports the Monday-to-Sunday week containing date.
func (g *Generator) GenerateWeekly(date time.Time) (*Report, error) {
	start := g.startOfWeek(date)
	return g.between(PeriodWeek, start, start.AddDate(0, 0, 7))
}

// GenerateAll reports every entry in the journal.
func (g *Generator) GenerateAll() (*Report, error) {
	ds, err := g.store.LoadDiaries()
	if err != nil {
		return nil, err
	}
	return g.build(PeriodAll, nil, nil, ds.Diaries), nil
}

func (g *Generator) between(p Period, start, end time.Time) (*Report, error) {
	diaries, err := g.store.DiariesBetween(start, end)
	if err != nil {
		return nil, err
	}
	last := end.Add(-time.Nanosecond)
	return g.build(p, &start, &last, diaries), nil
}

func (g *Generator) build(p Period, start, end *time.Time, diaries []storage.Diary) *Report {
	r := &Report{
		Period:      p,
		Start:       start,
		End:         end,
		Total:       len(diaries),
		Moods:       moodCounts(diaries),
		Days:        []DayReport{},
		GeneratedAt: g.now(),
	}
	for _, grp := range storage.GroupByDay(diaries, g.loc) {
		r.Days = append(r.Days, DayReport{Date: grp.Day, Entries: grp.Diaries})
	}
	return r
}

// moodCounts returns the logged moods, most frequent first. Ties keep the
// pager order.
func moodCounts(diaries []storage.Diary) []MoodCount {
	counts := make(map[storage.Mood]int)
	for _, d := range diaries {
		counts[d.Mood]++
	}
	out := make([]MoodCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MoodCount{Mood: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mood.Index() < out[j].Mood.Index()
	})
	return out
}

// Percent is c's share of total, rounded to a whole percent.
func (c MoodCount) Percent(total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Count) * 100 / float64(total)))
}

func (g *Generator) startOfDay(t time.Time) time.Time {
	t = t.In(g.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, g.loc)
}

func (g *Generator) startOfWeek(t time.Time) time.Time {
	day := g.startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
