package storage

import (
	"strings"
	"time"
)

// Mood is how the writer felt about an entry.
type Mood string

const (
	MoodNeutral      Mood = "neutral"
	MoodHappy        Mood = "happy"
	MoodAngry        Mood = "angry"
	MoodBored        Mood = "bored"
	MoodCalm         Mood = "calm"
	MoodDepressed    Mood = "depressed"
	MoodDisappointed Mood = "disappointed"
	MoodHumorous     Mood = "humorous"
	MoodLonely       Mood = "lonely"
	MoodMysterious   Mood = "mysterious"
	MoodRomantic     Mood = "romantic"
	MoodShameful     Mood = "shameful"
	MoodAwful        Mood = "awful"
	MoodSurprised    Mood = "surprised"
	MoodSuspicious   Mood = "suspicious"
	MoodTense        Mood = "tense"
)

// Moods lists every mood in pager order.
var Moods = []Mood{
	MoodNeutral, MoodHappy, MoodAngry, MoodBored, MoodCalm, MoodDepressed,
	MoodDisappointed, MoodHumorous, MoodLonely, MoodMysterious, MoodRomantic,
	MoodShameful, MoodAwful, MoodSurprised, MoodSuspicious, MoodTense,
}

var moodIcons = map[Mood]string{
	MoodNeutral:      "😐",
	MoodHappy:        "😊",
	MoodAngry:        "😠",
	MoodBored:        "🥱",
	MoodCalm:         "😌",
	MoodDepressed:    "😞",
	MoodDisappointed: "😕",
	MoodHumorous:     "😂",
	MoodLonely:       "🥺",
	MoodMysterious:   "🤔",
	MoodRomantic:     "😍",
	MoodShameful:     "😳",
	MoodAwful:        "😫",
	MoodSurprised:    "😮",
	MoodSuspicious:   "🤨",
	MoodTense:        "😬",
}

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	_, ok := moodIcons[m]
	return ok
}

// Name returns the display name, e.g. "Happy".
func (m Mood) Name() string {
	if m == "" {
		return "Neutral"
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Icon returns the emoji shown in the mood pager.
func (m Mood) Icon() string {
	if icon, ok := moodIcons[m]; ok {
		return icon
	}
	return moodIcons[MoodNeutral]
}

// Index returns the position of m in Moods, or 0 if unknown.
func (m Mood) Index() int {
	for i, mood := range Moods {
		if mood == m {
			return i
		}
	}
	return 0
}

// Diary is a single journal entry.
type Diary struct {
	ID          string    `json:"id"`
	Mood        Mood      `json:"mood"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images,omitempty"` // paths relative to the data dir
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// DiaryStore holds all entries.
type DiaryStore struct {
	Diaries []Diary `json:"diaries"`
}

// DayGroup is a set of entries written on the same local day.
type DayGroup struct {
	Day     time.Time // midnight, local time
	Diaries []Diary
}
