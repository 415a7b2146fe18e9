package ui

import (
	"fmt"
	"strings"
	"time"

	"moodlog/internal/datetime"
	"moodlog/internal/gallery"
	"moodlog/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// writeField identifies the focused input on the write screen.
type writeField int

const (
	focusMood writeField = iota
	focusTitle
	focusDescription
	focusImage
	writeFieldCount
)

// WriteScreen edits one entry: mood, title, description and images, with
// the date handled by its TopBar.
type WriteScreen struct {
	styles   *Styles
	keys     WriteKeyMap
	uploader *gallery.Uploader
	now      func() time.Time

	topBar *TopBar
	diary  *storage.Diary // nil for a new entry

	mood        int
	title       textinput.Model
	description textarea.Model
	imagePath   textinput.Model
	images      *gallery.State
	thumb       int
	focus       writeField

	// chosen is the last timestamp the top bar emitted.
	chosen *time.Time
	// added are images uploaded in this session; removed are stored images
	// dropped from the entry. Both are settled on save or back.
	added   []string
	removed []string

	width  int
	height int
}

// WriteOptions configures a WriteScreen.
type WriteOptions struct {
	Diary    *storage.Diary
	Uploader *gallery.Uploader
	Now      func() time.Time
	Location *time.Location
}

// NewWriteScreen opens the editor on opts.Diary, or on a blank entry.
func NewWriteScreen(styles *Styles, keys WriteKeyMap, pickerKeys PickerKeyMap, opts WriteOptions) *WriteScreen {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Prompt = ""

	desc := textarea.New()
	desc.Placeholder = "Tell me about it"
	desc.ShowLineNumbers = false
	desc.CharLimit = 20000
	desc.SetHeight(8)

	path := textinput.New()
	path.Placeholder = "path/to/image.png"
	path.Prompt = ""

	w := &WriteScreen{
		styles:      styles,
		keys:        keys,
		uploader:    opts.Uploader,
		now:         now,
		diary:       opts.Diary,
		title:       title,
		description: desc,
		imagePath:   path,
		images:      &gallery.State{},
	}

	var persisted *time.Time
	if d := opts.Diary; d != nil {
		date := d.Date
		persisted = &date
		w.mood = d.Mood.Index()
		w.title.SetValue(d.Title)
		w.description.SetValue(d.Description)
		if opts.Uploader != nil {
			w.images = opts.Uploader.Load(d.Images)
		}
	}

	w.topBar = NewTopBar(styles, keys, pickerKeys, TopBarOptions{
		Persisted:         persisted,
		Existing:          opts.Diary != nil,
		OnUpdatedDateTime: w.setChosen,
		Now:               now,
		Location:          opts.Location,
	})
	w.setFocus(focusTitle)
	return w
}

func (w *WriteScreen) setChosen(t time.Time) {
	w.chosen = &t
}

// TopBar returns the header model.
func (w *WriteScreen) TopBar() *TopBar {
	return w.topBar
}

// Diary returns the entry being edited, nil for a new one.
func (w *WriteScreen) Diary() *storage.Diary {
	return w.diary
}

// Mood returns the mood shown by the pager.
func (w *WriteScreen) Mood() storage.Mood {
	return storage.Moods[w.mood]
}

// Images returns the attached images in order.
func (w *WriteScreen) Images() []gallery.Image {
	return w.images.Images
}

// AddedImages are uploads that are not yet part of a saved entry.
func (w *WriteScreen) AddedImages() []string {
	return w.added
}

// RemovedImages are stored images to delete once the entry is saved.
func (w *WriteScreen) RemovedImages() []string {
	return w.removed
}

// SetSize resizes the inputs.
func (w *WriteScreen) SetSize(width, height int) {
	w.width, w.height = width, height
	inner := max(width-4, 10)
	w.title.Width = inner
	w.imagePath.Width = inner
	w.description.SetWidth(inner)
	// top bar, mood, title, labels, gallery and help take roughly 14 rows.
	w.description.SetHeight(max(height-14, 3))
}

// EntryDate is the timestamp a save would store: the user's pick, else the
// persisted date, else now.
func (w *WriteScreen) EntryDate() time.Time {
	if w.chosen != nil {
		return *w.chosen
	}
	if p := w.topBar.Editor().Persisted(); p != nil {
		return *p
	}
	return w.now()
}

// BuildDiary assembles the entry to save. Title and description are both
// required.
func (w *WriteScreen) BuildDiary() (storage.Diary, error) {
	title := strings.TrimSpace(w.title.Value())
	desc := strings.TrimSpace(w.description.Value())
	if title == "" || desc == "" {
		return storage.Diary{}, storage.ErrEmptyFields
	}

	d := storage.Diary{
		Mood:        w.Mood(),
		Title:       title,
		Description: desc,
		Images:      w.images.RemotePaths(),
		Date:        w.EntryDate(),
	}
	if w.diary != nil {
		d.ID = w.diary.ID
		d.CreatedAt = w.diary.CreatedAt
	}
	return d, nil
}

func (w *WriteScreen) setFocus(f writeField) {
	w.focus = f
	w.title.Blur()
	w.description.Blur()
	w.imagePath.Blur()
	switch f {
	case focusTitle:
		w.title.Focus()
	case focusDescription:
		w.description.Focus()
	case focusImage:
		w.imagePath.Focus()
	}
}

func (w *WriteScreen) shiftMood(delta int) {
	n := len(storage.Moods)
	w.mood = (w.mood + delta + n) % n
}

// pickerResult reports a rejected pick. An out-of-range value keeps the
// picker open in its prior state; anything else closes it.
func (w *WriteScreen) pickerResult(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if !datetime.IsValidationError(err) {
		w.topBar.Dismiss()
	}
	return statusCmd(err.Error(), true)
}

// Update handles picker results, uploads and keys. The app intercepts save,
// back and delete before calling it.
func (w *WriteScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dateChosenMsg:
		// A result for a picker that has since closed is stale.
		if w.topBar.Editor().Dialog() != datetime.DialogDate {
			return nil
		}
		return w.pickerResult(w.topBar.HandleDateChosen(msg.date))
	case timeChosenMsg:
		if w.topBar.Editor().Dialog() != datetime.DialogTime {
			return nil
		}
		return w.pickerResult(w.topBar.HandleTimeChosen(msg.hour, msg.minute))
	case pickerDismissedMsg:
		w.topBar.Dismiss()
		return nil
	case imageUploadedMsg:
		if msg.err != nil {
			return statusCmd("Image: "+msg.err.Error(), true)
		}
		w.images.Add(msg.image)
		w.added = append(w.added, msg.image.RemotePath)
		w.thumb = w.images.Len() - 1
		w.imagePath.SetValue("")
		return statusCmd("Attached "+msg.image.Name(), false)
	case tea.KeyMsg:
		return w.handleKey(msg)
	}
	return nil
}

func (w *WriteScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if w.topBar.DialogOpen() {
		return w.topBar.Update(msg)
	}

	switch {
	case key.Matches(msg, w.keys.PickDate):
		w.topBar.OpenDatePicker()
		return nil
	case key.Matches(msg, w.keys.RevertDate):
		if w.topBar.Revert() {
			return statusCmd("Date reset to now", false)
		}
		return nil
	case key.Matches(msg, w.keys.NextField):
		w.setFocus((w.focus + 1) % writeFieldCount)
		return nil
	case key.Matches(msg, w.keys.PrevField):
		w.setFocus((w.focus + writeFieldCount - 1) % writeFieldCount)
		return nil
	case key.Matches(msg, w.keys.PrevMood):
		w.shiftMood(-1)
		return nil
	case key.Matches(msg, w.keys.NextMood):
		w.shiftMood(1)
		return nil
	case key.Matches(msg, w.keys.AddImage):
		return w.addImage()
	}

	switch w.focus {
	case focusMood:
		switch msg.String() {
		case "left", "h":
			w.shiftMood(-1)
		case "right", "l":
			w.shiftMood(1)
		case "enter", "down":
			w.setFocus(focusTitle)
		}
		return nil
	case focusTitle:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyDown {
			w.setFocus(focusDescription)
			return nil
		}
		if msg.Type == tea.KeyUp {
			w.setFocus(focusMood)
			return nil
		}
		var cmd tea.Cmd
		w.title, cmd = w.title.Update(msg)
		return cmd
	case focusDescription:
		var cmd tea.Cmd
		w.description, cmd = w.description.Update(msg)
		return cmd
	case focusImage:
		switch {
		case msg.Type == tea.KeyEnter:
			return w.addImage()
		case key.Matches(msg, w.keys.RemoveImage):
			return w.removeSelected()
		case msg.Type == tea.KeyUp:
			if w.thumb > 0 {
				w.thumb--
			}
			return nil
		case msg.Type == tea.KeyDown:
			if w.thumb < w.images.Len()-1 {
				w.thumb++
			}
			return nil
		}
		var cmd tea.Cmd
		w.imagePath, cmd = w.imagePath.Update(msg)
		return cmd
	}
	return nil
}

func (w *WriteScreen) addImage() tea.Cmd {
	path := strings.TrimSpace(w.imagePath.Value())
	if path == "" || w.uploader == nil {
		w.setFocus(focusImage)
		return nil
	}
	if w.images.Len() >= w.uploader.MaxImages() {
		return statusCmd(fmt.Sprintf("At most %d images per entry", w.uploader.MaxImages()), true)
	}
	return uploadImageCmd(w.uploader, w.images.Images, path)
}

// removeSelected detaches the highlighted image. Session uploads are deleted
// right away; stored ones are deleted on save.
func (w *WriteScreen) removeSelected() tea.Cmd {
	if w.thumb < 0 || w.thumb >= w.images.Len() {
		return nil
	}
	remote := w.images.Images[w.thumb].RemotePath
	w.images.Remove(remote)
	if w.thumb >= w.images.Len() {
		w.thumb = max(w.images.Len()-1, 0)
	}
	if i := indexOf(w.added, remote); i >= 0 {
		w.added = append(w.added[:i], w.added[i+1:]...)
		return deleteImagesCmd(w.uploader, []string{remote})
	}
	w.removed = append(w.removed, remote)
	return nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// View renders the editor. An open picker replaces the body.
func (w *WriteScreen) View() string {
	var b strings.Builder
	b.WriteString(w.topBar.View(w.Mood().Name(), w.width))
	b.WriteString("\n")

	if dialog := w.topBar.DialogView(); dialog != "" {
		b.WriteString(lipgloss.Place(w.width, max(w.height-4, lipgloss.Height(dialog)), lipgloss.Center, lipgloss.Center, dialog))
		return b.String()
	}

	b.WriteString(w.label(focusMood, "Mood"))
	b.WriteString("\n")
	mood := w.Mood()
	pager := fmt.Sprintf("‹ %s %s ›  %d/%d", mood.Icon(), mood.Name(), w.mood+1, len(storage.Moods))
	b.WriteString(w.styles.MoodPagerStyle.Render(pager))
	b.WriteString("\n\n")

	b.WriteString(w.label(focusTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(w.title.View())
	b.WriteString("\n\n")

	b.WriteString(w.label(focusDescription, "Description"))
	b.WriteString("\n")
	b.WriteString(w.description.View())
	b.WriteString("\n\n")

	limit := 0
	if w.uploader != nil {
		limit = w.uploader.MaxImages()
	}
	b.WriteString(w.label(focusImage, fmt.Sprintf("Images %d/%d", w.images.Len(), limit)))
	b.WriteString("\n")
	for i, img := range w.images.Images {
		if w.focus == focusImage && i == w.thumb {
			b.WriteString(w.styles.ThumbSelected.Render("› " + img.Describe()))
		} else {
			b.WriteString(w.styles.ThumbStyle.Render("  " + img.Describe()))
		}
		b.WriteString("\n")
	}
	b.WriteString(w.styles.InputPromptStyle.Render("+ "))
	b.WriteString(w.imagePath.View())
	return b.String()
}

func (w *WriteScreen) label(f writeField, text string) string {
	if w.focus == f {
		return w.styles.FieldFocusStyle.Render("▸ " + text)
	}
	return w.styles.FieldLabelStyle.Render("  " + text)
}
