// Package datetime holds the entry date/time editor used by the write screen.
//
// The editor lets the user pick a calendar date and then a clock time,
// composes them into a zoned timestamp, and can revert to "now". It is a
// plain state machine with no rendering; the ui package drives it from the
// Bubble Tea update loop and draws the pickers it asks for.
//
// An Editor is not safe for concurrent use.
package datetime

import (
	"time"
)

// Phase names the editor state.
type Phase int

const (
	// PhaseInitial shows live "now" values; nothing is overridden.
	PhaseInitial Phase = iota
	// PhaseDatePicked has a chosen date and waits for a time.
	PhaseDatePicked
	// PhaseComposed has a user-chosen date and time.
	PhaseComposed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseDatePicked:
		return "date-picked"
	case PhaseComposed:
		return "composed"
	default:
		return "unknown"
	}
}

// Dialog names the picker the host should currently show.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogDate
	DialogTime
)

// state is one of initialState, datePickedState or composedState.
type state interface {
	phase() Phase
}

type initialState struct {
	date  Date
	clock Clock
}

type datePickedState struct {
	date  Date
	prior state // initialState or composedState
}

type composedState struct {
	date  Date
	clock Clock
}

func (initialState) phase() Phase    { return PhaseInitial }
func (datePickedState) phase() Phase { return PhaseDatePicked }
func (composedState) phase() Phase   { return PhaseComposed }

// Options configures an Editor.
type Options struct {
	// Persisted is the timestamp of the entry being edited, nil for a new entry.
	Persisted *time.Time

	// OnUpdate receives the composed timestamp after a time is chosen and
	// after a revert.
	OnUpdate func(time.Time)

	// Now and Location default to time.Now and time.Local.
	Now      func() time.Time
	Location *time.Location
}

// Editor composes an entry timestamp from a date pick and a time pick.
type Editor struct {
	state     state
	dialog    Dialog
	persisted *time.Time
	onUpdate  func(time.Time)
	now       func() time.Time
	loc       *time.Location
}

// New creates an editor whose pending date and time are the current moment.
func New(opts Options) *Editor {
	e := &Editor{
		persisted: opts.Persisted,
		onUpdate:  opts.OnUpdate,
		now:       opts.Now,
		loc:       opts.Location,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	e.state = e.nowState()
	return e
}

func (e *Editor) nowState() initialState {
	t := e.now().In(e.loc)
	return initialState{date: DateOf(t), clock: ClockOf(t)}
}

// SetPersisted replaces the host-supplied timestamp. It does not touch the
// pending values.
func (e *Editor) SetPersisted(t *time.Time) {
	e.persisted = t
}

// Persisted returns the host-supplied timestamp, if any.
func (e *Editor) Persisted() *time.Time {
	return e.persisted
}

// Phase returns the current state tag.
func (e *Editor) Phase() Phase {
	return e.state.phase()
}

// Dialog returns the picker the host should show.
func (e *Editor) Dialog() Dialog {
	return e.dialog
}

// Overridden reports whether the user picked both a date and a time in this
// session. A pending date alone does not count.
func (e *Editor) Overridden() bool {
	return e.committed().phase() == PhaseComposed
}

// committed is the state that the label and Overridden reflect. While a date
// is pending the wizard is not finished, so the prior state stays visible.
func (e *Editor) committed() state {
	if dp, ok := e.state.(datePickedState); ok {
		return dp.prior
	}
	return e.state
}

// Pending returns the date and time the editor would show for a new entry.
func (e *Editor) Pending() (Date, Clock) {
	switch s := e.committed().(type) {
	case composedState:
		return s.date, s.clock
	case initialState:
		return s.date, s.clock
	}
	return Date{}, Clock{}
}

// PendingDate returns the date chosen in the date picker while the time
// picker is open.
func (e *Editor) PendingDate() (Date, bool) {
	if dp, ok := e.state.(datePickedState); ok {
		return dp.date, true
	}
	return Date{}, false
}

// Timestamp returns the pending values composed in the editor's location.
func (e *Editor) Timestamp() time.Time {
	d, c := e.Pending()
	return Compose(d, c, e.loc)
}

// OpenDatePicker asks the host to show the date picker. It returns false while
// overridden, when the revert action takes the date action's place.
func (e *Editor) OpenDatePicker() bool {
	if e.Overridden() || e.dialog != DialogNone {
		return false
	}
	e.dialog = DialogDate
	return true
}

// OnDateChosen records d and chains straight into the time picker.
func (e *Editor) OnDateChosen(d Date) error {
	if err := d.Validate(); err != nil {
		return err
	}
	e.state = datePickedState{date: d, prior: e.committed()}
	e.dialog = DialogTime
	return nil
}

// OnTimeChosen completes the wizard and emits the composed timestamp.
func (e *Editor) OnTimeChosen(hour, minute int) error {
	if err := validateClock(hour, minute); err != nil {
		return err
	}
	dp, ok := e.state.(datePickedState)
	if !ok {
		return ErrNoPendingDate
	}
	next := composedState{date: dp.date, clock: Clock{Hour: hour, Minute: minute}}
	e.state = next
	e.dialog = DialogNone
	e.emit(Compose(next.date, next.clock, e.loc))
	return nil
}

// Dismiss handles a picker closed without a result. A pending date is dropped.
func (e *Editor) Dismiss() {
	e.state = e.committed()
	e.dialog = DialogNone
}

// Revert resets the pending values to now and emits them. It is a no-op
// unless overridden.
func (e *Editor) Revert() bool {
	if !e.Overridden() {
		return false
	}
	s := e.nowState()
	e.state = s
	e.dialog = DialogNone
	e.emit(Compose(s.date, s.clock, e.loc))
	return true
}

// Label renders the top bar date line. A persisted timestamp wins unless the
// user has overridden it.
func (e *Editor) Label() string {
	if e.persisted != nil && !e.Overridden() {
		return FormatLabel(*e.persisted, e.loc)
	}
	d, c := e.Pending()
	return FormatDate(d) + ", " + FormatClock(c)
}

func (e *Editor) emit(t time.Time) {
	if e.onUpdate != nil {
		e.onUpdate(t)
	}
}
