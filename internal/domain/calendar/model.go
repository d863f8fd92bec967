package calendar

import (
	"errors"
	"sort"
	"strings"
	"time"

	"fitflow/internal/domain/classsession"
)

// View is a calendar layout.
type View string

// Calendar views. Month is the default.
const (
	ViewMonth  View = "month"
	ViewWeek   View = "week"
	ViewDay    View = "day"
	ViewAgenda View = "agenda"
)

// Views lists the toolbar order.
var Views = []View{ViewMonth, ViewWeek, ViewDay, ViewAgenda}

// AgendaLength is the span the agenda view lists from its anchor date.
const AgendaLength = 30

// DateLayout is the format of the date navigation parameter.
const DateLayout = "2006-01-02"

var ErrUnknownView = errors.New("view must be one of: month, week, day, agenda")

// ParseView returns the view named by s; "" yields ViewMonth.
// PRE: none
// POST: returns a valid View or ErrUnknownView
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ViewMonth, nil
	}
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return ViewMonth, ErrUnknownView
}

// Label returns the toolbar label.
func (v View) Label() string {
	switch v {
	case ViewWeek:
		return "Week"
	case ViewDay:
		return "Day"
	case ViewAgenda:
		return "Agenda"
	}
	return "Month"
}

// Resource is the display bag carried by each event.
type Resource struct {
	Color    string
	Priority classsession.Priority
}

// Event is the calendar view-model of one class session.
// INVARIANT: derived 1:1 from a Session; never edited independently
type Event struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	AllDay    bool
	HasJoined bool
	Resource  Resource
}

// FromSession maps a session to its event.
// PRE: none
// POST: Title is "<trainer> - <gym>", color defaults to classsession.DefaultColor
func FromSession(s classsession.Session) Event {
	return Event{
		ID:        s.ID,
		Title:     s.TrainerName + " - " + s.GymName,
		Start:     s.Start,
		End:       s.End,
		HasJoined: s.HasJoined,
		Resource: Resource{
			Color:    s.DisplayColor(),
			Priority: s.Priority,
		},
	}
}

// FromSessions maps sessions to events, keeping order.
func FromSessions(sessions []classsession.Session) []Event {
	events := make([]Event, 0, len(sessions))
	for _, s := range sessions {
		events = append(events, FromSession(s))
	}
	return events
}

// FilterJoined returns the events to show for the joined-only toggle.
// With joinedOnly false the input is returned unchanged.
// INVARIANT: input order is preserved and the input slice is not modified
func FilterJoined(events []Event, joinedOnly bool) []Event {
	if !joinedOnly {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.HasJoined {
			out = append(out, e)
		}
	}
	return out
}

// PriorityGlyph returns the glyph drawn for a priority tier.
func PriorityGlyph(p classsession.Priority) string {
	switch p {
	case classsession.PriorityHigh:
		return "▲"
	case classsession.PriorityModerate:
		return "="
	case classsession.PriorityLow:
		return "▼"
	}
	return ""
}

// JoinedGlyph is drawn on events the viewer has joined.
const JoinedGlyph = "✓"

// Overlaps reports whether the event intersects [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	end := e.End
	if end.IsZero() || !end.After(e.Start) {
		end = e.Start.Add(time.Nanosecond)
	}
	return e.Start.Before(to) && end.After(from)
}

// InRange returns the events overlapping [from, to), sorted by start.
// Events starting together keep their input order.
func InRange(events []Event, from, to time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
