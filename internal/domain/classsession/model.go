package classsession

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fitflow/internal/domain/role"
	"fitflow/internal/domain/timestamp"
	"fitflow/internal/domain/validation"
)

// Priority is the intensity tier of a class.
type Priority int

// Priority tiers, encoded the way the backend expects them on create.
const (
	PriorityLow      Priority = 0
	PriorityModerate Priority = 1
	PriorityHigh     Priority = 2
)

// DefaultColor is used when a class carries no display color.
const DefaultColor = "#3174ad"

// Priorities lists the tiers from highest to lowest, the order the create form offers them.
var Priorities = []Priority{PriorityHigh, PriorityModerate, PriorityLow}

var ErrUnknownPriority = errors.New("unknown priority")

// String returns the tier label used by the backend and the glyph lookup.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityModerate:
		return "Moderate"
	case PriorityLow:
		return "Low"
	}
	return ""
}

// FormLabel returns the label shown in the create form.
// The create form says "Medium" where the calendar says "Moderate".
func (p Priority) FormLabel() string {
	if p == PriorityModerate {
		return "Medium"
	}
	return p.String()
}

// ParsePriority accepts a tier label or its integer encoding.
// PRE: none
// POST: returns the tier or ErrUnknownPriority
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "2":
		return PriorityHigh, nil
	case "moderate", "medium", "1":
		return PriorityModerate, nil
	case "low", "0":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
}

// UnmarshalJSON accepts either the integer encoding or the label.
func (p *Priority) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PriorityLow
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < int(PriorityLow) || n > int(PriorityHigh) {
			return fmt.Errorf("%w: %d", ErrUnknownPriority, n)
		}
		*p = Priority(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON writes the integer encoding.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// Session is one scheduled training class as seen by the current viewer.
type Session struct {
	ID          string    `json:"id"`
	TrainerName string    `json:"trainerName"`
	GymName     string    `json:"gymName"`
	Color       string    `json:"color"`
	Priority    Priority  `json:"priority"`
	HasJoined   bool      `json:"hasJoined"`
	Start       time.Time `json:"startDate"`
	End         time.Time `json:"endDate"`
}

// UnmarshalJSON reads startDate and endDate with or without a zone offset.
func (s *Session) UnmarshalJSON(data []byte) error {
	type wire Session
	var raw struct {
		wire
		Start timestamp.Time `json:"startDate"`
		End   timestamp.Time `json:"endDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Session(raw.wire)
	s.Start = raw.Start.Time
	s.End = raw.End.Time
	return nil
}

// colorPattern accepts hex colors and CSS color keywords. Other forms such as
// rgb(...) would be replaced by the template CSS escaper.
var colorPattern = regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-zA-Z]+)$`)

// DisplayColor returns the session color, or DefaultColor when unset or not
// a hex color or keyword.
func (s Session) DisplayColor() string {
	c := strings.TrimSpace(s.Color)
	if !colorPattern.MatchString(c) {
		return DefaultColor
	}
	return c
}

// HasEnded reports whether the class end time is before now.
func (s Session) HasEnded(now time.Time) bool {
	return !s.End.IsZero() && s.End.Before(now)
}

// Participant is one viewer enrolled in a session.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts an object or a bare display name.
func (p *Participant) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*p = Participant{Name: name}
		return nil
	}
	var obj struct {
		ID       string `json:"id"`
		UserID   string `json:"userId"`
		Name     string `json:"name"`
		UserName string `json:"userName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.ID = obj.ID
	if p.ID == "" {
		p.ID = obj.UserID
	}
	p.Name = obj.Name
	if p.Name == "" {
		p.Name = obj.UserName
	}
	return nil
}

// CanRemoveParticipants reports whether viewer may remove participants now.
// INVARIANT: only the owning role, and only after the class has ended
func (s Session) CanRemoveParticipants(viewer role.Role, now time.Time) bool {
	return viewer.CanRemoveParticipants() && s.HasEnded(now)
}

// Removable reports whether a row can be offered a remove action.
// Rows without an identity cannot be addressed by the backend.
func (p Participant) Removable() bool {
	return p.ID != ""
}

// NewClass carries the fields of a class creation request.
type NewClass struct {
	TrainerName string    `json:"trainerName"`
	Priority    Priority  `json:"priority"`
	Interval    int       `json:"interval"`
	Start       time.Time `json:"startDate"`
	End         time.Time `json:"endDate"`
}

// Form messages for class creation.
const (
	MsgTrainerRequired   = "Trainer name is required"
	MsgStartInPast       = "Start date cannot be in the past"
	MsgStartNotBeforeEnd = "Start date must be before the end date"
	MsgNegativeInterval  = "Interval cannot be negative"
)

// Validate collects every violated rule, in form order.
// PRE: now is in the viewer's location
// POST: returned Errors is empty when the class may be submitted
func (c NewClass) Validate(now time.Time) validation.Errors {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return validation.Collect(
		validation.Rule{Field: "trainerName", Valid: func() bool { return strings.TrimSpace(c.TrainerName) != "" }, Message: MsgTrainerRequired},
		validation.Rule{Field: "startDate", Valid: func() bool { return !c.Start.Before(midnight) }, Message: MsgStartInPast},
		validation.Rule{Field: "startDate", Valid: func() bool { return c.Start.Before(c.End) }, Message: MsgStartNotBeforeEnd},
		validation.Rule{Field: "interval", Valid: func() bool { return c.Interval >= 0 }, Message: MsgNegativeInterval},
	)
}
