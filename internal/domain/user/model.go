package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitflow/internal/domain/role"
	"fitflow/internal/domain/timestamp"
)

// FitnessPlan is a NormalUser's subscription tier.
type FitnessPlan int

// Plans in ascending order. Values are the backend encoding.
const (
	PlanBeginner     FitnessPlan = 0
	PlanIntermediate FitnessPlan = 1
	PlanAdvanced     FitnessPlan = 2
	PlanExpert       FitnessPlan = 3
)

// Plans lists every plan in ascending order.
var Plans = []FitnessPlan{PlanBeginner, PlanIntermediate, PlanAdvanced, PlanExpert}

var ErrUnknownPlan = errors.New("fitness plan must be one of: Beginner, Intermediate, Advanced, Expert")

// String returns the backend level name.
func (p FitnessPlan) String() string {
	switch p {
	case PlanBeginner:
		return "Beginner"
	case PlanIntermediate:
		return "Intermediate"
	case PlanAdvanced:
		return "Advanced"
	case PlanExpert:
		return "Expert"
	}
	return ""
}

// Brand returns the marketing name of the plan.
func (p FitnessPlan) Brand() string {
	switch p {
	case PlanBeginner:
		return "Fundament"
	case PlanIntermediate:
		return "Evolution"
	case PlanAdvanced:
		return "Performance"
	case PlanExpert:
		return "Elite"
	}
	return ""
}

// Label returns the option label, e.g. "Fundament (Beginner)".
func (p FitnessPlan) Label() string {
	return p.Brand() + " (" + p.String() + ")"
}

// Description returns the plan's weekly targets and default reward as Markdown.
func (p FitnessPlan) Description() string {
	switch p {
	case PlanBeginner:
		return "2 low-activity training sessions per week. Ideal for those starting out and wanting a fitness foundation.\n\n**Reward:** A protein bar or shake of your choice."
	case PlanIntermediate:
		return "2 low-activity + 2 moderate-activity training sessions per week. Perfect for a smooth transition to higher fitness levels.\n\n**Reward:** One free sauna session."
	case PlanAdvanced:
		return "2 high-activity + 2 moderate-activity training sessions per week. Suited for those aiming for enhanced performance.\n\n**Reward:** One free training session."
	case PlanExpert:
		return "Combines low, moderate, and high-activity workouts (2 each) per week. Perfect for top athletes seeking maximum achievement.\n\n**Reward:** 15% discount on your next subscription."
	}
	return ""
}

// ParsePlan accepts a level name, a brand name, or the integer encoding.
// PRE: none
// POST: returns a plan or ErrUnknownPlan
func ParsePlan(s string) (FitnessPlan, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Plans {
		if s == strings.ToLower(p.String()) || s == strings.ToLower(p.Brand()) || s == fmt.Sprint(int(p)) {
			return p, nil
		}
	}
	return 0, ErrUnknownPlan
}

// Settings is the viewer's editable profile.
type Settings struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Location    string       `json:"location"`
	FitnessPlan *FitnessPlan `json:"-"`
}

// UnmarshalJSON tolerates null location and a plan sent as name or number.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string          `json:"name"`
		Email       string          `json:"email"`
		Location    *string         `json:"location"`
		FitnessPlan json.RawMessage `json:"fitnessPlan"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.Name
	s.Email = raw.Email
	s.Location = ""
	if raw.Location != nil {
		s.Location = *raw.Location
	}
	s.FitnessPlan = nil
	if plan, ok := decodePlan(raw.FitnessPlan); ok {
		s.FitnessPlan = &plan
	}
	return nil
}

// decodePlan reads a plan encoded as a JSON string or number.
func decodePlan(raw json.RawMessage) (FitnessPlan, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	plan, err := ParsePlan(s)
	return plan, err == nil
}

// SettingsUpdate is the partial update sent to the backend.
// Nil fields are omitted and left unchanged.
type SettingsUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Password    *string      `json:"password,omitempty"`
	FitnessPlan *FitnessPlan `json:"fitnessPlan,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u SettingsUpdate) IsEmpty() bool {
	return u.Name == nil && u.Location == nil && u.Password == nil && u.FitnessPlan == nil
}

// AdminRecord is one row of the admin users table.
type AdminRecord struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Location    *string   `json:"location"`
	FitnessPlan *string   `json:"fitnessPlan"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"isVerified"`
}

// UnmarshalJSON reads createdAt with or without a zone offset.
func (r *AdminRecord) UnmarshalJSON(data []byte) error {
	type wire AdminRecord
	var raw struct {
		wire
		CreatedAt timestamp.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = AdminRecord(raw.wire)
	r.CreatedAt = raw.CreatedAt.Time
	return nil
}

// LocationOrNA returns the location, or "N/A" when absent.
func (r AdminRecord) LocationOrNA() string {
	if r.Location == nil || strings.TrimSpace(*r.Location) == "" {
		return "N/A"
	}
	return *r.Location
}

// VerifiedLabel returns "Yes" or "No".
func (r AdminRecord) VerifiedLabel() string {
	if r.IsVerified {
		return "Yes"
	}
	return "No"
}

// ParsedRole returns the row role, or "" when the backend sent an unknown tag.
func (r AdminRecord) ParsedRole() role.Role {
	parsed, err := role.Parse(r.Role)
	if err != nil {
		return ""
	}
	return parsed
}

// Option is one entry of a select box.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Intensity is one tier of weekly progress.
type Intensity struct {
	Label     string
	Needed    int
	Completed int
	Pending   int
}

// Visible reports whether the tier is part of the viewer's plan.
func (i Intensity) Visible() bool {
	return i.Needed > 0
}

// IsComplete reports whether the weekly target is reached.
func (i Intensity) IsComplete() bool {
	return i.Completed == i.Needed
}

// Progress returns "completed / needed".
func (i Intensity) Progress() string {
	return fmt.Sprintf("%d / %d", i.Completed, i.Needed)
}

// WeeklyProgress is the viewer's plan progress for the current week.
type WeeklyProgress struct {
	FitnessPlan           string `json:"fitnessPlan"`
	LowIntensityNeeded    int    `json:"lowIntensityNeeded"`
	LowIntensityCompleted int    `json:"lowIntensityCompleted"`
	LowIntensityPending   int    `json:"lowIntensityPending"`
	MedIntensityNeeded    int    `json:"mediumIntensityNeeded"`
	MedIntensityCompleted int    `json:"mediumIntensityCompleted"`
	MedIntensityPending   int    `json:"mediumIntensityPending"`
	HighIntensityNeeded   int    `json:"highIntensityNeeded"`
	HighIntensityComplete int    `json:"highIntensityCompleted"`
	HighIntensityPending  int    `json:"highIntensityPending"`
}

// Tiers returns the low, moderate and high tiers, in that order.
func (w WeeklyProgress) Tiers() []Intensity {
	return []Intensity{
		{Label: "Low", Needed: w.LowIntensityNeeded, Completed: w.LowIntensityCompleted, Pending: w.LowIntensityPending},
		{Label: "Moderate", Needed: w.MedIntensityNeeded, Completed: w.MedIntensityCompleted, Pending: w.MedIntensityPending},
		{Label: "High", Needed: w.HighIntensityNeeded, Completed: w.HighIntensityComplete, Pending: w.HighIntensityPending},
	}
}

// HasTargets reports whether any tier has a weekly target.
func (w WeeklyProgress) HasTargets() bool {
	for _, t := range w.Tiers() {
		if t.Visible() {
			return true
		}
	}
	return false
}
