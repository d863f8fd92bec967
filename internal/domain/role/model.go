package role

import (
	"errors"
	"strings"
)

// Role is the viewer's permission class as reported by the backend.
type Role string

// Role constants. Values match the backend's wire strings.
const (
	Admin      Role = "Admin"
	GymOwner   Role = "GymOwner"
	NormalUser Role = "NormalUser"
)

// ValidRoles contains every role the backend can report.
var ValidRoles = []Role{Admin, GymOwner, NormalUser}

// ErrUnknownRole is returned when the backend reports a role outside the closed set.
var ErrUnknownRole = errors.New("role must be one of: Admin, GymOwner, NormalUser")

// Parse converts a backend role string into a Role.
// Surrounding whitespace and JSON quotes are ignored.
// PRE: none
// POST: returns a valid Role or ErrUnknownRole
func Parse(s string) (Role, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	for _, r := range ValidRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsAdmin returns true for the Admin role.
func (r Role) IsAdmin() bool {
	return r == Admin
}

// CanCreateClass reports whether slot selection and the class-creation form are offered.
func (r Role) CanCreateClass() bool {
	return r == GymOwner
}

// CanDeleteClass reports whether the "Delete Class" action is offered.
func (r Role) CanDeleteClass() bool {
	return r == GymOwner
}

// CanJoinClass reports whether the Join/Leave toggle is offered.
func (r Role) CanJoinClass() bool {
	return r == NormalUser
}

// CanRemoveParticipants reports whether participant rows get a "Remove" action.
// Class end time is checked by classsession.Session.CanRemoveParticipants.
func (r Role) CanRemoveParticipants() bool {
	return r == GymOwner
}

// CanClaimRewards reports whether the "Redeem" action is offered on the rewards table.
func (r Role) CanClaimRewards() bool {
	return r == NormalUser
}

// NeedsFitnessPlanCheck reports whether the plan-selection nudge applies.
func (r Role) NeedsFitnessPlanCheck() bool {
	return r == NormalUser
}
