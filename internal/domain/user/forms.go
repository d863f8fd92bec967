package user

import (
	"strings"

	"fitflow/internal/domain/validation"
)

// Form messages shared by the auth and settings forms.
const (
	MsgInvalidEmail     = "Insert a valid email."
	MsgInvalidName      = "Name must be between 3 and 20 characters."
	MsgPasswordTooShort = "Password must be at least 8 characters."
	MsgPasswordMismatch = "Passwords do not match."
	MsgLocationRequired = "Location is required."
	MsgLocationBounds   = "Location must be between 0 and 30 characters."
	MsgPasswordRequired = "Password is required."
	MsgInvalidPIN       = "Enter the 4-digit code from your email."
	MsgVerifyNoEmail    = "Register first so we know which email to verify."
	MsgSelectPlan       = "Please select a fitness plan."
)

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login form.
func (c Credentials) Validate() validation.Errors {
	return validation.Collect(
		validation.Rule{Field: "email", Valid: func() bool { return validation.IsValidEmail(c.Email) }, Message: MsgInvalidEmail},
		validation.Rule{Field: "password", Valid: func() bool { return c.Password != "" }, Message: MsgPasswordRequired},
	)
}

// Registration is a sign-up request for a NormalUser or, with Location, a GymOwner.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"-"`
	Location        string `json:"location,omitempty"`
}

// Validate checks a user registration.
// POST: every violated rule is reported, in form order
func (r Registration) Validate() validation.Errors {
	return validation.Collect(r.rules()...)
}

// ValidateGym checks a gym registration, which also requires a location.
func (r Registration) ValidateGym() validation.Errors {
	rules := r.rules()
	rules = append(rules, validation.Rule{
		Field: "location", Valid: func() bool { return validation.IsValidLocation(r.Location) }, Message: MsgLocationRequired,
	})
	return validation.Collect(rules...)
}

func (r Registration) rules() []validation.Rule {
	return []validation.Rule{
		{Field: "email", Valid: func() bool { return validation.IsValidEmail(r.Email) }, Message: MsgInvalidEmail},
		{Field: "name", Valid: func() bool { return validation.IsValidName(r.Name) }, Message: MsgInvalidName},
		{Field: "password", Valid: func() bool { return validation.IsValidPassword(r.Password) }, Message: MsgPasswordTooShort},
		{Field: "passwordConfirm", Valid: func() bool { return validation.IsValidPasswordConfirm(r.Password, r.PasswordConfirm) }, Message: MsgPasswordMismatch},
	}
}

// Verification is the email verification request.
type Verification struct {
	Email string `json:"email"`
	Token int    `json:"token"`
}

// ValidPIN reports whether s is exactly four ASCII digits.
func ValidPIN(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// VerificationErrors collects the verify-token rules for a remembered
// email and a submitted PIN.
func VerificationErrors(email, pin string) validation.Errors {
	return validation.Collect(
		validation.Rule{Field: "email", Valid: func() bool { return validation.IsValidEmail(email) }, Message: MsgVerifyNoEmail},
		validation.Rule{Field: "token", Valid: func() bool { return ValidPIN(pin) }, Message: MsgInvalidPIN},
	)
}

// SettingsForm is the submitted settings page.
// Empty fields are left unchanged.
type SettingsForm struct {
	Name            string
	Location        string
	Password        string
	PasswordConfirm string
	FitnessPlan     string
}

// Validate checks only the fields that were filled in.
func (f SettingsForm) Validate() validation.Errors {
	return validation.Collect(
		validation.Rule{Field: "name", Valid: func() bool { return validation.IsValidName(f.Name) }, Message: MsgInvalidName}.When(f.Name != ""),
		validation.Rule{Field: "location", Valid: func() bool { return validation.IsValidLocation(f.Location) }, Message: MsgLocationBounds}.When(strings.TrimSpace(f.Location) != ""),
		validation.Rule{Field: "password", Valid: func() bool { return validation.IsValidPassword(f.Password) }, Message: MsgPasswordTooShort}.When(f.Password != ""),
		validation.Rule{Field: "passwordConfirm", Valid: func() bool { return validation.IsValidPasswordConfirm(f.Password, f.PasswordConfirm) }, Message: MsgPasswordMismatch}.When(f.Password != ""),
	)
}

// Update builds the partial update from the filled-in fields.
// PRE: Validate returned no violations
// POST: unknown plan names are dropped rather than sent
func (f SettingsForm) Update() SettingsUpdate {
	var u SettingsUpdate
	if f.Name != "" {
		name := f.Name
		u.Name = &name
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		u.Location = &loc
	}
	if f.Password != "" {
		pw := f.Password
		u.Password = &pw
	}
	if f.FitnessPlan != "" {
		if plan, err := ParsePlan(f.FitnessPlan); err == nil {
			u.FitnessPlan = &plan
		}
	}
	return u
}
