package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length bounds for user-editable fields.
const (
	MinPasswordLength = 8
	MaxLocationLength = 30
	MinNameLength     = 3
	MaxNameLength     = 20
)

// notSpace is a run of runes that are neither '@' nor whitespace. Whitespace
// covers ASCII space and \v, the Unicode separators (NBSP, U+2000..U+200A,
// U+3000 and the rest of Z) and the byte order mark.
const notSpace = `[^\s\v\p{Z}\x{FEFF}@]+`

var emailPattern = regexp.MustCompile(`^` + notSpace + `@` + notSpace + `\.` + notSpace + `$`)

// IsValidEmail reports whether s has the shape local@domain.tld with no whitespace.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword reports whether p has at least MinPasswordLength characters.
func IsValidPassword(p string) bool {
	return utf8.RuneCountInString(p) >= MinPasswordLength
}

// IsValidPasswordConfirm reports whether the confirmation equals the password exactly.
func IsValidPasswordConfirm(password, confirm string) bool {
	return password == confirm
}

// IsValidLocation reports whether the trimmed location length is in (0, MaxLocationLength].
func IsValidLocation(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n > 0 && n <= MaxLocationLength
}

// IsValidName reports whether the name length is in [MinNameLength, MaxNameLength].
func IsValidName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinNameLength && n <= MaxNameLength
}

// Rule is one named check of a form field.
// Valid is evaluated lazily by Collect; Message is reported when it returns false.
type Rule struct {
	Field   string
	Valid   func() bool
	Message string
}

// When returns a rule that only applies if cond holds.
// Used for optional fields that are validated only when filled in.
func (r Rule) When(cond bool) Rule {
	if cond {
		return r
	}
	r.Valid = func() bool { return true }
	return r
}

// Violation is a failed rule.
type Violation struct {
	Field   string
	Message string
}

// Errors holds every violation of a form, in rule order.
// The zero value means no violations.
type Errors struct {
	violations []Violation
}

// Collect evaluates every rule and returns all violations.
// Rules are never short-circuited: a field may report more than one message.
// PRE: none
// POST: returned Errors lists each failing rule once, in argument order
func Collect(rules ...Rule) Errors {
	var errs Errors
	for _, r := range rules {
		if r.Valid == nil || r.Valid() {
			continue
		}
		errs.violations = append(errs.violations, Violation{Field: r.Field, Message: r.Message})
	}
	return errs
}

// Add records a violation that was detected outside a Rule (e.g. a parse failure).
func (e *Errors) Add(field, message string) {
	e.violations = append(e.violations, Violation{Field: field, Message: message})
}

// OK reports whether there are no violations.
func (e Errors) OK() bool {
	return len(e.violations) == 0
}

// Len returns the number of violations.
func (e Errors) Len() int {
	return len(e.violations)
}

// List returns every message in rule order.
func (e Errors) List() []string {
	msgs := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

// Field returns the first message recorded for field, or "".
func (e Errors) Field(field string) string {
	for _, v := range e.violations {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// Map returns field name to first message.
func (e Errors) Map() map[string]string {
	m := make(map[string]string, len(e.violations))
	for _, v := range e.violations {
		if _, ok := m[v.Field]; !ok {
			m[v.Field] = v.Message
		}
	}
	return m
}

// Violations returns a copy of all violations.
func (e Errors) Violations() []Violation {
	out := make([]Violation, len(e.violations))
	copy(out, e.violations)
	return out
}

// Has reports whether message was recorded for any field.
func (e Errors) Has(message string) bool {
	for _, v := range e.violations {
		if v.Message == message {
			return true
		}
	}
	return false
}

// Error implements error so a failed form can travel through error returns.
func (e Errors) Error() string {
	return strings.Join(e.List(), "; ")
}
