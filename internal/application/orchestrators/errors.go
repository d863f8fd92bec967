package orchestrators

import (
	"errors"

	"fitflow/internal/domain/validation"
)

// ErrNotPermitted is returned when the viewer's role does not offer an action.
// The backend stays the authority; this only avoids a pointless round trip.
var ErrNotPermitted = errors.New("action not available for this role")

// FormError carries the collected violations of a rejected form.
// No backend call is made when it is returned.
type FormError struct {
	Errors validation.Errors
}

// Error implements error.
func (e *FormError) Error() string {
	return "form has errors: " + e.Errors.Error()
}

func formError(errs validation.Errors) error {
	if errs.OK() {
		return nil
	}
	return &FormError{Errors: errs}
}

// AsFormError unwraps a FormError.
func AsFormError(err error) (*FormError, bool) {
	var fe *FormError
	ok := errors.As(err, &fe)
	return fe, ok
}
