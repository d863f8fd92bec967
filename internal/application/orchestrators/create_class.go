package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/role"
)

// ClassCreator submits new classes.
type ClassCreator interface {
	AddClass(ctx context.Context, token string, class classsession.NewClass) error
}

// CreateClassInput carries input for the create-class orchestrator.
type CreateClassInput struct {
	Token    string
	Viewer   role.Role
	Form     classsession.ClassForm
	Location *time.Location
}

// CreateClassDeps holds dependencies for CreateClass.
type CreateClassDeps struct {
	Backend ClassCreator
	Now     func() time.Time
}

// ExecuteCreateClass validates the class form and submits it once.
// PRE: Viewer is the role reported by the backend for Token
// POST: on success exactly one AddClass call was made
// INVARIANT: an invalid form never reaches the backend
func ExecuteCreateClass(ctx context.Context, input CreateClassInput, deps CreateClassDeps) (classsession.NewClass, error) {
	if !input.Viewer.CanCreateClass() {
		return classsession.NewClass{}, ErrNotPermitted
	}
	loc := input.Location
	if loc == nil {
		loc = time.Local
	}
	class, errs := input.Form.Parse(loc, deps.Now().In(loc))
	if err := formError(errs); err != nil {
		return class, err
	}

	if err := deps.Backend.AddClass(ctx, input.Token, class); err != nil {
		slog.Warn("class_event", "event", "class_create_failed", "error", err.Error())
		return class, err
	}

	slog.Info("class_event", "event", "class_created",
		"trainer", class.TrainerName,
		"priority", class.Priority.String(),
		"interval_days", class.Interval,
	)
	return class, nil
}
