package orchestrators

import (
	"context"
	"log/slog"

	"fitflow/internal/domain/role"
)

// AccountAdmin is the slice of the API an Admin uses on accounts.
type AccountAdmin interface {
	DeleteUser(ctx context.Context, token, id string) error
	ToggleActivate(ctx context.Context, token, id string) error
}

// UserActionInput identifies the account an Admin acts on.
type UserActionInput struct {
	Token  string
	Viewer role.Role
	UserID string
}

// UserActionDeps holds dependencies for the account actions.
type UserActionDeps struct {
	Backend AccountAdmin
}

// ExecuteDeleteUser deletes an account after confirmation.
// PRE: the confirmation step has been passed
// POST: exactly one DeleteUser call; the caller re-reads the list
func ExecuteDeleteUser(ctx context.Context, input UserActionInput, deps UserActionDeps) error {
	if !input.Viewer.IsAdmin() || input.UserID == "" {
		return ErrNotPermitted
	}
	if err := deps.Backend.DeleteUser(ctx, input.Token, input.UserID); err != nil {
		slog.Warn("admin_event", "event", "user_delete_failed", "user_id", input.UserID, "error", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "user_deleted", "user_id", input.UserID)
	return nil
}

// ExecuteToggleUser flips an account's active flag after confirmation.
// PRE: the confirmation step has been passed
// POST: exactly one ToggleActivate call; the caller re-reads the list
func ExecuteToggleUser(ctx context.Context, input UserActionInput, deps UserActionDeps) error {
	if !input.Viewer.IsAdmin() || input.UserID == "" {
		return ErrNotPermitted
	}
	if err := deps.Backend.ToggleActivate(ctx, input.Token, input.UserID); err != nil {
		slog.Warn("admin_event", "event", "user_toggle_failed", "user_id", input.UserID, "error", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "user_toggled", "user_id", input.UserID)
	return nil
}
