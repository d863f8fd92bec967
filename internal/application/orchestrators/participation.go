package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/role"
)

// ParticipationBackend is the slice of the API used to join and leave classes.
type ParticipationBackend interface {
	ToggleJoin(ctx context.Context, token, classID string) error
	CheckJoined(ctx context.Context, token, classID string) (bool, error)
	ListParticipants(ctx context.Context, token, classID string) ([]classsession.Participant, error)
}

// ToggleJoinInput carries input for the toggle-join orchestrator.
type ToggleJoinInput struct {
	Token   string
	Viewer  role.Role
	ClassID string
}

// ToggleJoinDeps holds dependencies for ToggleJoin.
type ToggleJoinDeps struct {
	Backend ParticipationBackend
}

// ToggleJoinResult is the refreshed participation state.
type ToggleJoinResult struct {
	Joined       bool
	Participants []classsession.Participant
}

// ExecuteToggleJoin joins or leaves a class.
// PRE: ClassID is non-empty
// POST: on success exactly two follow-up reads (CheckJoined, ListParticipants)
// were made; on failure none were, and the result is the zero value
func ExecuteToggleJoin(ctx context.Context, input ToggleJoinInput, deps ToggleJoinDeps) (ToggleJoinResult, error) {
	if !input.Viewer.CanJoinClass() {
		return ToggleJoinResult{}, ErrNotPermitted
	}
	if err := deps.Backend.ToggleJoin(ctx, input.Token, input.ClassID); err != nil {
		slog.Warn("class_event", "event", "toggle_join_failed", "class_id", input.ClassID, "error", err.Error())
		return ToggleJoinResult{}, err
	}

	var result ToggleJoinResult
	joined, joinedErr := deps.Backend.CheckJoined(ctx, input.Token, input.ClassID)
	participants, listErr := deps.Backend.ListParticipants(ctx, input.Token, input.ClassID)
	if joinedErr != nil {
		slog.Warn("class_event", "event", "refresh_failed", "what", "joined", "class_id", input.ClassID, "error", joinedErr.Error())
	}
	if listErr != nil {
		slog.Warn("class_event", "event", "refresh_failed", "what", "participants", "class_id", input.ClassID, "error", listErr.Error())
	}
	result.Joined = joined
	result.Participants = participants

	slog.Info("class_event", "event", "join_toggled", "class_id", input.ClassID, "joined", joined)
	return result, nil
}

// ClassRemover is the slice of the API used for destructive class actions.
type ClassRemover interface {
	GetClass(ctx context.Context, token, id string) (classsession.Session, error)
	DeleteClass(ctx context.Context, token, classID string) error
	DeleteParticipant(ctx context.Context, token, classID, userID string) error
}

// DeleteClassInput carries input for the delete-class orchestrator.
type DeleteClassInput struct {
	Token   string
	Viewer  role.Role
	ClassID string
}

// DeleteClassDeps holds dependencies for DeleteClass.
type DeleteClassDeps struct {
	Backend ClassRemover
}

// ExecuteDeleteClass deletes a class after the viewer confirmed it.
// PRE: the confirmation step has been passed
// POST: exactly one DeleteClass call on success
func ExecuteDeleteClass(ctx context.Context, input DeleteClassInput, deps DeleteClassDeps) error {
	if !input.Viewer.CanDeleteClass() {
		return ErrNotPermitted
	}
	if err := deps.Backend.DeleteClass(ctx, input.Token, input.ClassID); err != nil {
		slog.Warn("class_event", "event", "class_delete_failed", "class_id", input.ClassID, "error", err.Error())
		return err
	}
	slog.Info("class_event", "event", "class_deleted", "class_id", input.ClassID)
	return nil
}

// RemoveParticipantInput carries input for the remove-participant orchestrator.
type RemoveParticipantInput struct {
	Token   string
	Viewer  role.Role
	ClassID string
	UserID  string
}

// RemoveParticipantDeps holds dependencies for RemoveParticipant.
type RemoveParticipantDeps struct {
	Backend ClassRemover
	Now     func() time.Time
}

// ExecuteRemoveParticipant removes one participant from an ended class.
// PRE: the confirmation step has been passed
// POST: DeleteParticipant is called only for a GymOwner on an ended class
func ExecuteRemoveParticipant(ctx context.Context, input RemoveParticipantInput, deps RemoveParticipantDeps) error {
	if !input.Viewer.CanRemoveParticipants() || input.UserID == "" {
		return ErrNotPermitted
	}
	class, err := deps.Backend.GetClass(ctx, input.Token, input.ClassID)
	if err != nil {
		return err
	}
	if !class.CanRemoveParticipants(input.Viewer, deps.Now()) {
		return ErrNotPermitted
	}
	if err := deps.Backend.DeleteParticipant(ctx, input.Token, input.ClassID, input.UserID); err != nil {
		slog.Warn("class_event", "event", "participant_remove_failed", "class_id", input.ClassID, "user_id", input.UserID, "error", err.Error())
		return err
	}
	slog.Info("class_event", "event", "participant_removed", "class_id", input.ClassID, "user_id", input.UserID)
	return nil
}
