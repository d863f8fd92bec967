package projections

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fitflow/internal/domain/calendar"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/role"
)

// GetClassDetailQuery carries query parameters.
type GetClassDetailQuery struct {
	Token   string
	Viewer  role.Role
	ClassID string
	Now     time.Time
}

// GetClassDetailResult is the class dialog view-model.
type GetClassDetailResult struct {
	Class         classsession.Session
	PriorityGlyph string
	Participants  []classsession.Participant
	Joined        bool
	CanJoin       bool
	CanDelete     bool
	CanRemove     bool // remove buttons per participant row
}

// GetClassDetailDeps holds dependencies for GetClassDetail.
type GetClassDetailDeps struct {
	Classes ClassReader
}

// QueryGetClassDetail loads one class with its participants.
// The joined flag is only read for viewers who can join.
// PRE: ClassID is non-empty
// POST: returns the class fetch error; participant or joined failures are logged and left empty
func QueryGetClassDetail(ctx context.Context, query GetClassDetailQuery, deps GetClassDetailDeps) (GetClassDetailResult, error) {
	var result GetClassDetailResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		class, err := deps.Classes.GetClass(gctx, query.Token, query.ClassID)
		if err != nil {
			return err
		}
		result.Class = class
		return nil
	})
	g.Go(func() error {
		participants, err := deps.Classes.ListParticipants(gctx, query.Token, query.ClassID)
		if err != nil {
			slog.Warn("class_event", "event", "load_failed", "what", "participants", "class_id", query.ClassID, "error", err.Error())
			return nil
		}
		result.Participants = participants
		return nil
	})
	if query.Viewer.CanJoinClass() {
		g.Go(func() error {
			joined, err := deps.Classes.CheckJoined(gctx, query.Token, query.ClassID)
			if err != nil {
				slog.Warn("class_event", "event", "load_failed", "what", "joined", "class_id", query.ClassID, "error", err.Error())
				return nil
			}
			result.Joined = joined
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GetClassDetailResult{}, err
	}

	result.PriorityGlyph = calendar.PriorityGlyph(result.Class.Priority)
	result.CanJoin = query.Viewer.CanJoinClass()
	result.CanDelete = query.Viewer.CanDeleteClass()
	result.CanRemove = result.Class.CanRemoveParticipants(query.Viewer, query.Now)
	return result, nil
}
