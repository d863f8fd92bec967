package projections

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fitflow/internal/domain/calendar"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

// SessionLister lists class sessions.
type SessionLister interface {
	ListClasses(ctx context.Context, token string) ([]classsession.Session, error)
}

// GetCalendarQuery carries query parameters.
// Role is the role the guard already resolved; empty means fetch it.
type GetCalendarQuery struct {
	Token      string
	Role       role.Role
	View       string
	Date       string
	JoinedOnly bool
	Location   *time.Location
	Now        time.Time
}

// GetCalendarDeps holds dependencies for GetCalendar.
type GetCalendarDeps struct {
	Classes  SessionLister
	Trainers TrainerReader
	Roles    RoleReader
	Plans    PlanReader
}

// GetCalendarResult is the calendar page view-model.
type GetCalendarResult struct {
	Role       role.Role
	View       calendar.View
	Date       time.Time
	Title      string
	Prev       string
	Next       string
	Today      string
	JoinedOnly bool

	Events   []calendar.Event // after the joined-only filter
	Weeks    [][]calendar.Day // month, week and day views
	Agenda   []calendar.Event // agenda view
	Trainers []string

	CanCreate        bool
	NeedsFitnessPlan bool
	Progress         user.WeeklyProgress
}

// QueryGetCalendar loads the calendar page.
// Sessions, trainers and the role are fetched concurrently; plan state is
// fetched afterwards for normal users only.
// PRE: Token belongs to a signed-in viewer
// POST: a failed fetch is logged and leaves its part empty; never returns an error
// INVARIANT: event order follows the backend unless a view sorts by time
func QueryGetCalendar(ctx context.Context, query GetCalendarQuery, deps GetCalendarDeps) GetCalendarResult {
	loc := query.Location
	if loc == nil {
		loc = time.Local
	}
	now := query.Now.In(loc)
	view, _ := calendar.ParseView(query.View)
	date, err := time.ParseInLocation(calendar.DateLayout, query.Date, loc)
	if err != nil {
		date = now
	}

	result := GetCalendarResult{
		Role:       query.Role,
		View:       view,
		Date:       date,
		Title:      calendar.Title(view, date),
		Prev:       calendar.Step(view, date, -1).Format(calendar.DateLayout),
		Next:       calendar.Step(view, date, 1).Format(calendar.DateLayout),
		Today:      now.Format(calendar.DateLayout),
		JoinedOnly: query.JoinedOnly,
	}

	var all []calendar.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions, err := deps.Classes.ListClasses(gctx, query.Token)
		if err != nil {
			slog.Warn("calendar_event", "event", "load_failed", "what", "classes", "error", err.Error())
			return nil
		}
		all = calendar.FromSessions(sessions)
		return nil
	})
	g.Go(func() error {
		trainers, err := deps.Trainers.ListTrainers(gctx, query.Token)
		if err != nil {
			slog.Warn("calendar_event", "event", "load_failed", "what", "trainers", "error", err.Error())
			return nil
		}
		result.Trainers = trainers
		return nil
	})
	if result.Role == "" {
		g.Go(func() error {
			r, err := deps.Roles.GetRole(gctx, query.Token)
			if err != nil {
				slog.Warn("calendar_event", "event", "load_failed", "what", "role", "error", err.Error())
				return nil
			}
			result.Role = r
			return nil
		})
	}
	_ = g.Wait()

	result.Events = calendar.FilterJoined(all, query.JoinedOnly)
	if view == calendar.ViewAgenda {
		result.Agenda = calendar.Agenda(date, result.Events)
	} else {
		result.Weeks = calendar.Grid(view, date, now, result.Events)
	}
	result.CanCreate = result.Role.CanCreateClass()

	if result.Role.NeedsFitnessPlanCheck() && deps.Plans != nil {
		loadPlanState(ctx, query.Token, deps.Plans, &result)
	}
	return result
}

func loadPlanState(ctx context.Context, token string, plans PlanReader, result *GetCalendarResult) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		needs, err := plans.NeedsFitnessPlan(gctx, token)
		if err != nil {
			slog.Warn("calendar_event", "event", "load_failed", "what", "fitness_plan", "error", err.Error())
			return nil
		}
		result.NeedsFitnessPlan = needs
		return nil
	})
	g.Go(func() error {
		progress, err := plans.WeeklyProgress(gctx, token)
		if err != nil {
			slog.Warn("calendar_event", "event", "load_failed", "what", "weekly_progress", "error", err.Error())
			return nil
		}
		result.Progress = progress
		return nil
	})
	_ = g.Wait()
}
