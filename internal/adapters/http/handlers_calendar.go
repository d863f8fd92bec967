package web

import (
	"net/http"
	"net/url"
	"time"

	"fitflow/internal/adapters/http/middleware"
	"fitflow/internal/application/orchestrators"
	"fitflow/internal/application/projections"
	"fitflow/internal/domain/calendar"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/user"
)

const (
	msgPlanSaved  = "Fitness plan saved."
	msgPlanFailed = "Failed to save fitness plan."
)

// viewLink is one entry of the calendar view switcher.
type viewLink struct {
	View   calendar.View
	URL    string
	Active bool
}

// calendarPage is the calendar view-model plus its navigation links.
type calendarPage struct {
	projections.GetCalendarResult
	PrevURL   string
	NextURL   string
	TodayURL  string
	ToggleURL string // flips the joined-only filter
	ViewLinks []viewLink
	Plans     []user.FitnessPlan
}

func calendarURL(view calendar.View, date string, joined bool) string {
	q := url.Values{}
	if view != calendar.ViewMonth {
		q.Set("view", string(view))
	}
	if date != "" {
		q.Set("date", date)
	}
	if joined {
		q.Set("joined", "1")
	}
	if len(q) == 0 {
		return "/home"
	}
	return "/home?" + q.Encode()
}

func calendarQuery(r *http.Request) projections.GetCalendarQuery {
	token, viewerRole := viewer(r)
	q := r.URL.Query()
	return projections.GetCalendarQuery{
		Token:      token,
		Role:       viewerRole,
		View:       q.Get("view"),
		Date:       q.Get("date"),
		JoinedOnly: q.Get("joined") == "1",
		Location:   viewerLoc,
		Now:        timeNow(),
	}
}

func calendarDeps() projections.GetCalendarDeps {
	return projections.GetCalendarDeps{Classes: api, Trainers: api, Roles: api, Plans: api}
}

// handleCalendar handles GET /home
func handleCalendar(w http.ResponseWriter, r *http.Request) {
	result := projections.QueryGetCalendar(r.Context(), calendarQuery(r), calendarDeps())

	date := result.Date.Format(calendar.DateLayout)
	page := calendarPage{
		GetCalendarResult: result,
		PrevURL:           calendarURL(result.View, result.Prev, result.JoinedOnly),
		NextURL:           calendarURL(result.View, result.Next, result.JoinedOnly),
		TodayURL:          calendarURL(result.View, "", result.JoinedOnly),
		ToggleURL:         calendarURL(result.View, date, !result.JoinedOnly),
		Plans:             user.Plans,
	}
	for _, v := range calendar.Views {
		page.ViewLinks = append(page.ViewLinks, viewLink{
			View:   v,
			URL:    calendarURL(v, date, result.JoinedOnly),
			Active: v == result.View,
		})
	}
	renderTemplate(w, r, "calendar.html", page)
}

// handleSelectFitnessPlan handles POST /home/fitness-plan from the plan prompt.
func handleSelectFitnessPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	token, viewerRole := viewer(r)
	_, err := orchestrators.ExecuteSelectFitnessPlan(r.Context(), orchestrators.SelectFitnessPlanInput{
		Token:  token,
		Viewer: viewerRole,
		Plan:   r.FormValue("fitnessPlan"),
	}, orchestrators.UpdateSettingsDeps{Backend: api})
	if err != nil {
		if fe, ok := orchestrators.AsFormError(err); ok {
			setFlash(w, FlashError, fe.Errors.List()[0])
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgPlanFailed, "/home")
		return
	}
	setFlash(w, FlashSuccess, msgPlanSaved)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// apiEvent is the JSON form of a calendar event.
type apiEvent struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Start     time.Time             `json:"start"`
	End       time.Time             `json:"end"`
	AllDay    bool                  `json:"allDay"`
	HasJoined bool                  `json:"hasJoined"`
	Color     string                `json:"color"`
	Priority  classsession.Priority `json:"priority"`
}

// handleEventsAPI handles GET /api/events?joined=1
func handleEventsAPI(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	result := projections.QueryGetCalendar(r.Context(), calendarQuery(r), calendarDeps())
	out := make([]apiEvent, 0, len(result.Events))
	for _, e := range result.Events {
		out = append(out, apiEvent{
			ID:        e.ID,
			Title:     e.Title,
			Start:     e.Start,
			End:       e.End,
			AllDay:    e.AllDay,
			HasJoined: e.HasJoined,
			Color:     e.Resource.Color,
			Priority:  e.Resource.Priority,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
