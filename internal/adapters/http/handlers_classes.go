package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fitflow/internal/application/orchestrators"
	"fitflow/internal/application/projections"
	"fitflow/internal/domain/calendar"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/errmsg"
	"fitflow/internal/domain/validation"
)

const (
	msgClassCreated       = "Class created successfully."
	msgClassCreateFailed  = "Failed to create class."
	msgClassLoadFailed    = "Failed to load class."
	msgClassDeleted       = "Class deleted."
	msgClassDeleteFailed  = "Failed to delete class."
	msgJoined             = "You joined the class."
	msgLeft               = "You left the class."
	msgToggleFailed       = "Failed to update participation."
	msgParticipantRemoved = "Participant removed."
	msgRemoveFailed       = "Failed to remove participant."
	msgRemoveTooEarly     = "Participants can only be removed after the class has ended."
)

// classFormPage is the class-creation view-model.
type classFormPage struct {
	Form       classsession.ClassForm
	Errors     validation.Errors
	Error      string
	Trainers   []string
	Priorities []classsession.Priority
}

// confirmPage is the generic confirmation dialog.
// Cancel is a plain link; only Confirm submits.
type confirmPage struct {
	Title     string
	Message   string
	Action    string
	Confirm   string
	CancelURL string
	Danger    bool
}

func classURL(id string) string {
	return "/home/class/" + id
}

// trainerOptions lists known trainers for the form; a failure leaves a free-text field.
func trainerOptions(r *http.Request, token string) []string {
	trainers, err := api.ListTrainers(r.Context(), token)
	if err != nil {
		slog.Warn("class_event", "event", "load_failed", "what", "trainers", "error", err.Error())
	}
	return trainers
}

// selectionTimes reads the calendar selection; a missing start means the next full hour.
func selectionTimes(r *http.Request) (time.Time, time.Time) {
	q := r.URL.Query()
	now := timeNow().In(viewerLoc)
	start, err := time.ParseInLocation(classsession.InputLayout, q.Get("start"), viewerLoc)
	if err != nil {
		start = now.Truncate(time.Hour).Add(time.Hour)
	}
	end, err := time.ParseInLocation(classsession.InputLayout, q.Get("end"), viewerLoc)
	if err != nil {
		end = time.Time{}
	}
	return start, end
}

// handleNewClassPage handles GET /home/classes/new?start=..&end=..
func handleNewClassPage(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	if !viewerRole.CanCreateClass() {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}
	start, end := selectionTimes(r)
	renderTemplate(w, r, "class_new.html", classFormPage{
		Form:       classsession.DefaultClassForm(start, end),
		Trainers:   trainerOptions(r, token),
		Priorities: classsession.Priorities,
	})
}

// handleCreateClass handles POST /home/classes/new
func handleCreateClass(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	token, viewerRole := viewer(r)
	form := classsession.ClassForm{
		TrainerName: r.FormValue("trainerName"),
		Priority:    r.FormValue("priority"),
		Interval:    r.FormValue("interval"),
		Start:       r.FormValue("startDate"),
		End:         r.FormValue("endDate"),
	}
	class, err := orchestrators.ExecuteCreateClass(r.Context(), orchestrators.CreateClassInput{
		Token:    token,
		Viewer:   viewerRole,
		Form:     form,
		Location: viewerLoc,
	}, orchestrators.CreateClassDeps{Backend: api, Now: timeNow})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		page := classFormPage{Form: form, Trainers: trainerOptions(r, token), Priorities: classsession.Priorities}
		if fe, ok := orchestrators.AsFormError(err); ok {
			page.Errors = fe.Errors
		} else if redirectAuthFailure(w, r, err) {
			return
		} else {
			page.Error = errmsg.FromError(err, msgClassCreateFailed)
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "class_new.html", page)
		return
	}

	setFlash(w, FlashSuccess, msgClassCreated)
	http.Redirect(w, r, calendarURL(calendar.ViewMonth, class.Start.Format(calendar.DateLayout), false), http.StatusSeeOther)
}

// handleClassDetail handles GET /home/class/{id}
func handleClassDetail(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	result, err := projections.QueryGetClassDetail(r.Context(), projections.GetClassDetailQuery{
		Token:   token,
		Viewer:  viewerRole,
		ClassID: r.PathValue("id"),
		Now:     timeNow(),
	}, projections.GetClassDetailDeps{Classes: api})
	if err != nil {
		failAndRedirect(w, r, err, msgClassLoadFailed, "/home")
		return
	}
	renderTemplate(w, r, "class_detail.html", result)
}

// handleToggleJoin handles POST /home/class/{id}/toggle
func handleToggleJoin(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	id := r.PathValue("id")
	result, err := orchestrators.ExecuteToggleJoin(r.Context(), orchestrators.ToggleJoinInput{
		Token:   token,
		Viewer:  viewerRole,
		ClassID: id,
	}, orchestrators.ToggleJoinDeps{Backend: api})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgToggleFailed, classURL(id))
		return
	}
	msg := msgLeft
	if result.Joined {
		msg = msgJoined
	}
	setFlash(w, FlashSuccess, msg)
	http.Redirect(w, r, classURL(id), http.StatusSeeOther)
}

// handleConfirmDeleteClass handles GET /home/class/{id}/delete
func handleConfirmDeleteClass(w http.ResponseWriter, r *http.Request) {
	_, viewerRole := viewer(r)
	if !viewerRole.CanDeleteClass() {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}
	id := r.PathValue("id")
	renderTemplate(w, r, "confirm.html", confirmPage{
		Title:     "Delete class",
		Message:   "Are you sure you want to delete this class? This cannot be undone.",
		Action:    r.URL.Path,
		Confirm:   "Delete",
		CancelURL: classURL(id),
		Danger:    true,
	})
}

// handleDeleteClass handles POST /home/class/{id}/delete
func handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	id := r.PathValue("id")
	err := orchestrators.ExecuteDeleteClass(r.Context(), orchestrators.DeleteClassInput{
		Token:   token,
		Viewer:  viewerRole,
		ClassID: id,
	}, orchestrators.DeleteClassDeps{Backend: api})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgClassDeleteFailed, classURL(id))
		return
	}
	setFlash(w, FlashSuccess, msgClassDeleted)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// handleConfirmRemoveParticipant handles GET /home/class/{id}/participants/{userID}/remove
func handleConfirmRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	_, viewerRole := viewer(r)
	if !viewerRole.CanRemoveParticipants() {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "this participant"
	}
	renderTemplate(w, r, "confirm.html", confirmPage{
		Title:     "Remove participant",
		Message:   "Remove " + name + " from this class?",
		Action:    r.URL.Path,
		Confirm:   "Remove",
		CancelURL: classURL(r.PathValue("id")),
		Danger:    true,
	})
}

// handleRemoveParticipant handles POST /home/class/{id}/participants/{userID}/remove
func handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	id := r.PathValue("id")
	err := orchestrators.ExecuteRemoveParticipant(r.Context(), orchestrators.RemoveParticipantInput{
		Token:   token,
		Viewer:  viewerRole,
		ClassID: id,
		UserID:  r.PathValue("userID"),
	}, orchestrators.RemoveParticipantDeps{Backend: api, Now: timeNow})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			setFlash(w, FlashError, msgRemoveTooEarly)
			http.Redirect(w, r, classURL(id), http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgRemoveFailed, classURL(id))
		return
	}
	setFlash(w, FlashSuccess, msgParticipantRemoved)
	http.Redirect(w, r, classURL(id), http.StatusSeeOther)
}
