package web

import (
	"net/http"

	"fitflow/internal/application/orchestrators"
	"fitflow/internal/application/projections"
	"fitflow/internal/domain/errmsg"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
	"fitflow/internal/domain/validation"
)

const (
	msgSettingsLoadFailed = "Failed to load user data."
	msgSettingsSaved      = "Settings saved."
	msgSettingsUnchanged  = "Nothing to update."
	msgSettingsFailed     = "Failed to update settings."
)

type settingsPage struct {
	projections.SettingsView
	Errors validation.Errors
	Error  string
}

// handleSettingsPage handles GET /home/settings
func handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	view, err := projections.QueryGetSettings(r.Context(), token, viewerRole, api)
	page := settingsPage{SettingsView: view}
	if err != nil {
		if redirectAuthFailure(w, r, err) {
			return
		}
		page.Error = msgSettingsLoadFailed
	}
	renderTemplate(w, r, "settings.html", page)
}

// handleUpdateSettings handles POST /home/settings
func handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	token, viewerRole := viewer(r)
	form := user.SettingsForm{
		Name:            r.FormValue("name"),
		Location:        r.FormValue("location"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("passwordConfirm"),
		FitnessPlan:     r.FormValue("fitnessPlan"),
	}
	changed, err := orchestrators.ExecuteUpdateSettings(r.Context(), orchestrators.UpdateSettingsInput{
		Token:  token,
		Viewer: viewerRole,
		Form:   form,
	}, orchestrators.UpdateSettingsDeps{Backend: api})
	if err != nil {
		page := settingsPage{SettingsView: projections.SettingsView{
			Profile:      user.Settings{Name: form.Name, Location: form.Location},
			ShowLocation: viewerRole == role.GymOwner,
			ShowPlan:     viewerRole == role.NormalUser,
			PlanValue:    form.FitnessPlan,
			Plans:        user.Plans,
		}}
		if fe, ok := orchestrators.AsFormError(err); ok {
			page.Errors = fe.Errors
		} else if redirectAuthFailure(w, r, err) {
			return
		} else {
			page.Error = errmsg.FromError(err, msgSettingsFailed)
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "settings.html", page)
		return
	}

	if changed {
		setFlash(w, FlashSuccess, msgSettingsSaved)
	} else {
		setFlash(w, FlashSuccess, msgSettingsUnchanged)
	}
	http.Redirect(w, r, "/home/settings", http.StatusSeeOther)
}

// handleInfo handles GET /home/info
func handleInfo(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "info.html", user.Plans)
}
