package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fitflow/internal/adapters/http/perf"
	"fitflow/internal/application/orchestrators"
	"fitflow/internal/application/projections"
	"fitflow/internal/domain/errmsg"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/user"
	"fitflow/internal/domain/validation"
)

const (
	msgUsersLoadFailed   = "Failed to load users."
	msgUserDeleted       = "User deleted."
	msgUserToggled       = "User status updated."
	msgUserActionFailed  = "Failed to update user."
	msgPlanRewardsFailed = "Failed to load reward settings."
	msgPlanRewardFailed  = "Failed to update reward."
	msgRewardAdded       = "Reward added."
	msgRewardAddFailed   = "Failed to add reward."
)

const (
	adminUsersPath         = "/home/admin/users"
	adminRewardSettingPath = "/home/admin/rewards/settings"
	defaultPerfWindow      = time.Hour
	perfTopN               = 10
)

type usersPage struct {
	projections.GetUserListResult
	Error string
}

// handleAdminUsers handles GET /home/admin/users
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	token, _ := viewer(r)
	result, err := projections.QueryGetUserList(r.Context(), projections.GetUserListQuery{
		Token:  token,
		Values: r.URL.Query(),
	}, projections.GetUserListDeps{Users: api})
	if err != nil {
		if redirectAuthFailure(w, r, err) {
			return
		}
		renderTemplate(w, r, "admin_users.html", usersPage{Error: errmsg.FromError(err, msgUsersLoadFailed)})
		return
	}
	renderTemplate(w, r, "admin_users.html", usersPage{GetUserListResult: result})
}

// userActions maps the {action} path segment to its confirmation text and orchestrator.
var userActions = map[string]struct {
	title   string
	message string
	confirm string
	run     func(r *http.Request, input orchestrators.UserActionInput) error
	done    string
}{
	"delete": {
		title:   "Delete user",
		message: "Are you sure you want to delete %s? This cannot be undone.",
		confirm: "Delete",
		run: func(r *http.Request, input orchestrators.UserActionInput) error {
			return orchestrators.ExecuteDeleteUser(r.Context(), input, orchestrators.UserActionDeps{Backend: api})
		},
		done: msgUserDeleted,
	},
	"toggle": {
		title:   "Change user status",
		message: "Toggle the active status of %s?",
		confirm: "Confirm",
		run: func(r *http.Request, input orchestrators.UserActionInput) error {
			return orchestrators.ExecuteToggleUser(r.Context(), input, orchestrators.UserActionDeps{Backend: api})
		},
		done: msgUserToggled,
	},
}

// handleConfirmUserAction handles GET /home/admin/users/{id}/{action}
func handleConfirmUserAction(w http.ResponseWriter, r *http.Request) {
	action, ok := userActions[r.PathValue("action")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "this user"
	}
	renderTemplate(w, r, "confirm.html", confirmPage{
		Title:     action.title,
		Message:   fmt.Sprintf(action.message, name),
		Action:    r.URL.Path,
		Confirm:   action.confirm,
		CancelURL: adminUsersPath,
		Danger:    r.PathValue("action") == "delete",
	})
}

// handleUserAction handles POST /home/admin/users/{id}/{action}
// The list is re-read on the redirect; nothing is patched locally.
func handleUserAction(w http.ResponseWriter, r *http.Request) {
	action, ok := userActions[r.PathValue("action")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	token, viewerRole := viewer(r)
	err := action.run(r, orchestrators.UserActionInput{Token: token, Viewer: viewerRole, UserID: r.PathValue("id")})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgUserActionFailed, adminUsersPath)
		return
	}
	setFlash(w, FlashSuccess, action.done)
	http.Redirect(w, r, adminUsersPath, http.StatusSeeOther)
}

type rewardSettingsPage struct {
	Rows  []projections.PlanRewardRow
	Error string
}

// handleRewardSettingsPage handles GET /home/admin/rewards/settings
func handleRewardSettingsPage(w http.ResponseWriter, r *http.Request) {
	token, _ := viewer(r)
	rows, err := projections.QueryGetRewardSettings(r.Context(), token, api)
	if err != nil {
		if redirectAuthFailure(w, r, err) {
			return
		}
		renderTemplate(w, r, "admin_reward_settings.html", rewardSettingsPage{Error: errmsg.FromError(err, msgPlanRewardsFailed)})
		return
	}
	renderTemplate(w, r, "admin_reward_settings.html", rewardSettingsPage{Rows: rows})
}

// handleChangeFitnessReward handles POST /home/admin/rewards/settings for one plan row.
func handleChangeFitnessReward(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	plan, err := user.ParsePlan(r.FormValue("plan"))
	if err != nil {
		setFlash(w, FlashError, err.Error())
		http.Redirect(w, r, adminRewardSettingPath, http.StatusSeeOther)
		return
	}
	token, viewerRole := viewer(r)
	err = orchestrators.ExecuteChangeFitnessReward(r.Context(), orchestrators.ChangeFitnessRewardInput{
		Token:  token,
		Viewer: viewerRole,
		Change: reward.PlanRewardChange{FitnessPlan: plan, Name: r.FormValue("name")},
	}, orchestrators.RewardDeps{Backend: api})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		if fe, ok := orchestrators.AsFormError(err); ok {
			setFlash(w, FlashError, fe.Errors.List()[0])
			http.Redirect(w, r, adminRewardSettingPath, http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgPlanRewardFailed, adminRewardSettingPath)
		return
	}
	setFlash(w, FlashSuccess, reward.UpdatedMessage(plan.String()))
	http.Redirect(w, r, adminRewardSettingPath, http.StatusSeeOther)
}

type addRewardPage struct {
	projections.AddRewardOptions
	Values map[string]string
	Errors validation.Errors
	Error  string
}

// handleAddRewardPage handles GET /home/admin/rewards/add
func handleAddRewardPage(w http.ResponseWriter, r *http.Request) {
	token, _ := viewer(r)
	renderTemplate(w, r, "admin_add_reward.html", addRewardPage{
		AddRewardOptions: projections.QueryGetAddRewardOptions(r.Context(), token, api),
	})
}

// handleAddReward handles POST /home/admin/rewards/add
func handleAddReward(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	token, viewerRole := viewer(r)
	grant := reward.Grant{
		NormalUserID: r.FormValue("normalUserId"),
		GymID:        r.FormValue("gymId"),
		Name:         r.FormValue("name"),
	}
	err := orchestrators.ExecuteAddReward(r.Context(), orchestrators.AddRewardInput{
		Token:  token,
		Viewer: viewerRole,
		Grant:  grant,
	}, orchestrators.RewardDeps{Backend: api})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		page := addRewardPage{
			AddRewardOptions: projections.QueryGetAddRewardOptions(r.Context(), token, api),
			Values:           formValues(r, "normalUserId", "gymId", "name"),
		}
		if fe, ok := orchestrators.AsFormError(err); ok {
			page.Errors = fe.Errors
		} else if redirectAuthFailure(w, r, err) {
			return
		} else {
			page.Error = errmsg.FromError(err, msgRewardAddFailed)
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "admin_add_reward.html", page)
		return
	}
	setFlash(w, FlashSuccess, msgRewardAdded)
	http.Redirect(w, r, "/home/rewards", http.StatusSeeOther)
}

type perfPage struct {
	perf.Snapshot
	Window   time.Duration
	Recorded int64
	Enabled  bool
}

// handleAdminPerf handles GET /home/admin/perf?window=15m
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	window := defaultPerfWindow
	if d, err := time.ParseDuration(r.URL.Query().Get("window")); err == nil && d > 0 {
		window = d
	}
	page := perfPage{Window: window}
	if perfCollector != nil {
		page.Enabled = true
		page.Snapshot = perfCollector.Snapshot(timeNow().Add(-window), perfTopN)
		page.Recorded = perfCollector.TotalRecorded()
	}
	renderTemplate(w, r, "admin_perf.html", page)
}
