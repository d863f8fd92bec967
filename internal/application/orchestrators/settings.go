package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
	"fitflow/internal/domain/validation"
)

// ProfileUpdater writes the viewer's profile.
type ProfileUpdater interface {
	UpdateUser(ctx context.Context, token string, update user.SettingsUpdate) error
	UpdateFitnessPlan(ctx context.Context, token string, plan user.FitnessPlan) error
}

// UpdateSettingsInput carries input for the update-settings orchestrator.
type UpdateSettingsInput struct {
	Token  string
	Viewer role.Role
	Form   user.SettingsForm
}

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	Backend ProfileUpdater
}

// ExecuteUpdateSettings validates the filled-in fields and sends one partial update.
// Location is kept only for gym owners and the fitness plan only for normal users.
// PRE: Viewer is the role reported by the backend for Token
// POST: returns changed=false without a backend call when nothing was filled in
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) (bool, error) {
	form := input.Form
	form.Name = strings.TrimSpace(form.Name)
	if input.Viewer != role.GymOwner {
		form.Location = ""
	}
	if input.Viewer != role.NormalUser {
		form.FitnessPlan = ""
	}
	if err := formError(form.Validate()); err != nil {
		return false, err
	}

	update := form.Update()
	if update.IsEmpty() {
		return false, nil
	}
	if err := deps.Backend.UpdateUser(ctx, input.Token, update); err != nil {
		slog.Warn("settings_event", "event", "update_failed", "error", err.Error())
		return false, err
	}

	slog.Info("settings_event", "event", "settings_updated",
		"name", update.Name != nil,
		"location", update.Location != nil,
		"password", update.Password != nil,
		"fitness_plan", update.FitnessPlan != nil,
	)
	return true, nil
}

// SelectFitnessPlanInput carries input for the plan-selection prompt.
type SelectFitnessPlanInput struct {
	Token  string
	Viewer role.Role
	Plan   string
}

// ExecuteSelectFitnessPlan stores the plan picked in the calendar prompt.
// PRE: Viewer is NormalUser
// POST: one UpdateFitnessPlan call for a known plan
func ExecuteSelectFitnessPlan(ctx context.Context, input SelectFitnessPlanInput, deps UpdateSettingsDeps) (user.FitnessPlan, error) {
	if !input.Viewer.NeedsFitnessPlanCheck() {
		return 0, ErrNotPermitted
	}
	plan, err := user.ParsePlan(input.Plan)
	if err != nil {
		var errs validation.Errors
		errs.Add("fitnessPlan", user.MsgSelectPlan)
		return 0, formError(errs)
	}
	if err := deps.Backend.UpdateFitnessPlan(ctx, input.Token, plan); err != nil {
		slog.Warn("settings_event", "event", "plan_update_failed", "plan", plan.String(), "error", err.Error())
		return 0, err
	}
	slog.Info("settings_event", "event", "plan_selected", "plan", plan.String())
	return plan, nil
}
