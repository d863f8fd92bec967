package projections

import (
	"context"

	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

// SettingsView is the settings page view-model.
type SettingsView struct {
	Profile      user.Settings
	ShowLocation bool
	ShowPlan     bool
	PlanValue    string // selected option, "" when no plan is set
	Plans        []user.FitnessPlan
}

// QueryGetSettings pre-fills the settings form.
// PRE: none
// POST: on error the caller shows "Failed to load user data." and an empty form
func QueryGetSettings(ctx context.Context, token string, viewer role.Role, profiles ProfileReader) (SettingsView, error) {
	view := SettingsView{
		ShowLocation: viewer == role.GymOwner,
		ShowPlan:     viewer == role.NormalUser,
		Plans:        user.Plans,
	}
	profile, err := profiles.CurrentUser(ctx, token)
	if err != nil {
		return view, err
	}
	view.Profile = profile
	if profile.FitnessPlan != nil {
		view.PlanValue = profile.FitnessPlan.String()
	}
	return view, nil
}
