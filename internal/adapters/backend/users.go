package backend

import (
	"context"
	"fmt"
	"net/http"

	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

// LoginUser is the account summary returned on login.
type LoginUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}

// GetRole asks the backend for the viewer's role.
// Not cached: the role is read once per page load.
// POST: returns a role from the closed set or an error
func (c *Client) GetRole(ctx context.Context, token string) (role.Role, error) {
	body, err := c.send(ctx, call{
		method: http.MethodGet,
		route:  "api/Users/get-role",
		path:   "api/Users/get-role",
		token:  token,
	})
	if err != nil {
		return "", err
	}
	r, err := role.Parse(string(body))
	if err != nil {
		return "", fmt.Errorf("decode api/Users/get-role: %w", err)
	}
	return r, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds user.Credentials) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "api/Users/login",
		path:   "api/Users/login",
		body:   creds,
	}, &out)
	if err == nil && out.Token == "" {
		return LoginResult{}, fmt.Errorf("decode api/Users/login: empty token")
	}
	return out, err
}

// RegisterUser creates a NormalUser account pending verification.
func (c *Client) RegisterUser(ctx context.Context, reg user.Registration) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Users/register-user",
		path:   "api/Users/register-user",
		body:   reg,
	}, nil, ResourceUsers)
}

// RegisterGym creates a GymOwner account pending verification.
func (c *Client) RegisterGym(ctx context.Context, reg user.Registration) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Users/register-gym",
		path:   "api/Users/register-gym",
		body:   reg,
	}, nil, ResourceUsers, ResourceGyms)
}

// VerifyToken confirms an email address with the emailed PIN.
func (c *Client) VerifyToken(ctx context.Context, v user.Verification) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Users/verify-token",
		path:   "api/Users/verify-token",
		body:   v,
	}, nil, ResourceUsers)
}

// CurrentUser returns the viewer's profile for the settings page.
func (c *Client) CurrentUser(ctx context.Context, token string) (user.Settings, error) {
	var out user.Settings
	err := c.cachedGet(ctx, ResourceProfile, call{
		method: http.MethodGet,
		route:  "api/Users/login-by-jwt",
		path:   "api/Users/login-by-jwt",
		token:  token,
	}, &out)
	return out, err
}

// UpdateUser applies a partial settings update.
func (c *Client) UpdateUser(ctx context.Context, token string, update user.SettingsUpdate) error {
	return c.mutate(ctx, call{
		method: http.MethodPut,
		route:  "api/Users/update-user",
		path:   "api/Users/update-user",
		token:  token,
		body:   update,
	}, nil, ResourceProfile, ResourceUsers)
}

// NeedsFitnessPlan reports whether the viewer still has to pick a plan.
func (c *Client) NeedsFitnessPlan(ctx context.Context, token string) (bool, error) {
	var raw []byte
	err := c.cachedGet(ctx, ResourceProfile, call{
		method: http.MethodGet,
		route:  "api/Users/check-fitness-plan",
		path:   "api/Users/check-fitness-plan",
		token:  token,
	}, (*rawBody)(&raw))
	if err != nil {
		return false, err
	}
	return parseBool("api/Users/check-fitness-plan", raw)
}

// fitnessPlanBody is the update-fitness-plan payload.
type fitnessPlanBody struct {
	FitnessPlan user.FitnessPlan `json:"fitnessPlan"`
}

// UpdateFitnessPlan sets the viewer's fitness plan.
func (c *Client) UpdateFitnessPlan(ctx context.Context, token string, plan user.FitnessPlan) error {
	return c.mutate(ctx, call{
		method: http.MethodPut,
		route:  "api/Users/update-fitness-plan",
		path:   "api/Users/update-fitness-plan",
		token:  token,
		body:   fitnessPlanBody{FitnessPlan: plan},
	}, nil, ResourceProfile, ResourceUsers)
}

// WeeklyProgress returns the viewer's progress for the current week.
func (c *Client) WeeklyProgress(ctx context.Context, token string) (user.WeeklyProgress, error) {
	var out user.WeeklyProgress
	err := c.cachedGet(ctx, ResourceProfile, call{
		method: http.MethodGet,
		route:  "api/Users/get-weekly-progress",
		path:   "api/Users/get-weekly-progress",
		token:  token,
	}, &out)
	return out, err
}

// ListUsers returns every account (Admin only on the backend).
func (c *Client) ListUsers(ctx context.Context, token string) ([]user.AdminRecord, error) {
	var out []user.AdminRecord
	err := c.cachedGet(ctx, ResourceUsers, call{
		method: http.MethodGet,
		route:  "api/Users/get-all",
		path:   "api/Users/get-all",
		token:  token,
	}, &out)
	return out, err
}

// DeleteUser deletes an account.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.mutate(ctx, call{
		method: http.MethodDelete,
		route:  "api/Users/delete/{id}",
		path:   "api/Users/delete/" + seg(id),
		token:  token,
	}, nil, ResourceUsers, ResourceGyms)
}

// ToggleActivate flips an account's active flag.
// The backend exposes this as a GET; it is never cached.
func (c *Client) ToggleActivate(ctx context.Context, token, id string) error {
	return c.mutate(ctx, call{
		method: http.MethodGet,
		route:  "api/Users/toggle-activate/{id}",
		path:   "api/Users/toggle-activate/" + seg(id),
		token:  token,
	}, nil, ResourceUsers)
}

// UserOptions returns NormalUsers as select options.
func (c *Client) UserOptions(ctx context.Context, token string) ([]user.Option, error) {
	var out []user.Option
	err := c.cachedGet(ctx, ResourceUsers, call{
		method: http.MethodGet,
		route:  "api/Users/get-user-options",
		path:   "api/Users/get-user-options",
		token:  token,
	}, &out)
	return out, err
}

// GymOptions returns gyms as select options.
func (c *Client) GymOptions(ctx context.Context, token string) ([]user.Option, error) {
	var out []user.Option
	err := c.cachedGet(ctx, ResourceGyms, call{
		method: http.MethodGet,
		route:  "api/Users/get-gym-options",
		path:   "api/Users/get-gym-options",
		token:  token,
	}, &out)
	return out, err
}
