package orchestrators

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"fitflow/internal/domain/user"
)

// Registrar creates accounts and verifies their email.
type Registrar interface {
	RegisterUser(ctx context.Context, reg user.Registration) error
	RegisterGym(ctx context.Context, reg user.Registration) error
	VerifyToken(ctx context.Context, v user.Verification) error
}

// RegisterInput carries the submitted registration form.
// Location is used only when Gym is set.
type RegisterInput struct {
	Gym             bool
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Location        string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	Backend Registrar
}

// ExecuteRegister validates a user or gym registration and submits it once.
// PRE: none
// POST: on success the account awaits email verification for the returned email
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (string, error) {
	reg := user.Registration{
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.TrimSpace(input.Email),
		Password:        input.Password,
		PasswordConfirm: input.PasswordConfirm,
	}
	kind := "user"
	if input.Gym {
		kind = "gym"
		reg.Location = strings.TrimSpace(input.Location)
		if err := formError(reg.ValidateGym()); err != nil {
			return "", err
		}
	} else if err := formError(reg.Validate()); err != nil {
		return "", err
	}

	var err error
	if input.Gym {
		err = deps.Backend.RegisterGym(ctx, reg)
	} else {
		err = deps.Backend.RegisterUser(ctx, reg)
	}
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "kind", kind, "email", reg.Email, "error", err.Error())
		return "", err
	}

	slog.Info("auth_event", "event", "registered", "kind", kind, "email", reg.Email)
	return reg.Email, nil
}

// VerifyTokenInput carries input for the verify-token orchestrator.
type VerifyTokenInput struct {
	Email string
	PIN   string
}

// ExecuteVerifyToken confirms the remembered email with the emailed PIN.
// PRE: Email is the address of a pending registration
// POST: one VerifyToken call when the PIN is four digits
func ExecuteVerifyToken(ctx context.Context, input VerifyTokenInput, deps RegisterDeps) error {
	pin := strings.TrimSpace(input.PIN)
	var v user.Verification
	v.Email = strings.TrimSpace(input.Email)
	errs := user.VerificationErrors(v.Email, pin)
	if err := formError(errs); err != nil {
		return err
	}
	v.Token, _ = strconv.Atoi(pin)

	if err := deps.Backend.VerifyToken(ctx, v); err != nil {
		slog.Info("auth_event", "event", "verify_failed", "email", v.Email, "error", err.Error())
		return err
	}
	slog.Info("auth_event", "event", "email_verified", "email", v.Email)
	return nil
}
