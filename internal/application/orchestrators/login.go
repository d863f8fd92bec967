package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/domain/session"
	"fitflow/internal/domain/user"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, creds user.Credentials) (backend.LoginResult, error)
}

// SessionStore persists viewer sessions.
type SessionStore interface {
	Save(ctx context.Context, value session.Session) error
	Delete(ctx context.Context, id string) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Backend  Authenticator
	Sessions SessionStore
	Now      func() time.Time
}

// ExecuteLogin validates the form, signs in against the backend and opens a session.
// PRE: none
// POST: on success the returned session is persisted and carries the bearer token
// INVARIANT: no backend call for an invalid email
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (session.Session, error) {
	creds := user.Credentials{Email: strings.TrimSpace(input.Email), Password: input.Password}
	if err := formError(creds.Validate()); err != nil {
		return session.Session{}, err
	}

	res, err := deps.Backend.Login(ctx, creds)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", creds.Email, "error", err.Error())
		return session.Session{}, err
	}

	sess, err := session.New(res.Token, res.User.Name, creds.Email, deps.Now())
	if err != nil {
		return session.Session{}, err
	}
	if err := deps.Sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", creds.Email, "role", res.User.Role)
	return sess, nil
}

// ExecuteLogout deletes the server-side session.
// PRE: none
// POST: the session row no longer exists; an empty id is a no-op
func ExecuteLogout(ctx context.Context, sessionID string, sessions SessionStore) error {
	if sessionID == "" {
		return nil
	}
	if err := sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout", "session_id", sessionID)
	return nil
}
