package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	sessionContextKey contextKey = "session"
	roleContextKey    contextKey = "role"
)

// SessionCookieName holds the opaque session id; the bearer token never leaves the server.
const SessionCookieName = "fitflow_session"

// SecureCookies marks cookies Secure. Set from configuration in production.
var SecureCookies = false

// SessionReader loads and removes stored sessions.
type SessionReader interface {
	Get(ctx context.Context, id string, now time.Time) (session.Session, error)
	Touch(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// RoleReader resolves the viewer's role from the backend.
type RoleReader interface {
	GetRole(ctx context.Context, token string) (role.Role, error)
}

// Auth returns middleware that loads the session named by the cookie into the context.
// It does NOT block anonymous requests; Guard does that for /home.
func Auth(sessions SessionReader, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				t := now()
				sess, err := sessions.Get(r.Context(), cookie.Value, t)
				switch {
				case err == nil:
					if err := sessions.Touch(r.Context(), sess.ID, t); err != nil {
						slog.Warn("session_event", "event", "touch_failed", "error", err.Error())
					}
					r = r.WithContext(ContextWithSession(r.Context(), sess))
				case errors.Is(err, session.ErrNotFound):
					ClearSessionCookie(w)
				default:
					slog.Error("session_event", "event", "load_failed", "error", err.Error())
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard protects the signed-in area.
// Any /home path needs a session and a role the backend confirms; /home/admin
// additionally needs Admin. The resolved role is put into the context.
// INVARIANT: the role is re-read from the backend on every guarded request
func Guard(roles RoleReader, sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path != "/home" && !strings.HasPrefix(path, "/home/") {
				next.ServeHTTP(w, r)
				return
			}
			sess, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			viewer, err := roles.GetRole(r.Context(), sess.Token)
			if err != nil {
				switch {
				case backend.IsForbidden(err):
					http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
				case backend.IsUnauthorized(err):
					EndSession(w, r, sessions)
					http.Redirect(w, r, "/login", http.StatusSeeOther)
				default:
					slog.Warn("auth_event", "event", "role_fetch_failed", "path", path, "error", err.Error())
					http.Redirect(w, r, "/login", http.StatusSeeOther)
				}
				return
			}

			if (path == "/home/admin" || strings.HasPrefix(path, "/home/admin/")) && !viewer.IsAdmin() {
				slog.Info("auth_event", "event", "admin_denied", "path", path, "role", viewer.String())
				http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithRole(r.Context(), viewer)))
		})
	}
}

// EndSession deletes the stored session of the request and clears the cookie.
// PRE: none
// POST: the cookie is expired whether or not a session was stored
func EndSession(w http.ResponseWriter, r *http.Request, sessions SessionReader) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := sessions.Delete(r.Context(), cookie.Value); err != nil {
			slog.Error("session_event", "event", "delete_failed", "error", err.Error())
		}
	}
	ClearSessionCookie(w)
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// RoleFromContext returns the role Guard resolved, or "" outside /home.
func RoleFromContext(ctx context.Context) role.Role {
	r, _ := ctx.Value(roleContextKey).(role.Role)
	return r
}

// ContextWithRole returns a context carrying the resolved role.
// Intended for Guard and tests.
func ContextWithRole(ctx context.Context, r role.Role) context.Context {
	return context.WithValue(ctx, roleContextKey, r)
}

// SetSessionCookie sets the session cookie to expire with the session.
func SetSessionCookie(w http.ResponseWriter, sess session.Session, now time.Time) {
	maxAge := int(sess.ExpiresAt.Sub(now).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
