package web

import (
	"log/slog"
	"net/http"

	"fitflow/internal/adapters/http/middleware"
	"fitflow/internal/application/orchestrators"
	"fitflow/internal/domain/errmsg"
	"fitflow/internal/domain/validation"
)

// Toast fallbacks for failures that carry no backend code.
const (
	msgLoginFailed    = "Login failed."
	msgRegisterFailed = "Registration failed."
	msgVerifyFailed   = "Verification failed."
	msgRegistered     = "Registration successful. Enter the code we emailed you."
	msgVerified       = "Email verified. You can now log in."
	msgLoggedOut      = "You have been logged out."
)

// formPage is the view-model shared by the simple forms.
type formPage struct {
	Values map[string]string
	Errors validation.Errors
	Error  string // toast shown inline on a re-render
	Gym    bool
	Email  string
}

func formValues(r *http.Request, names ...string) map[string]string {
	v := make(map[string]string, len(names))
	for _, n := range names {
		v[n] = r.FormValue(n)
	}
	return v
}

// applyFormError fills page from a rejected submit.
// POST: returns false when err was written as a redirect instead
func applyFormError(w http.ResponseWriter, r *http.Request, page *formPage, err error, fallback string) bool {
	if fe, ok := orchestrators.AsFormError(err); ok {
		page.Errors = fe.Errors
		return true
	}
	if redirectAuthFailure(w, r, err) {
		return false
	}
	page.Error = errmsg.FromError(err, fallback)
	return true
}

// handleLoginPage renders the login form.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", formPage{Values: map[string]string{"email": pendingEmail(r)}})
}

// handleLogin handles POST /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	sess, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		Backend:  api,
		Sessions: sessions,
		Now:      timeNow,
	})
	if err != nil {
		page := formPage{Values: map[string]string{"email": input.Email}}
		if !applyFormError(w, r, &page, err, msgLoginFailed) {
			return
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "login.html", page)
		return
	}

	middleware.SetSessionCookie(w, sess, timeNow())
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := orchestrators.ExecuteLogout(r.Context(), cookie.Value, sessions); err != nil {
			slog.Error("session_event", "event", "delete_failed", "error", err.Error())
		}
	}
	middleware.ClearSessionCookie(w)
	setFlash(w, FlashSuccess, msgLoggedOut)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegisterPage renders the user or gym registration form.
func handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "register.html", formPage{Gym: r.URL.Path == "/register-gym"})
}

// handleRegister handles POST /register and /register-gym
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	gym := r.URL.Path == "/register-gym"
	input := orchestrators.RegisterInput{
		Gym:             gym,
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("passwordConfirm"),
		Location:        r.FormValue("location"),
	}
	email, err := orchestrators.ExecuteRegister(r.Context(), input, orchestrators.RegisterDeps{Backend: api})
	if err != nil {
		page := formPage{Gym: gym, Values: formValues(r, "name", "email", "location")}
		if !applyFormError(w, r, &page, err, msgRegisterFailed) {
			return
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	setPendingEmail(w, email)
	setFlash(w, FlashSuccess, msgRegistered)
	http.Redirect(w, r, "/verify-token", http.StatusSeeOther)
}

// handleVerifyPage renders the PIN form for the remembered email.
func handleVerifyPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "verify.html", formPage{Email: pendingEmail(r)})
}

// handleVerify handles POST /verify-token
func handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	email := pendingEmail(r)
	err := orchestrators.ExecuteVerifyToken(r.Context(), orchestrators.VerifyTokenInput{
		Email: email,
		PIN:   r.FormValue("pin"),
	}, orchestrators.RegisterDeps{Backend: api})
	if err != nil {
		page := formPage{Email: email}
		if !applyFormError(w, r, &page, err, msgVerifyFailed) {
			return
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "verify.html", page)
		return
	}

	clearCookie(w, pendingEmailCookieName)
	setFlash(w, FlashSuccess, msgVerified)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
