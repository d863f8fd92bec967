package web

import (
	"log/slog"
	"net/http"
	"time"

	"fitflow/internal/adapters/http/middleware"
)

const (
	flashCookieName        = "fitflow_flash"
	pendingEmailCookieName = "fitflow_pending_email"
)

// pendingEmailLifetime bounds how long a registration waits for its PIN.
const pendingEmailLifetime = time.Hour

// Flash kinds map to the toast styles.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot toast carried to the next rendered page.
type Flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

func setSignedCookie(w http.ResponseWriter, name string, value any, maxAge int) {
	encoded, err := cookieCodec.Encode(name, value)
	if err != nil {
		slog.Error("cookie_event", "event", "encode_failed", "cookie", name, "error", err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// readSignedCookie decodes a signed cookie into dst; tampered or expired cookies read as absent.
func readSignedCookie(r *http.Request, name string, dst any) bool {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return false
	}
	if err := cookieCodec.Decode(name, c.Value, dst); err != nil {
		slog.Debug("cookie_event", "event", "decode_failed", "cookie", name, "error", err.Error())
		return false
	}
	return true
}

// setFlash queues a toast for the next page.
func setFlash(w http.ResponseWriter, kind, message string) {
	setSignedCookie(w, flashCookieName, Flash{Kind: kind, Message: message}, 60)
}

// takeFlash returns the queued toast and clears it.
// PRE: called before the response header is written
func takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	if _, err := r.Cookie(flashCookieName); err != nil {
		return nil
	}
	clearCookie(w, flashCookieName)
	var f Flash
	if !readSignedCookie(r, flashCookieName, &f) || f.Message == "" {
		return nil
	}
	return &f
}

// setPendingEmail remembers the address awaiting verification.
func setPendingEmail(w http.ResponseWriter, email string) {
	setSignedCookie(w, pendingEmailCookieName, email, int(pendingEmailLifetime.Seconds()))
}

// pendingEmail returns the remembered address, or "".
func pendingEmail(r *http.Request) string {
	var email string
	if !readSignedCookie(r, pendingEmailCookieName, &email) {
		return ""
	}
	return email
}
