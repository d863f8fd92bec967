package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/adapters/http/middleware"
	"fitflow/internal/application/listutil"
	"fitflow/internal/domain/calendar"
	"fitflow/internal/domain/errmsg"
	"fitflow/internal/domain/role"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Display layouts.
const (
	displayTime     = "Mon 2 Jan 2006, 15:04"
	displayDate     = "2 Jan 2006"
	displayClock    = "15:04"
	defaultSlotHour = 9
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func formatTime(layout string) func(t any) string {
	return func(t any) string {
		switch v := t.(type) {
		case time.Time:
			if v.IsZero() {
				return ""
			}
			return v.In(viewerLoc).Format(layout)
		case *time.Time:
			if v == nil || v.IsZero() {
				return ""
			}
			return v.In(viewerLoc).Format(layout)
		}
		return ""
	}
}

// staticFuncs do not depend on the request and are bound at parse time.
var staticFuncs = template.FuncMap{
	"renderMarkdown": renderMarkdown,
	"fmtTime":        formatTime(displayTime),
	"fmtDate":        formatTime(displayDate),
	"fmtClock":       formatTime(displayClock),
	"priorityGlyph":  calendar.PriorityGlyph,
	"joinedGlyph":    func() string { return calendar.JoinedGlyph },
	"dateParam":      func(t time.Time) string { return t.Format(calendar.DateLayout) },
	"slotStart": func(day time.Time) string {
		return time.Date(day.Year(), day.Month(), day.Day(), defaultSlotHour, 0, 0, 0, day.Location()).Format("2006-01-02T15:04")
	},
	"perPageOptions": func() []int { return listutil.PerPageOptions },
	"percent":        func(ratio float64) string { return strconv.FormatFloat(ratio*100, 'f', 0, 64) + "%" },
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
}

// requestFuncs are replaced per render; the stubs only make parsing succeed.
var requestFuncs = template.FuncMap{
	"currentRole": func() role.Role { return "" },
	"currentName": func() string { return "" },
	"isLoggedIn":  func() bool { return false },
	"isAdmin":     func() bool { return false },
	"csrfField":   func() template.HTML { return "" },
	"flash":       func() *Flash { return nil },
	"activePath":  func(string) bool { return false },
}

var (
	pagesOnce sync.Once
	pages     map[string]*template.Template
	pagesErr  error
)

// loadPages parses layout.html and partials.html with each page once.
func loadPages() (map[string]*template.Template, error) {
	pagesOnce.Do(func() {
		names, err := fs.Glob(templateFS, "templates/*.html")
		if err != nil {
			pagesErr = err
			return
		}
		pages = make(map[string]*template.Template, len(names))
		for _, name := range names {
			base := strings.TrimPrefix(name, "templates/")
			if base == "layout.html" || base == "partials.html" {
				continue
			}
			tpl, err := template.New("layout.html").Funcs(staticFuncs).Funcs(requestFuncs).ParseFS(templateFS,
				"templates/layout.html", "templates/partials.html", name)
			if err != nil {
				pagesErr = err
				return
			}
			pages[base] = tpl
		}
	})
	return pages, pagesErr
}

// renderTemplate renders a page inside the layout with the viewer's context.
// A queued toast is consumed here.
func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderStatus(w, r, http.StatusOK, templateName, data)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	all, err := loadPages()
	if err != nil {
		internalError(w, err)
		return
	}
	base, ok := all[templateName]
	if !ok {
		http.Error(w, "Template not found: "+templateName, http.StatusInternalServerError)
		return
	}

	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	viewerRole := middleware.RoleFromContext(r.Context())
	fl := takeFlash(w, r)

	tpl, err := base.Clone()
	if err != nil {
		internalError(w, err)
		return
	}
	tpl.Funcs(template.FuncMap{
		"currentRole": func() role.Role { return viewerRole },
		"currentName": func() string { return sess.Name },
		"isLoggedIn":  func() bool { return loggedIn },
		"isAdmin":     func() bool { return viewerRole.IsAdmin() },
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"flash":       func() *Flash { return fl },
		"activePath": func(prefix string) bool {
			if prefix == "/home" {
				return r.URL.Path == "/home"
			}
			return strings.HasPrefix(r.URL.Path, prefix)
		},
	})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		slog.Error("render_error", "template", templateName, "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// redirectAuthFailure handles the backend failures every page treats alike.
// A rejected token ends the session and goes to /login; a refusal goes to /unauthorized.
// POST: returns true when a redirect was written
func redirectAuthFailure(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case backend.IsUnauthorized(err):
		middleware.EndSession(w, r, sessions)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return true
	case backend.IsForbidden(err):
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return true
	}
	return false
}

// failAndRedirect reports a failed mutation as a toast and redirects to target.
func failAndRedirect(w http.ResponseWriter, r *http.Request, err error, fallback, target string) {
	if redirectAuthFailure(w, r, err) {
		return
	}
	setFlash(w, FlashError, errmsg.FromError(err, fallback))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// viewer returns the bearer token and role of the signed-in request.
// PRE: the route is behind Guard
func viewer(r *http.Request) (string, role.Role) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess.Token, middleware.RoleFromContext(r.Context())
}
