package web

import (
	"net/http"

	"fitflow/internal/adapters/http/middleware"
)

// registerRoutes mounts every page and action.
// Paths under /home are guarded; /home/admin additionally needs Admin.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /unauthorized", handleUnauthorized)

	// Auth
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)
	mux.HandleFunc("GET /register", handleRegisterPage)
	mux.HandleFunc("POST /register", handleRegister)
	mux.HandleFunc("GET /register-gym", handleRegisterPage)
	mux.HandleFunc("POST /register-gym", handleRegister)
	mux.HandleFunc("GET /verify-token", handleVerifyPage)
	mux.HandleFunc("POST /verify-token", handleVerify)

	// Calendar
	mux.HandleFunc("GET /home", handleCalendar)
	mux.HandleFunc("POST /home/fitness-plan", handleSelectFitnessPlan)
	mux.HandleFunc("GET /api/events", handleEventsAPI)

	// Classes
	mux.HandleFunc("GET /home/classes/new", handleNewClassPage)
	mux.HandleFunc("POST /home/classes/new", handleCreateClass)
	mux.HandleFunc("GET /home/class/{id}", handleClassDetail)
	mux.HandleFunc("POST /home/class/{id}/toggle", handleToggleJoin)
	mux.HandleFunc("GET /home/class/{id}/delete", handleConfirmDeleteClass)
	mux.HandleFunc("POST /home/class/{id}/delete", handleDeleteClass)
	mux.HandleFunc("GET /home/class/{id}/participants/{userID}/remove", handleConfirmRemoveParticipant)
	mux.HandleFunc("POST /home/class/{id}/participants/{userID}/remove", handleRemoveParticipant)

	// Rewards
	mux.HandleFunc("GET /home/rewards", handleRewards)
	mux.HandleFunc("POST /home/rewards/{id}/claim", handleClaimReward)

	// Settings and info
	mux.HandleFunc("GET /home/settings", handleSettingsPage)
	mux.HandleFunc("POST /home/settings", handleUpdateSettings)
	mux.HandleFunc("GET /home/info", handleInfo)

	// Admin
	mux.HandleFunc("GET /home/admin/users", handleAdminUsers)
	mux.HandleFunc("GET /home/admin/users/{id}/{action}", handleConfirmUserAction)
	mux.HandleFunc("POST /home/admin/users/{id}/{action}", handleUserAction)
	mux.HandleFunc("GET /home/admin/rewards/settings", handleRewardSettingsPage)
	mux.HandleFunc("POST /home/admin/rewards/settings", handleChangeFitnessReward)
	mux.HandleFunc("GET /home/admin/rewards/add", handleAddRewardPage)
	mux.HandleFunc("POST /home/admin/rewards/add", handleAddReward)
	mux.HandleFunc("GET /home/admin/perf", handleAdminPerf)
}

// handleRoot sends signed-in viewers to the calendar and everyone else to /login.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleUnauthorized renders the access-denied page.
func handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, r, http.StatusForbidden, "unauthorized.html", nil)
}
