package web

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/adapters/http/middleware"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/errmsg"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/session"
	"fitflow/internal/domain/user"
)

func sampleClass(id string, start time.Time) classsession.Session {
	return classsession.Session{
		ID:          id,
		TrainerName: "Bruno",
		GymName:     "Iron Temple",
		Color:       "#3174ad",
		Priority:    classsession.PriorityHigh,
		Start:       start,
		End:         start.Add(time.Hour),
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		loginErr   error
		wantStatus int
		wantBody   string
		wantCall   bool
	}{
		{
			name:       "success opens a session",
			email:      "ana@example.com",
			wantStatus: http.StatusSeeOther,
			wantCall:   true,
		},
		{
			name:       "invalid email stays local",
			email:      "not-an-email",
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   user.MsgInvalidEmail,
		},
		{
			name:       "backend code is decoded",
			email:      "ana@example.com",
			loginErr:   apiError(http.StatusBadRequest, "USER_NOT_VERIFIED"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   errmsg.Decode("USER_NOT_VERIFIED"),
			wantCall:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := newMockBackend(role.NormalUser)
			be.login = backend.LoginResult{Token: "bearer-abc", User: backend.LoginUser{Name: "Ana", Role: "NormalUser"}}
			if tt.loginErr != nil {
				be.fail["Login"] = tt.loginErr
			}
			app := newTestApp(t, be)
			b := app.browser(t)
			b.get("/login")

			rec := b.post("/login", url.Values{"email": {tt.email}, "password": {"secret123"}})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d. Body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantBody != "" {
				assertContains(t, rec, html.EscapeString(tt.wantBody))
			}
			if be.called("Login") != tt.wantCall {
				t.Errorf("Login called = %v, want %v", be.called("Login"), tt.wantCall)
			}
			if tt.wantStatus != http.StatusSeeOther {
				return
			}

			cookie, ok := b.jar[middleware.SessionCookieName]
			if !ok {
				t.Fatal("no session cookie set")
			}
			sess, err := app.store.Get(context.Background(), cookie.Value, fixedNow)
			if err != nil {
				t.Fatalf("stored session: %v", err)
			}
			if sess.Token != "bearer-abc" || sess.Name != "Ana" {
				t.Errorf("session = %+v", sess)
			}
		})
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	app := newTestApp(t, newMockBackend(role.NormalUser))
	b := app.browser(t)
	sess := b.signIn("bearer-abc")
	b.get("/home")

	assertRedirect(t, b.post("/logout", nil), "/login")
	if _, err := app.store.Get(context.Background(), sess.ID, fixedNow); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get after logout err = %v, want ErrNotFound", err)
	}
	assertContains(t, b.get("/login"), msgLoggedOut)
}

func TestRegisterAndVerify(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	app := newTestApp(t, be)
	b := app.browser(t)
	b.get("/register-gym")

	rec := b.post("/register-gym", url.Values{
		"name":            {"Iron Temple"},
		"email":           {"gym@example.com"},
		"password":        {"secret123"},
		"passwordConfirm": {"secret123"},
		"location":        {"Lisbon"},
	})
	assertRedirect(t, rec, "/verify-token")
	if !be.called("RegisterGym") {
		t.Fatal("RegisterGym not called")
	}

	page := b.get("/verify-token")
	assertContains(t, page, "gym@example.com", msgRegistered)

	assertRedirect(t, b.post("/verify-token", url.Values{"pin": {"1234"}}), "/login")
	if !be.called("VerifyToken") {
		t.Error("VerifyToken not called")
	}
	if _, ok := b.jar[pendingEmailCookieName]; ok {
		t.Error("pending email cookie survived verification")
	}
}

func TestRegister_CollectsErrors(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	app := newTestApp(t, be)
	b := app.browser(t)
	b.get("/register")

	rec := b.post("/register", url.Values{
		"name":            {"Al"},
		"email":           {"bad"},
		"password":        {"short"},
		"passwordConfirm": {"other"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	assertContains(t, rec, html.EscapeString(user.MsgInvalidEmail), html.EscapeString(user.MsgPasswordTooShort), html.EscapeString(user.MsgPasswordMismatch))
	if be.called("RegisterUser") {
		t.Error("RegisterUser called for an invalid form")
	}
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name        string
		role        role.Role
		roleErr     error
		signedIn    bool
		path        string
		wantStatus  int
		wantTarget  string
		wantSession bool
	}{
		{name: "no session", path: "/home", wantStatus: http.StatusSeeOther, wantTarget: "/login"},
		{name: "normal user on admin", role: role.NormalUser, signedIn: true, path: "/home/admin/users", wantStatus: http.StatusSeeOther, wantTarget: "/unauthorized", wantSession: true},
		{name: "admin on admin", role: role.Admin, signedIn: true, path: "/home/admin/users", wantStatus: http.StatusOK, wantSession: true},
		{name: "rejected token", role: role.NormalUser, roleErr: apiError(http.StatusUnauthorized), signedIn: true, path: "/home", wantStatus: http.StatusSeeOther, wantTarget: "/login"},
		{name: "role fetch fails", role: role.NormalUser, roleErr: errors.New("connection refused"), signedIn: true, path: "/home/settings", wantStatus: http.StatusSeeOther, wantTarget: "/login", wantSession: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := newMockBackend(tt.role)
			if tt.roleErr != nil {
				be.fail["GetRole"] = tt.roleErr
			}
			app := newTestApp(t, be)
			b := app.browser(t)
			var sess session.Session
			if tt.signedIn {
				sess = b.signIn("bearer-abc")
			}

			rec := b.get(tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantTarget != "" {
				assertRedirect(t, rec, tt.wantTarget)
			}
			if !tt.signedIn {
				return
			}
			_, err := app.store.Get(context.Background(), sess.ID, fixedNow)
			if gotSession := err == nil; gotSession != tt.wantSession {
				t.Errorf("session kept = %v, want %v (err %v)", gotSession, tt.wantSession, err)
			}
		})
	}
}

func TestCalendar_Renders(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	be.classes = []classsession.Session{sampleClass("c1", fixedNow.Add(24*time.Hour))}
	be.needsPlan = true
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	rec := b.get("/home")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec, "/home/class/c1", "Bruno", "plan-prompt", user.PlanExpert.Label())

	b.get("/home")
	assertRedirect(t, b.post("/home/fitness-plan", url.Values{"fitnessPlan": {"Advanced"}}), "/home")
	if len(be.selectedPlans) != 1 || be.selectedPlans[0] != user.PlanAdvanced {
		t.Errorf("selected plans = %v", be.selectedPlans)
	}
	assertContains(t, b.get("/home"), msgPlanSaved)
}

func TestCalendar_UnsafeColorFallsBack(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	odd := sampleClass("c2", fixedNow.Add(48*time.Hour))
	odd.Color = "rgb(255, 136, 0)"
	be.classes = []classsession.Session{odd}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	rec := b.get("/home")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec, "/home/class/c2", "background: "+classsession.DefaultColor)
	if body := rec.Body.String(); strings.Contains(body, "ZgotmplZ") || strings.Contains(body, "rgb(") {
		t.Error("event color was not replaced by the default")
	}
}

func TestEventsAPI(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	joined := sampleClass("c1", fixedNow.Add(time.Hour))
	joined.HasJoined = true
	be.classes = []classsession.Session{joined, sampleClass("c2", fixedNow.Add(2*time.Hour))}
	app := newTestApp(t, be)
	b := app.browser(t)

	if rec := b.get("/api/events"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	b.signIn("bearer-abc")
	rec := b.get("/api/events?joined=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var events []apiEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 || events[0].ID != "c1" || !events[0].HasJoined {
		t.Errorf("events = %+v", events)
	}
}

func TestCreateClass(t *testing.T) {
	start := fixedNow.Add(48 * time.Hour).Format(classsession.InputLayout)
	end := fixedNow.Add(49 * time.Hour).Format(classsession.InputLayout)

	tests := []struct {
		name       string
		viewer     role.Role
		form       url.Values
		wantStatus int
		wantBody   []string
		wantAdded  int
	}{
		{
			name:       "valid class",
			viewer:     role.GymOwner,
			form:       url.Values{"trainerName": {"Bruno"}, "priority": {"2"}, "interval": {"0"}, "startDate": {start}, "endDate": {end}},
			wantStatus: http.StatusSeeOther,
			wantAdded:  1,
		},
		{
			name:       "start equals end",
			viewer:     role.GymOwner,
			form:       url.Values{"trainerName": {"Bruno"}, "priority": {"1"}, "interval": {"0"}, "startDate": {start}, "endDate": {start}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{classsession.MsgStartNotBeforeEnd},
		},
		{
			name:       "every rule reported",
			viewer:     role.GymOwner,
			form:       url.Values{"trainerName": {""}, "priority": {"1"}, "interval": {"-1"}, "startDate": {start}, "endDate": {start}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{classsession.MsgTrainerRequired, classsession.MsgNegativeInterval, classsession.MsgStartNotBeforeEnd},
		},
		{
			name:       "normal user refused",
			viewer:     role.NormalUser,
			form:       url.Values{"trainerName": {"Bruno"}, "priority": {"2"}, "interval": {"0"}, "startDate": {start}, "endDate": {end}},
			wantStatus: http.StatusSeeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := newMockBackend(tt.viewer)
			be.trainers = []string{"Bruno", "Carla"}
			app := newTestApp(t, be)
			b := app.browser(t)
			b.signIn("bearer-abc")
			b.get("/home")

			rec := b.post("/home/classes/new", tt.form)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d. Body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			for _, w := range tt.wantBody {
				assertContains(t, rec, html.EscapeString(w))
			}
			if len(be.added) != tt.wantAdded {
				t.Errorf("AddClass calls = %d, want %d", len(be.added), tt.wantAdded)
			}
		})
	}
}

func TestNewClassPage_PrefillsSelection(t *testing.T) {
	be := newMockBackend(role.GymOwner)
	be.trainers = []string{"Bruno"}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	rec := b.get("/home/classes/new?start=2026-03-12T09:00")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec, `value="2026-03-12T09:00"`, `value="2026-03-12T10:00"`, `<option value="Bruno">`)

	member := newTestApp(t, newMockBackend(role.NormalUser)).browser(t)
	member.signIn("bearer-abc")
	assertRedirect(t, member.get("/home/classes/new"), "/unauthorized")
}

func TestToggleJoin(t *testing.T) {
	t.Run("success re-reads participation", func(t *testing.T) {
		be := newMockBackend(role.NormalUser)
		be.classes = []classsession.Session{sampleClass("c1", fixedNow.Add(time.Hour))}
		app := newTestApp(t, be)
		b := app.browser(t)
		b.signIn("bearer-abc")
		b.get("/home/class/c1")
		before := be.count("CheckJoined")

		assertRedirect(t, b.post("/home/class/c1/toggle", nil), "/home/class/c1")
		if !be.joined {
			t.Error("ToggleJoin not applied")
		}
		if got := be.count("CheckJoined") - before; got != 1 {
			t.Errorf("CheckJoined after toggle = %d, want 1", got)
		}
		assertContains(t, b.get("/home/class/c1"), msgJoined, "Leave class")
	})

	t.Run("failure keeps state and decodes the toast", func(t *testing.T) {
		be := newMockBackend(role.NormalUser)
		be.classes = []classsession.Session{sampleClass("c1", fixedNow.Add(time.Hour))}
		be.fail["ToggleJoin"] = apiError(http.StatusBadRequest, "USER_NOT_VERIFIED")
		app := newTestApp(t, be)
		b := app.browser(t)
		b.signIn("bearer-abc")
		b.get("/home/class/c1")
		before := be.count("CheckJoined")

		assertRedirect(t, b.post("/home/class/c1/toggle", nil), "/home/class/c1")
		if be.joined {
			t.Error("joined changed after a failed toggle")
		}
		if be.count("CheckJoined") != before {
			t.Error("participation re-read after a failed toggle")
		}
		assertContains(t, b.get("/home/class/c1"), html.EscapeString(errmsg.Decode("USER_NOT_VERIFIED")))
	})
}

func TestRemoveParticipant(t *testing.T) {
	tests := []struct {
		name        string
		start       time.Time
		wantRemoved int
		wantToast   string
	}{
		{name: "ended class", start: fixedNow.Add(-3 * time.Hour), wantRemoved: 1, wantToast: msgParticipantRemoved},
		{name: "upcoming class", start: fixedNow.Add(time.Hour), wantToast: msgRemoveTooEarly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := newMockBackend(role.GymOwner)
			be.classes = []classsession.Session{sampleClass("c1", tt.start)}
			be.participants = []classsession.Participant{{ID: "u1", Name: "Ana"}}
			app := newTestApp(t, be)
			b := app.browser(t)
			b.signIn("bearer-abc")

			confirm := b.get("/home/class/c1/participants/u1/remove?name=Ana")
			assertContains(t, confirm, "Remove Ana from this class?")

			assertRedirect(t, b.post("/home/class/c1/participants/u1/remove", nil), "/home/class/c1")
			if len(be.removedUserIDs) != tt.wantRemoved {
				t.Errorf("removed = %v", be.removedUserIDs)
			}
			assertContains(t, b.get("/home/class/c1"), tt.wantToast)
		})
	}
}

func TestDeleteClass(t *testing.T) {
	be := newMockBackend(role.GymOwner)
	be.classes = []classsession.Session{sampleClass("c1", fixedNow.Add(time.Hour))}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	assertContains(t, b.get("/home/class/c1/delete"), "Delete class", `href="/home/class/c1"`)
	assertRedirect(t, b.post("/home/class/c1/delete", nil), "/home")
	if len(be.classes) != 0 {
		t.Errorf("classes = %v", be.classes)
	}
	assertContains(t, b.get("/home"), msgClassDeleted)
}

func TestRewards_ClaimCarriesRenderedKey(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	redeemed := fixedNow.Add(-time.Hour)
	be.rewards = []reward.Reward{
		{ID: "r1", Name: "Protein shake", UserName: "Ana", GymName: "Iron Temple", ReceivedAt: &redeemed},
		{ID: "r2", Name: "Sauna", UserName: "Ana", GymName: "Iron Temple", ReceivedAt: &redeemed, RedeemedAt: &redeemed},
	}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	page := b.get("/home/rewards")
	if page.Code != http.StatusOK {
		t.Fatalf("status = %d", page.Code)
	}
	body := page.Body.String()
	if n := strings.Count(body, `name="idempotencyKey"`); n != 1 {
		t.Fatalf("redeem forms = %d, want 1", n)
	}
	start := strings.Index(body, `name="idempotencyKey" value="`) + len(`name="idempotencyKey" value="`)
	key := body[start : start+36]

	assertRedirect(t, b.post("/home/rewards/r1/claim", url.Values{"idempotencyKey": {key}}), "/home/rewards")
	if len(be.claimKeys) != 1 || be.claimKeys[0] != key {
		t.Errorf("claim keys = %v, want [%s]", be.claimKeys, key)
	}
	assertContains(t, b.get("/home/rewards"), msgRewardClaimed)
}

func TestSettings(t *testing.T) {
	be := newMockBackend(role.GymOwner)
	be.profile = user.Settings{Name: "Iron Temple", Email: "gym@example.com", Location: "Lisbon"}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	page := b.get("/home/settings")
	assertContains(t, page, `value="Iron Temple"`, `name="location"`)
	if strings.Contains(page.Body.String(), `name="fitnessPlan"`) {
		t.Error("plan select shown to a gym owner")
	}

	assertRedirect(t, b.post("/home/settings", url.Values{}), "/home/settings")
	if be.called("UpdateUser") {
		t.Error("empty form reached the backend")
	}
	assertContains(t, b.get("/home/settings"), msgSettingsUnchanged)

	assertRedirect(t, b.post("/home/settings", url.Values{"location": {"Porto"}}), "/home/settings")
	if len(be.updates) != 1 || be.updates[0].Location == nil || *be.updates[0].Location != "Porto" {
		t.Errorf("updates = %+v", be.updates)
	}

	bad := b.post("/home/settings", url.Values{"password": {"short"}, "passwordConfirm": {"short"}})
	if bad.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", bad.Code)
	}
	assertContains(t, bad, html.EscapeString(user.MsgPasswordTooShort))
}

func TestSettings_LoadFailure(t *testing.T) {
	be := newMockBackend(role.NormalUser)
	be.fail["CurrentUser"] = errors.New("timeout")
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	rec := b.get("/home/settings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertContains(t, rec, msgSettingsLoadFailed)
}

func TestInfoPage_RendersMarkdown(t *testing.T) {
	app := newTestApp(t, newMockBackend(role.NormalUser))
	b := app.browser(t)
	b.signIn("bearer-abc")
	assertContains(t, b.get("/home/info"), "<strong>Reward:</strong>", "Fundament", "Elite")
}

func TestAdminUsers(t *testing.T) {
	be := newMockBackend(role.Admin)
	lisbon := "Lisbon"
	be.users = []user.AdminRecord{
		{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "NormalUser", IsVerified: true, CreatedAt: fixedNow},
		{ID: "u2", Name: "Iron Temple", Email: "gym@example.com", Location: &lisbon, Role: "GymOwner", CreatedAt: fixedNow},
	}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	page := b.get("/home/admin/users?sort=name")
	assertContains(t, page, "ana@example.com", "N/A", "Lisbon", "Yes", "No")

	confirm := b.get("/home/admin/users/u2/delete?name=Iron+Temple")
	assertContains(t, confirm, "Iron Temple", "This cannot be undone.")
	assertRedirect(t, b.post("/home/admin/users/u2/delete", nil), adminUsersPath)
	if len(be.deletedUsers) != 1 || be.deletedUsers[0] != "u2" {
		t.Errorf("deleted = %v", be.deletedUsers)
	}

	b.get("/home/admin/users/u1/toggle")
	assertRedirect(t, b.post("/home/admin/users/u1/toggle", nil), adminUsersPath)
	if len(be.toggledUsers) != 1 {
		t.Errorf("toggled = %v", be.toggledUsers)
	}
	before := be.count("ListUsers")
	assertContains(t, b.get(adminUsersPath), msgUserToggled)
	if be.count("ListUsers") != before+1 {
		t.Error("list not re-read after the action")
	}

	if rec := b.get("/home/admin/users/u1/promote"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d, want 404", rec.Code)
	}
}

func TestAdminRewardSettings(t *testing.T) {
	be := newMockBackend(role.Admin)
	be.planRewards = []reward.PlanReward{{FitnessPlan: "Beginner", RewardName: "Protein bar"}}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")

	page := b.get(adminRewardSettingPath)
	assertContains(t, page, `value="Protein bar"`, user.PlanExpert.Label())

	assertRedirect(t, b.post(adminRewardSettingPath, url.Values{"plan": {"Expert"}, "name": {"  "}}), adminRewardSettingPath)
	if be.called("ChangeFitnessReward") {
		t.Error("empty name reached the backend")
	}
	assertContains(t, b.get(adminRewardSettingPath), reward.EmptyNameMessage("Expert"))

	assertRedirect(t, b.post(adminRewardSettingPath, url.Values{"plan": {"Expert"}, "name": {"Discount"}}), adminRewardSettingPath)
	if len(be.planChanges) != 1 || be.planChanges[0].FitnessPlan != user.PlanExpert {
		t.Errorf("changes = %+v", be.planChanges)
	}
	assertContains(t, b.get(adminRewardSettingPath), reward.UpdatedMessage("Expert"))
}

func TestAdminAddReward(t *testing.T) {
	be := newMockBackend(role.Admin)
	be.userOptions = []user.Option{{Label: "Ana", Value: "u1"}}
	be.gymOptions = []user.Option{{Label: "Iron Temple", Value: "g1"}}
	app := newTestApp(t, be)
	b := app.browser(t)
	b.signIn("bearer-abc")
	b.get("/home/admin/rewards/add")

	bad := b.post("/home/admin/rewards/add", url.Values{"normalUserId": {"u1"}})
	if bad.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", bad.Code)
	}
	assertContains(t, bad, reward.MsgSelectGym, reward.MsgEmptyName, `<option value="u1" selected>`)

	assertRedirect(t, b.post("/home/admin/rewards/add", url.Values{"normalUserId": {"u1"}, "gymId": {"g1"}, "name": {"Towel"}}), "/home/rewards")
	if len(be.grants) != 1 || be.grants[0].GymID != "g1" {
		t.Errorf("grants = %+v", be.grants)
	}
}

func TestAdminPerf_DisabledWithoutCollector(t *testing.T) {
	app := newTestApp(t, newMockBackend(role.Admin))
	b := app.browser(t)
	b.signIn("bearer-abc")
	assertContains(t, b.get("/home/admin/perf"), "Timing collection is disabled.")
}
