package browser_test

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/adapters/cache"
	web "fitflow/internal/adapters/http"
	"fitflow/internal/adapters/storage"
	sessionStore "fitflow/internal/adapters/storage/session"
)

const (
	testEmail    = "ana@test.com"
	testPassword = "TestPass123!"
	testToken    = "bearer-smoke"
	testClassID  = "c1"
)

// fakeAPI is a minimal FitFlow REST API for one NormalUser and one class.
type fakeAPI struct {
	mu     sync.Mutex
	joined bool
	class  map[string]any
}

func newFakeAPI() *fakeAPI {
	start := time.Now().Add(2 * time.Hour).Truncate(time.Hour)
	return &fakeAPI{class: map[string]any{
		"id":          testClassID,
		"trainerName": "Bruno",
		"gymName":     "Iron Temple",
		"color":       "#3174ad",
		"priority":    2,
		"startDate":   start.Format(time.RFC3339),
		"endDate":     start.Add(time.Hour).Format(time.RFC3339),
	}}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// handler serves the routes the smoke tests touch.
// Every authenticated route rejects a missing or foreign bearer token.
func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				w.WriteHeader(http.StatusUnauthorized)
				writeJSON(w, []string{"UNAUTHORIZED"})
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /api/Users/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPassword {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, []string{"INCORRECT_PASSWORD"})
			return
		}
		writeJSON(w, map[string]any{
			"user":  map[string]string{"name": "Ana", "email": testEmail, "role": "NormalUser"},
			"token": testToken,
		})
	})
	mux.HandleFunc("GET /api/Users/get-role", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, "NormalUser")
	}))
	mux.HandleFunc("GET /api/Users/check-fitness-plan", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, false)
	}))
	mux.HandleFunc("GET /api/Users/get-weekly-progress", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"fitnessPlan": "Beginner", "lowIntensityNeeded": 2, "lowIntensityCompleted": 1})
	}))
	mux.HandleFunc("GET /api/Users/login-by-jwt", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"name": "Ana", "email": testEmail, "location": nil, "fitnessPlan": "Beginner"})
	}))
	mux.HandleFunc("GET /api/Classes/get-all", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []any{f.snapshot()})
	}))
	mux.HandleFunc("GET /api/Classes/get/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != testClassID {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, []string{"NO_ENTITY"})
			return
		}
		writeJSON(w, f.snapshot())
	}))
	mux.HandleFunc("GET /api/Classes/get-participants/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.joined {
			writeJSON(w, []map[string]string{{"id": "u1", "name": "Ana"}})
			return
		}
		writeJSON(w, []any{})
	}))
	mux.HandleFunc("GET /api/Classes/check-user/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.joined)
	}))
	mux.HandleFunc("POST /api/Classes/toggle-join/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.joined = !f.joined
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("GET /api/Rewards/get-all", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []any{})
	}))
	mux.HandleFunc("GET /api/Trainers/get-all", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []string{"Bruno"})
	}))
	return mux
}

func (f *fakeAPI) snapshot() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := make(map[string]any, len(f.class)+1)
	for k, v := range f.class {
		c[k] = v
	}
	c["hasJoined"] = f.joined
	return c
}

// testApp holds the running front end, its fake API and the Playwright handles.
type testApp struct {
	BaseURL string
	API     *fakeAPI
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the real backend client and session store against a fake API.
// The test is skipped when Playwright browsers are not installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	fake := newFakeAPI()
	apiSrv := httptest.NewServer(fake.handler())
	t.Cleanup(apiSrv.Close)

	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	sealer, err := sessionStore.NewSealer(nil)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	client, err := backend.New(backend.Options{
		BaseURL:  apiSrv.URL + "/",
		Cache:    cache.NewMemory(100),
		CacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create backend client: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mux, err := web.NewMux(web.Deps{
		Backend:  client,
		Sessions: sessionStore.NewSQLiteStore(db, sealer),
		Health:   []web.Pinger{},
		Location: time.Local,
		Origins:  []string{fmt.Sprintf("127.0.0.1:%d", port), fmt.Sprintf("localhost:%d", port)},
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright not available: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("chromium not available: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{BaseURL: baseURL, API: fake, PW: pw, Browser: browser}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the form and waits for the calendar.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(testEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(testPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("main button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/home", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to the calendar: %v", err)
	}
}
