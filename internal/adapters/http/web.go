package web

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"

	"fitflow/internal/adapters/http/middleware"
	"fitflow/internal/adapters/http/perf"
	sessionStore "fitflow/internal/adapters/storage/session"
	"fitflow/internal/application/orchestrators"
	"fitflow/internal/application/projections"
)

// Backend is every FitFlow API operation the handlers use.
// *backend.Client implements it.
type Backend interface {
	projections.RoleReader
	projections.ClassReader
	projections.TrainerReader
	projections.PlanReader
	projections.ProfileReader
	projections.UserReader
	projections.RewardReader
	orchestrators.ClassCreator
	orchestrators.ParticipationBackend
	orchestrators.ClassRemover
	orchestrators.Authenticator
	orchestrators.Registrar
	orchestrators.ProfileUpdater
	orchestrators.AccountAdmin
	orchestrators.RewardBackend
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything NewMux wires into the handlers.
type Deps struct {
	Backend   Backend
	Sessions  sessionStore.Store
	Collector *perf.Collector
	Metrics   http.Handler // serves /metrics; nil disables it
	Health    []Pinger     // checked by /healthz

	StaticDir    string
	Location     *time.Location
	CSRFKey      []byte // 32 bytes; nil generates a per-process key
	CookieSecret []byte // derives the flash cookie keys; nil generates one
	Secure       bool
	RateLimit    int // requests per second per IP
	SlowMs       int
	Origins      []string
}

// Global dependencies (set by NewMux)
var (
	api           Backend
	sessions      sessionStore.Store
	perfCollector *perf.Collector
	cookieCodec   *securecookie.SecureCookie
	viewerLoc     = time.Local
	healthChecks  []Pinger
)

// timeNow is a variable for testability.
var timeNow = time.Now

// RateLimitPerSecond controls the per-IP rate limit when Deps leaves it unset.
var RateLimitPerSecond = 20

// Limiter is the rate limiter of the last NewMux call; the server sweeps it.
var Limiter *middleware.RateLimiter

// NewMux wires HTTP handlers for the app.
// PRE: deps.Backend and deps.Sessions are set
func NewMux(deps Deps) (http.Handler, error) {
	api = deps.Backend
	sessions = deps.Sessions
	perfCollector = deps.Collector
	healthChecks = deps.Health
	if deps.Location != nil {
		viewerLoc = deps.Location
	}
	middleware.SecureCookies = deps.Secure

	codec, err := newCookieCodec(deps.CookieSecret)
	if err != nil {
		return nil, err
	}
	cookieCodec = codec

	csrfKey := deps.CSRFKey
	if csrfKey == nil {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return nil, fmt.Errorf("generate CSRF key: %w", err)
		}
		slog.Warn("config_event", "event", "random_csrf_key", "detail", "form tokens won't survive restart")
	}

	mux := http.NewServeMux()
	if deps.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}
	registerRoutes(mux)

	rate := deps.RateLimit
	if rate <= 0 {
		rate = RateLimitPerSecond
	}
	Limiter = middleware.NewRateLimiter(rate, time.Second)

	// Request flow: Recover -> Timing -> RateLimit -> SecurityHeaders -> Auth -> Guard -> CSRF -> Mux
	return middleware.Chain(mux,
		middleware.CSRF(csrfKey, middleware.CSRFOptions{Secure: deps.Secure, TrustedOrigins: deps.Origins}),
		middleware.Guard(api, sessions),
		middleware.Auth(sessions, func() time.Time { return timeNow() }),
		middleware.SecurityHeaders,
		middleware.RateLimit(Limiter),
		middleware.Timing(perfCollector, deps.SlowMs),
		middleware.Recover,
	), nil
}

// newCookieCodec derives hash and block keys for signed cookies from secret.
// A nil secret yields random keys.
func newCookieCodec(secret []byte) (*securecookie.SecureCookie, error) {
	if secret == nil {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("generate cookie secret")
		}
	}
	keys := hkdf.New(sha256.New, secret, nil, []byte("fitflow cookies"))
	hashKey := make([]byte, 32)
	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(keys, hashKey); err != nil {
		return nil, fmt.Errorf("derive cookie keys: %w", err)
	}
	if _, err := io.ReadFull(keys, blockKey); err != nil {
		return nil, fmt.Errorf("derive cookie keys: %w", err)
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(pendingEmailLifetime.Seconds()))
	return codec, nil
}
