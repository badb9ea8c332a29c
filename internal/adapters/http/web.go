package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gymadmin/internal/adapters/email"
	"gymadmin/internal/adapters/gymapi"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/state"
)

// Deps holds everything the handlers use. Built once in main.
type Deps struct {
	API       *gymapi.Client
	Sessions  orchestrators.SessionStore
	States    *state.Registry
	Refresher *state.Refresher
	Renderer  *view.Renderer
	Collector *perf.Collector
	Limiter   *middleware.RateLimiter

	// Welcome is nil when welcome emails are disabled.
	Welcome     email.Sender
	WelcomeFrom string

	// Health reports storage reachability for /healthz; nil means always healthy.
	Health func(ctx context.Context) error

	CSRFKey        []byte
	TrustedOrigins []string
	SecureCookies  bool
	SlowRequestMs  float64
	SessionTTL     time.Duration
	Revalidate     bool
	Now            func() time.Time
}

// server binds the handlers to their dependencies.
type server struct {
	Deps
}

// NewMux wires HTTP handlers for the app.
// PRE: deps.CSRFKey is 32 bytes; API, Sessions, States, Refresher and Renderer are set
// POST: Returns the full middleware chain around the router
func NewMux(deps Deps) (http.Handler, error) {
	if len(deps.CSRFKey) != 32 {
		return nil, errors.New("csrf key must be 32 bytes")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Limiter == nil {
		deps.Limiter = middleware.NewRateLimiter(10, time.Second)
	}
	middleware.SecureCookies = deps.SecureCookies
	if deps.SessionTTL > 0 {
		middleware.CookieMaxAge = deps.SessionTTL
	}

	s := &server{Deps: deps}
	mux := http.NewServeMux()
	if err := s.registerRoutes(mux); err != nil {
		return nil, err
	}

	// Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(middleware.MatchedRoute(mux),
		middleware.SecurityHeaders,
		middleware.CSRF(deps.CSRFKey, deps.TrustedOrigins, deps.SecureCookies),
		middleware.Auth(s.restore),
		middleware.RateLimit(deps.Limiter),
		middleware.Timing(deps.Collector, deps.SlowRequestMs),
	), nil
}

func (s *server) registerRoutes(mux *http.ServeMux) error {
	static, err := view.StaticHandler()
	if err != nil {
		return err
	}
	mux.Handle("GET /static/", static)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	auth := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(h))
	}
	auth("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	auth("GET /dashboard", s.handleDashboard)

	auth("GET /members", s.handleMembers)
	auth("GET /members/new", s.handleMemberNewPage)
	auth("POST /members/new", s.handleMemberNew)
	auth("GET /members/table", s.handleMembersTable)
	auth("GET /members/export.xlsx", s.handleMembersExport)
	auth("GET /memberships/{id}/edit", s.handleMembershipEditPage)
	auth("POST /memberships/{id}/edit", s.handleMembershipEdit)
	auth("GET /memberships/{id}/credit", s.handleMembershipCreditPage)
	auth("POST /memberships/{id}/credit", s.handleMembershipCredit)

	auth("GET /trainers", s.handleTrainers)
	auth("GET /trainers/new", s.handleTrainerNewPage)
	auth("POST /trainers/new", s.handleTrainerNew)
	auth("GET /trainers/{id}/edit", s.handleTrainerEditPage)
	auth("POST /trainers/{id}/edit", s.handleTrainerEdit)

	auth("GET /programs", s.handlePrograms)
	auth("GET /programs/new", s.handleProgramNewPage)
	auth("POST /programs/new", s.handleProgramNew)
	auth("GET /programs/{id}/edit", s.handleProgramEditPage)
	auth("POST /programs/{id}/edit", s.handleProgramEdit)
	auth("GET /programs/{id}/exercises", s.handleProgramExercises)
	auth("POST /programs/{id}/exercises", s.handleProgramExerciseAdd)
	auth("POST /programs/{id}/exercises/{exerciseID}/delete", s.handleProgramExerciseRemove)

	auth("GET /delete/{type}/{id}", s.handleDeletePage)
	auth("POST /delete/{type}/{id}", s.handleDelete)

	auth("GET /settings", s.handleSettings)
	auth("GET /help", s.handleHelp)
	auth("GET /system/perf", s.handlePerf)
	return nil
}

// restore adapts ExecuteRestore to the Auth middleware.
func (s *server) restore(ctx context.Context, token string) (middleware.Session, error) {
	res, err := orchestrators.ExecuteRestore(ctx, token, orchestrators.RestoreDeps{
		Sessions:   s.Sessions,
		States:     s.States,
		Verifier:   s.API,
		Revalidate: s.Revalidate,
		TTL:        s.SessionTTL,
		Now:        s.Now,
	})
	switch {
	case errors.Is(err, orchestrators.ErrNoSession),
		errors.Is(err, orchestrators.ErrSessionExpired),
		errors.Is(err, orchestrators.ErrSessionRevoked):
		return middleware.Session{}, middleware.ErrUnauthenticated
	case err != nil:
		return middleware.Session{}, err
	}
	return middleware.Session{
		Token:         token,
		GymID:         res.Session.GymID,
		AdminUsername: res.Session.AdminUsername,
		State:         res.State,
	}, nil
}
