package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gymadmin/internal/adapters/gymapi"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/session"
)

// SessionStore persists admin sessions.
type SessionStore interface {
	Get(ctx context.Context, token string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Delete(ctx context.Context, token string) error
}

// LoginAPI authenticates administrators against the gym API.
type LoginAPI interface {
	Login(ctx context.Context, username, password string) (int, error)
}

// GymVerifier fetches a gym record to confirm a stored session is still honoured.
type GymVerifier interface {
	Gym(ctx context.Context, gymID int) (gym.Gym, error)
}

var (
	ErrInvalidCredentials = errors.New("username and password are required")
	ErrNoSession          = errors.New("no stored session")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session no longer accepted by the gym api")
)

// --- Login ---

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the stored session of a successful login.
type LoginResult struct {
	Session session.Session
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API           LoginAPI
	Sessions      SessionStore
	GenerateToken func() (string, error)
	Now           func() time.Time
}

// ExecuteLogin authenticates against the gym API and stores a durable session.
// PRE: none
// POST: On success a session {token, gym_id, admin_username} is stored; on failure nothing is stored
// INVARIANT: Empty credentials never reach the API
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	gymID, err := deps.API.Login(ctx, input.Username, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "error", err)
		return LoginResult{}, err
	}

	token, err := deps.GenerateToken()
	if err != nil {
		return LoginResult{}, err
	}
	sess := session.Session{
		Token:         token,
		GymID:         gymID,
		AdminUsername: input.Username,
		CreatedAt:     deps.Now(),
	}
	if err := deps.Sessions.Save(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "gym_id", gymID)
	return LoginResult{Session: sess}, nil
}

// --- Logout ---

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Sessions SessionStore
	States   StateRegistry
}

// ExecuteLogout forgets a session and its cached state.
// PRE: none; an empty or unknown token is accepted
// POST: No stored session and no AppState remain for token
func ExecuteLogout(ctx context.Context, token string, deps LogoutDeps) error {
	if token == "" {
		return nil
	}
	deps.States.Drop(token)
	if err := deps.Sessions.Delete(ctx, token); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}

// --- Restore ---

// RestoreResult carries the restored session and its state.
type RestoreResult struct {
	Session session.Session
	State   *state.AppState
	// Created is true when the state is new and has not been loaded yet.
	Created bool
}

// RestoreDeps holds dependencies for Restore.
type RestoreDeps struct {
	Sessions   SessionStore
	States     StateRegistry
	Verifier   GymVerifier
	Revalidate bool
	TTL        time.Duration
	Now        func() time.Time
}

// ExecuteRestore resolves a cookie token to its stored session and AppState.
// With Revalidate set, a newly created state first confirms the gym with the API;
// a 401, 403 or 404 answer deletes the session.
// PRE: token came from the session cookie
// POST: Returns ErrNoSession, ErrSessionExpired or ErrSessionRevoked when the admin must log in again
func ExecuteRestore(ctx context.Context, token string, deps RestoreDeps) (RestoreResult, error) {
	if token == "" {
		return RestoreResult{}, ErrNoSession
	}
	sess, err := deps.Sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return RestoreResult{}, ErrNoSession
	}
	if err != nil {
		return RestoreResult{}, err
	}

	if sess.Expired(deps.TTL, deps.Now()) {
		deps.States.Drop(token)
		_ = deps.Sessions.Delete(ctx, token)
		slog.Info("auth_event", "event", "session_expired", "username", sess.AdminUsername)
		return RestoreResult{}, ErrSessionExpired
	}

	st, created := deps.States.GetOrCreate(token, sess.GymID, sess.AdminUsername)
	if created && deps.Revalidate && deps.Verifier != nil {
		if _, err := deps.Verifier.Gym(ctx, sess.GymID); rejected(err) {
			deps.States.Drop(token)
			_ = deps.Sessions.Delete(ctx, token)
			slog.Info("auth_event", "event", "session_revoked", "username", sess.AdminUsername, "gym_id", sess.GymID, "error", err)
			return RestoreResult{}, ErrSessionRevoked
		}
	}

	return RestoreResult{Session: sess, State: st, Created: created}, nil
}

// rejected reports whether err is an API answer that disowns the session.
func rejected(err error) bool {
	var apiErr *gymapi.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
