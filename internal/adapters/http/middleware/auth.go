package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gymadmin/internal/application/state"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName names the cookie carrying the session token.
const SessionCookieName = "gymadmin_session"

// ErrUnauthenticated is returned by a Restorer when the token no longer identifies a session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Session is the authenticated administrator of a request.
type Session struct {
	Token         string
	GymID         int
	AdminUsername string
	State         *state.AppState
}

// Restorer resolves a cookie token to a session.
type Restorer func(ctx context.Context, token string) (Session, error)

// SecureCookies marks the session cookie Secure. Set once at startup.
var SecureCookies bool

// CookieMaxAge is the session cookie lifetime. Zero makes it a browser-session cookie.
var CookieMaxAge = 30 * 24 * time.Hour

// Auth returns middleware that restores the session from the cookie and puts it in context.
// It does NOT block unauthenticated requests; use RequireAuth for that.
// A token the restorer rejects with ErrUnauthenticated has its cookie cleared.
func Auth(restore Restorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := restore(r.Context(), cookie.Value)
			switch {
			case err == nil:
				r = r.WithContext(ContextWithSession(r.Context(), sess))
			case errors.Is(err, ErrUnauthenticated):
				ClearSessionCookie(w)
			default:
				slog.Error("session_restore_failed", "path", r.URL.Path, "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that redirects unauthenticated requests to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
