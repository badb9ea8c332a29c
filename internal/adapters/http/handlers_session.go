package web

import (
	"errors"
	"net/http"

	"gymadmin/internal/adapters/gymapi"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/domain/notice"
)

// handleLoginPage handles GET /login
func (s *server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", view.Page{Title: s.t("Login"), Body: view.LoginBody{}})
}

// handleLogin handles POST /login
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		API:           s.API,
		Sessions:      s.Sessions,
		GenerateToken: middleware.GenerateToken,
		Now:           s.Now,
	})
	if err != nil {
		var apiErr *gymapi.APIError
		msg := s.t("Login failed")
		switch {
		case errors.Is(err, orchestrators.ErrInvalidCredentials):
		case errors.Is(err, gymapi.ErrUnreachable):
			msg = s.t("Could not reach the server")
		case errors.As(err, &apiErr):
			if apiErr.Message != "" {
				msg = apiErr.Message
			}
		default:
			internalError(w, err)
			return
		}
		s.render(w, r, http.StatusUnauthorized, "login", view.Page{
			Title:  s.t("Login"),
			Notice: notice.Danger(msg),
			Body:   view.LoginBody{Username: input.Username},
		})
		return
	}

	middleware.SetSessionCookie(w, result.Session.Token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		token = sess.Token
	} else if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := orchestrators.ExecuteLogout(r.Context(), token, orchestrators.LogoutDeps{
		Sessions: s.Sessions,
		States:   s.States,
	}); err != nil {
		internalError(w, err)
		return
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
