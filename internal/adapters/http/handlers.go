package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"gymadmin/internal/adapters/gymapi"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/notice"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

// internalError logs the error and returns a generic 500 without details.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// formStatus is returned when a submitted form is re-rendered with an error notice.
const formStatus = http.StatusUnprocessableEntity

func (s *server) t(key string, args ...any) string {
	return s.Renderer.T(key, args...)
}

// sessionFrom returns the session RequireAuth guaranteed.
func sessionFrom(r *http.Request) middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

// pathID parses the named path segment as a positive integer.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ensureLoaded fills a fresh session's cache before its first page.
func (s *server) ensureLoaded(ctx context.Context, st *state.AppState) {
	if !st.Ready() {
		s.Refresher.LoadDashboard(ctx, st)
	}
}

// loaded returns the acting admin's state, loading it on first use.
func (s *server) loaded(r *http.Request) *state.AppState {
	st := sessionFrom(r).State
	s.ensureLoaded(r.Context(), st)
	return st
}

// render writes a page inside the layout. The session's pending notice is consumed here.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, name string, p view.Page) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && sess.State != nil {
		p.Admin = sess.AdminUsername
		p.GymName = sess.State.Snapshot().Gym.DisplayName(sess.GymID)
		if n := sess.State.TakeNotice(); !n.IsZero() {
			p.Notice = n
		}
	}
	if err := s.Renderer.Page(w, r, status, name, p); err != nil {
		internalError(w, err)
	}
}

// succeed stores a success notice and redirects to the owning list.
func (s *server) succeed(w http.ResponseWriter, r *http.Request, st *state.AppState, msg, target string) {
	st.SetNotice(notice.Success(s.t(msg)))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail stores the error notice for the re-rendered form.
func (s *server) fail(st *state.AppState, err error, fallback string) {
	st.SetNotice(notice.Danger(s.errorMessage(err, fallback)))
}

// errorMessage maps a command error to the text shown to the admin:
// the server's own message when it sent one, a fixed text for validation errors,
// otherwise the localized fallback.
func (s *server) errorMessage(err error, fallback string) string {
	var apiErr *gymapi.APIError
	switch {
	case errors.Is(err, gymapi.ErrUnreachable):
		return s.t("Server error")
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, member.ErrEmailRequired):
		return s.t("Email is required!")
	case errors.Is(err, member.ErrInvalidType):
		return s.t("Invalid membership type!")
	case errors.Is(err, trainer.ErrNameRequired), errors.Is(err, trainer.ErrSpecialtyRequired):
		return s.t("Fill in all fields!")
	case errors.Is(err, program.ErrTitleRequired):
		return s.t("Title is required!")
	case errors.Is(err, program.ErrExerciseRequired):
		return s.t("Pick an exercise!")
	case errors.Is(err, orchestrators.ErrUnknownItemType):
		return s.t("Unknown item type")
	}
	if !errors.As(err, &apiErr) {
		slog.Error("command_failed", "error", err)
	}
	return s.t(fallback)
}

// sectionError is the inline text of a failed slice load, or "".
func (s *server) sectionError(err error) string {
	if err == nil {
		return ""
	}
	return s.errorMessage(err, "Server error")
}

func (s *server) sectionErrors(errs map[state.Slice]error) map[string]string {
	out := make(map[string]string, len(errs))
	for slice, err := range errs {
		out[string(slice)] = s.sectionError(err)
	}
	return out
}
