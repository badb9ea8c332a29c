package web

import (
	"net/http"
	"time"

	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/application/state"
)

// defaultPerfWindow is the lookback of /system/perf without ?window=.
const defaultPerfWindow = time.Hour

// handleDashboard handles GET /dashboard. Every visit reloads the whole cache.
func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.Refresher.LoadDashboard(r.Context(), sess.State)

	dash := projections.QueryDashboard(sess.State.Snapshot())
	s.render(w, r, http.StatusOK, "dashboard", view.Page{
		Title: s.t("Dashboard"),
		Nav:   "dashboard",
		Body: view.DashboardBody{
			Cards:         dash.Cards,
			RecentMembers: dash.RecentMembers,
			Trainers:      dash.Trainers,
			Errors:        s.sectionErrors(dash.Errors),
		},
	})
}

// handleSettings handles GET /settings
func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.ensureLoaded(r.Context(), sess.State)
	snap := sess.State.Snapshot()

	s.render(w, r, http.StatusOK, "settings", view.Page{
		Title: s.t("Settings"),
		Nav:   "settings",
		Body: view.SettingsBody{
			Gym:   snap.Gym,
			GymID: snap.GymID,
			Admin: snap.AdminUsername,
			Error: s.sectionError(snap.Errors[state.SliceGym]),
		},
	})
}

// handleHelp handles GET /help
func (s *server) handleHelp(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "help", view.Page{
		Title: s.t("Help"),
		Nav:   "help",
		Body:  view.HelpBody{HTML: s.Renderer.Help()},
	})
}

// handlePerf handles GET /system/perf?window=15m
func (s *server) handlePerf(w http.ResponseWriter, r *http.Request) {
	window := defaultPerfWindow
	if v := r.URL.Query().Get("window"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			window = d
		}
	}
	var snap perf.Snapshot
	if s.Collector != nil {
		snap = s.Collector.Snapshot(s.Now().Add(-window), 10)
	}
	s.render(w, r, http.StatusOK, "perf", view.Page{
		Title: s.t("Performance"),
		Body:  view.PerfBody{Snapshot: snap, Window: window.String()},
	})
}

// handleHealthz handles GET /healthz
func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.Health != nil {
		if err := s.Health(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
