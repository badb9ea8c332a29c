package web

import (
	"net/http"
	"strconv"

	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/formutil"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/trainer"
)

func (s *server) trainerDeps(st *state.AppState) orchestrators.TrainerDeps {
	return orchestrators.TrainerDeps{API: s.API, Refresher: s.Refresher, State: st}
}

// handleTrainers handles GET /trainers
func (s *server) handleTrainers(w http.ResponseWriter, r *http.Request) {
	snap := s.loaded(r).Snapshot()
	s.render(w, r, http.StatusOK, "trainers", view.Page{
		Title: s.t("Trainers"),
		Nav:   "trainers",
		Body: view.TrainersBody{
			Trainers: snap.Trainers,
			Error:    s.sectionError(snap.Errors[state.SliceTrainers]),
		},
	})
}

// trainerFormPage renders the create or edit form. The member dropdown keeps the
// trainer's current link selectable.
func (s *server) trainerFormPage(w http.ResponseWriter, r *http.Request, st *state.AppState, status int, form view.TrainerForm, current *int) {
	snap := st.Snapshot()
	form.Members = projections.LinkableMembers(snap.Members, snap.Trainers, current)
	title := s.t("Add trainer")
	if form.TrainerID != 0 {
		title = s.t("Edit trainer")
	}
	s.render(w, r, status, "trainer_form", view.Page{Title: title, Nav: "trainers", Body: form})
}

func trainerFormFrom(r *http.Request, trainerID int) view.TrainerForm {
	return view.TrainerForm{
		TrainerID: trainerID,
		Name:      r.FormValue("name"),
		Specialty: r.FormValue("specialty"),
		IsInGym:   r.FormValue("is_in_gym"),
		MemberID:  r.FormValue("member_id"),
	}
}

func trainerInput(f view.TrainerForm) orchestrators.TrainerInput {
	return orchestrators.TrainerInput{
		TrainerID: f.TrainerID,
		Name:      f.Name,
		Specialty: f.Specialty,
		IsInGym:   f.IsInGym,
		MemberID:  f.MemberID,
	}
}

// handleTrainerNewPage handles GET /trainers/new
func (s *server) handleTrainerNewPage(w http.ResponseWriter, r *http.Request) {
	s.trainerFormPage(w, r, s.loaded(r), http.StatusOK, view.TrainerForm{}, nil)
}

// handleTrainerNew handles POST /trainers/new
func (s *server) handleTrainerNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	form := trainerFormFrom(r, 0)
	if err := orchestrators.ExecuteCreateTrainer(r.Context(), trainerInput(form), s.trainerDeps(st)); err != nil {
		s.fail(st, err, "Could not add trainer")
		s.trainerFormPage(w, r, st, formStatus, form, nil)
		return
	}
	s.succeed(w, r, st, "Trainer added!", "/trainers")
}

// findTrainer resolves the {id} path segment against the cached trainer list.
func (s *server) findTrainer(w http.ResponseWriter, r *http.Request, st *state.AppState) (trainer.Trainer, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return trainer.Trainer{}, false
	}
	t, ok := projections.FindTrainer(st.Snapshot().Trainers, id)
	if !ok {
		http.NotFound(w, r)
		return trainer.Trainer{}, false
	}
	return t, true
}

// handleTrainerEditPage handles GET /trainers/{id}/edit
func (s *server) handleTrainerEditPage(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	t, ok := s.findTrainer(w, r, st)
	if !ok {
		return
	}
	s.trainerFormPage(w, r, st, http.StatusOK, view.TrainerForm{
		TrainerID: t.ID,
		Name:      t.Name,
		Specialty: t.Specialty,
		IsInGym:   strconv.Itoa(t.IsInGym.Int()),
		MemberID:  formutil.Value(t.MemberID),
	}, t.MemberID)
}

// handleTrainerEdit handles POST /trainers/{id}/edit
func (s *server) handleTrainerEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	t, ok := s.findTrainer(w, r, st)
	if !ok {
		return
	}
	form := trainerFormFrom(r, t.ID)
	if err := orchestrators.ExecuteEditTrainer(r.Context(), trainerInput(form), s.trainerDeps(st)); err != nil {
		s.fail(st, err, "Update failed")
		s.trainerFormPage(w, r, st, formStatus, form, t.MemberID)
		return
	}
	s.succeed(w, r, st, "Trainer updated!", "/trainers")
}
