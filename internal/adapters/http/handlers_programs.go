package web

import (
	"net/http"
	"strconv"

	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/formutil"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/program"
)

func (s *server) programDeps(st *state.AppState) orchestrators.ProgramDeps {
	return orchestrators.ProgramDeps{API: s.API, Refresher: s.Refresher, State: st}
}

// handlePrograms handles GET /programs
func (s *server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	snap := s.loaded(r).Snapshot()
	s.render(w, r, http.StatusOK, "programs", view.Page{
		Title: s.t("Programs"),
		Nav:   "programs",
		Body: view.ProgramsBody{
			Programs: snap.Programs,
			Error:    s.sectionError(snap.Errors[state.SlicePrograms]),
		},
	})
}

func (s *server) programFormPage(w http.ResponseWriter, r *http.Request, status int, form view.ProgramForm) {
	title := s.t("Add program")
	if form.ProgramID != 0 {
		title = s.t("Edit program")
	}
	s.render(w, r, status, "program_form", view.Page{Title: title, Nav: "programs", Body: form})
}

// handleProgramNewPage handles GET /programs/new
func (s *server) handleProgramNewPage(w http.ResponseWriter, r *http.Request) {
	s.programFormPage(w, r, http.StatusOK, view.ProgramForm{})
}

// handleProgramNew handles POST /programs/new
func (s *server) handleProgramNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	input := orchestrators.ProgramInput{Title: r.FormValue("title"), DurationMin: r.FormValue("duration_min")}
	if err := orchestrators.ExecuteCreateProgram(r.Context(), input, s.programDeps(st)); err != nil {
		s.fail(st, err, "Could not create program")
		s.programFormPage(w, r, formStatus, view.ProgramForm{Title: input.Title, DurationMin: input.DurationMin})
		return
	}
	s.succeed(w, r, st, "Program created!", "/programs")
}

// findProgram resolves the {id} path segment against the cached program list.
func (s *server) findProgram(w http.ResponseWriter, r *http.Request, st *state.AppState) (program.Program, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return program.Program{}, false
	}
	p, ok := projections.FindProgram(st.Snapshot().Programs, id)
	if !ok {
		http.Error(w, s.t("Program not found"), http.StatusNotFound)
		return program.Program{}, false
	}
	return p, true
}

// handleProgramEditPage handles GET /programs/{id}/edit
func (s *server) handleProgramEditPage(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	p, ok := s.findProgram(w, r, st)
	if !ok {
		return
	}
	s.programFormPage(w, r, http.StatusOK, view.ProgramForm{
		ProgramID:   p.ID,
		Title:       p.Title,
		DurationMin: formutil.Value(p.DurationMin),
	})
}

// handleProgramEdit handles POST /programs/{id}/edit
func (s *server) handleProgramEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	p, ok := s.findProgram(w, r, st)
	if !ok {
		return
	}
	input := orchestrators.ProgramInput{ProgramID: p.ID, Title: r.FormValue("title"), DurationMin: r.FormValue("duration_min")}
	if err := orchestrators.ExecuteEditProgram(r.Context(), input, s.programDeps(st)); err != nil {
		s.fail(st, err, "Update failed")
		s.programFormPage(w, r, formStatus, view.ProgramForm{ProgramID: p.ID, Title: input.Title, DurationMin: input.DurationMin})
		return
	}
	s.succeed(w, r, st, "Program updated!", "/programs")
}

// programExercisesPage renders the manage-exercises page from the cached list,
// fetching it when this program has none yet.
func (s *server) programExercisesPage(w http.ResponseWriter, r *http.Request, st *state.AppState, status int, p program.Program, form view.ProgramExerciseForm) {
	list, ok := st.ProgramExercises(p.ID)
	if !ok {
		s.Refresher.LoadProgramExercises(r.Context(), st, p.ID)
		list, _ = st.ProgramExercises(p.ID)
	}
	body := view.ProgramExercisesBody{
		Program: p,
		Table:   view.ProgramExercisesTable{ProgramID: p.ID, Rows: projections.SortProgramExercises(list)},
		Catalog: projections.SortCatalog(st.Snapshot().Exercises, s.Renderer.Translator().Tag()),
		Form:    form,
	}
	body.Error = s.sectionError(st.Err(state.SliceProgramExercises))
	s.render(w, r, status, "program_exercises", view.Page{Title: s.t("Manage exercises"), Nav: "programs", Body: body})
}

// handleProgramExercises handles GET /programs/{id}/exercises
// POST: the program's list is fetched again; on failure the previous list stays
// and the page shows the error inline
func (s *server) handleProgramExercises(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	p, ok := s.findProgram(w, r, st)
	if !ok {
		return
	}
	s.Refresher.LoadProgramExercises(r.Context(), st, p.ID)
	s.programExercisesPage(w, r, st, http.StatusOK, p, view.ProgramExerciseForm{})
}

// handleProgramExerciseAdd handles POST /programs/{id}/exercises
func (s *server) handleProgramExerciseAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	p, ok := s.findProgram(w, r, st)
	if !ok {
		return
	}
	input := orchestrators.ProgramExerciseInput{
		ProgramID:  p.ID,
		ExerciseID: r.FormValue("exercise_id"),
		Sets:       r.FormValue("sets"),
		Reps:       r.FormValue("reps"),
		RestSec:    r.FormValue("rest_sec"),
	}
	if err := orchestrators.ExecuteAddProgramExercise(r.Context(), input, s.programDeps(st)); err != nil {
		s.fail(st, err, "Could not add exercise")
		s.programExercisesPage(w, r, st, formStatus, p, view.ProgramExerciseForm{
			ExerciseID: input.ExerciseID,
			Sets:       input.Sets,
			Reps:       input.Reps,
			RestSec:    input.RestSec,
		})
		return
	}
	s.succeed(w, r, st, "Exercise added!", exercisesPath(p.ID))
}

// handleProgramExerciseRemove handles POST /programs/{id}/exercises/{exerciseID}/delete
func (s *server) handleProgramExerciseRemove(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	p, ok := s.findProgram(w, r, st)
	if !ok {
		return
	}
	exerciseID, ok := pathID(r, "exerciseID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := orchestrators.ExecuteRemoveProgramExercise(r.Context(), p.ID, exerciseID, s.programDeps(st)); err != nil {
		s.fail(st, err, "Could not remove exercise")
		http.Redirect(w, r, exercisesPath(p.ID), http.StatusSeeOther)
		return
	}
	s.succeed(w, r, st, "Exercise removed!", exercisesPath(p.ID))
}

func exercisesPath(programID int) string {
	return "/programs/" + strconv.Itoa(programID) + "/exercises"
}
