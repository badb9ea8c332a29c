package state

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

// Source is the read side of the gym API the loaders need.
type Source interface {
	Gym(ctx context.Context, gymID int) (gym.Gym, error)
	Stats(ctx context.Context, gymID int) (gym.Stats, error)
	Members(ctx context.Context, gymID int) ([]member.Record, error)
	Trainers(ctx context.Context, gymID int) ([]trainer.Trainer, error)
	Programs(ctx context.Context, gymID int) ([]program.Program, error)
	Exercises(ctx context.Context) ([]exercise.Exercise, error)
	ProgramExercises(ctx context.Context, programID int) ([]program.Exercise, error)
}

// Refresher owns the loaders. Each loader owns exactly one slice of an AppState.
// A failed load keeps the slice's previous value and records the error for inline display.
type Refresher struct {
	src Source
}

// NewRefresher creates a Refresher reading from src.
func NewRefresher(src Source) *Refresher {
	return &Refresher{src: src}
}

// fail records and logs a loader failure.
func fail(st *AppState, slice Slice, err error) {
	slog.Warn("refresh_failed", "slice", string(slice), "gym_id", st.GymID, "error", err)
	st.setErr(slice, err)
}

// LoadGym refreshes the gym record.
func (r *Refresher) LoadGym(ctx context.Context, st *AppState) {
	g, err := r.src.Gym(ctx, st.GymID)
	if err != nil {
		fail(st, SliceGym, err)
		return
	}
	st.setGym(g)
}

// LoadStats refreshes the aggregate counts.
func (r *Refresher) LoadStats(ctx context.Context, st *AppState) {
	s, err := r.src.Stats(ctx, st.GymID)
	if err != nil {
		fail(st, SliceStats, err)
		return
	}
	st.setStats(s)
}

// LoadMembers refreshes the member list.
func (r *Refresher) LoadMembers(ctx context.Context, st *AppState) {
	list, err := r.src.Members(ctx, st.GymID)
	if err != nil {
		fail(st, SliceMembers, err)
		return
	}
	st.setMembers(list)
}

// LoadTrainers refreshes the trainer list.
func (r *Refresher) LoadTrainers(ctx context.Context, st *AppState) {
	list, err := r.src.Trainers(ctx, st.GymID)
	if err != nil {
		fail(st, SliceTrainers, err)
		return
	}
	st.setTrainers(list)
}

// LoadPrograms refreshes the program list.
func (r *Refresher) LoadPrograms(ctx context.Context, st *AppState) {
	list, err := r.src.Programs(ctx, st.GymID)
	if err != nil {
		fail(st, SlicePrograms, err)
		return
	}
	st.setPrograms(list)
}

// LoadExercises refreshes the global exercise catalog.
func (r *Refresher) LoadExercises(ctx context.Context, st *AppState) {
	list, err := r.src.Exercises(ctx)
	if err != nil {
		fail(st, SliceExercises, err)
		return
	}
	st.setExercises(list)
}

// LoadProgramExercises refreshes the ordered exercise list of one program.
func (r *Refresher) LoadProgramExercises(ctx context.Context, st *AppState, programID int) {
	list, err := r.src.ProgramExercises(ctx, programID)
	if err != nil {
		fail(st, SliceProgramExercises, err)
		return
	}
	st.setProgramExercises(programID, list)
}

// LoadDashboard loads the gym record, then every collection concurrently, and waits
// for all of them to settle before marking the state ready.
// POST: st.Ready() is true; failed slices carry their error
func (r *Refresher) LoadDashboard(ctx context.Context, st *AppState) {
	r.LoadGym(ctx, st)
	r.Refresh(ctx, st, SliceStats, SliceMembers, SliceTrainers, SlicePrograms, SliceExercises)
	st.setReady()
}

// Refresh reloads the named slices concurrently and waits for all of them.
// SliceProgramExercises is ignored here; use RefreshProgram.
func (r *Refresher) Refresh(ctx context.Context, st *AppState, targets ...Slice) {
	var g errgroup.Group
	for _, target := range targets {
		load := r.loader(target)
		if load == nil {
			continue
		}
		g.Go(func() error {
			load(ctx, st)
			return nil
		})
	}
	_ = g.Wait()
}

// RefreshProgram reloads a program's exercise list and the program collection,
// so the list and the displayed exercise count agree.
func (r *Refresher) RefreshProgram(ctx context.Context, st *AppState, programID int) {
	var g errgroup.Group
	g.Go(func() error {
		r.LoadProgramExercises(ctx, st, programID)
		return nil
	})
	g.Go(func() error {
		r.LoadPrograms(ctx, st)
		return nil
	})
	_ = g.Wait()
}

func (r *Refresher) loader(s Slice) func(context.Context, *AppState) {
	switch s {
	case SliceGym:
		return r.LoadGym
	case SliceStats:
		return r.LoadStats
	case SliceMembers:
		return r.LoadMembers
	case SliceTrainers:
		return r.LoadTrainers
	case SlicePrograms:
		return r.LoadPrograms
	case SliceExercises:
		return r.LoadExercises
	}
	return nil
}
