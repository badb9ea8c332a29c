package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"gymadmin/internal/application/formutil"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/program"
)

// ProgramAPI is the program part of the gym API.
type ProgramAPI interface {
	CreateProgram(ctx context.Context, req program.Request) error
	UpdateProgram(ctx context.Context, programID int, req program.Request) error
	AddProgramExercise(ctx context.Context, programID int, req program.ExerciseRequest) error
	RemoveProgramExercise(ctx context.Context, programID, exerciseID int) error
}

// ProgramDeps holds dependencies for the program commands.
type ProgramDeps struct {
	API       ProgramAPI
	Refresher Refresher
	State     *state.AppState
}

// ProgramInput carries the raw program form. ProgramID is used on edit only.
type ProgramInput struct {
	ProgramID   int
	Title       string
	DurationMin string
}

// ExecuteCreateProgram adds a program to the gym.
// PRE: deps.State belongs to the acting admin
// POST: On success the program list is reloaded
func ExecuteCreateProgram(ctx context.Context, input ProgramInput, deps ProgramDeps) error {
	req := program.Request{
		GymID:       deps.State.GymID,
		Title:       strings.TrimSpace(input.Title),
		DurationMin: formutil.ParseInt(input.DurationMin),
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := deps.API.CreateProgram(ctx, req); err != nil {
		return err
	}
	slog.Info("program_event", "event", "program_created", "gym_id", req.GymID)
	deps.Refresher.Refresh(ctx, deps.State, state.SlicePrograms)
	return nil
}

// ExecuteEditProgram replaces a program's title and duration.
// PRE: input.ProgramID identifies a program of the gym
// POST: On success the program list is reloaded
func ExecuteEditProgram(ctx context.Context, input ProgramInput, deps ProgramDeps) error {
	req := program.Request{
		Title:       strings.TrimSpace(input.Title),
		DurationMin: formutil.ParseInt(input.DurationMin),
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := deps.API.UpdateProgram(ctx, input.ProgramID, req); err != nil {
		return err
	}
	slog.Info("program_event", "event", "program_updated", "program_id", input.ProgramID)
	deps.Refresher.Refresh(ctx, deps.State, state.SlicePrograms)
	return nil
}

// ProgramExerciseInput carries the raw add-exercise form of the manage view.
type ProgramExerciseInput struct {
	ProgramID  int
	ExerciseID string
	Sets       string
	Reps       string
	RestSec    string
}

// ExecuteAddProgramExercise appends a catalog exercise to a program.
// The order number is assigned by the server.
// PRE: input.ProgramID identifies a program of the gym
// POST: On success the program's exercise list and the program list are reloaded
func ExecuteAddProgramExercise(ctx context.Context, input ProgramExerciseInput, deps ProgramDeps) error {
	req := program.ExerciseRequest{
		Sets:    formutil.ParseInt(input.Sets),
		Reps:    formutil.ParseInt(input.Reps),
		RestSec: formutil.ParseInt(input.RestSec),
	}
	if id := formutil.OptionalID(input.ExerciseID); id != nil {
		req.ExerciseID = *id
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := deps.API.AddProgramExercise(ctx, input.ProgramID, req); err != nil {
		return err
	}
	slog.Info("program_event", "event", "exercise_added", "program_id", input.ProgramID, "exercise_id", req.ExerciseID)
	deps.Refresher.RefreshProgram(ctx, deps.State, input.ProgramID)
	return nil
}

// ExecuteRemoveProgramExercise detaches an exercise from a program.
// PRE: the admin confirmed the removal
// POST: On success the program's exercise list and the program list are reloaded
func ExecuteRemoveProgramExercise(ctx context.Context, programID, exerciseID int, deps ProgramDeps) error {
	if err := deps.API.RemoveProgramExercise(ctx, programID, exerciseID); err != nil {
		return err
	}
	slog.Info("program_event", "event", "exercise_removed", "program_id", programID, "exercise_id", exerciseID)
	deps.Refresher.RefreshProgram(ctx, deps.State, programID)
	return nil
}
