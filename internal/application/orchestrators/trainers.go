package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"gymadmin/internal/application/formutil"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/trainer"
)

// TrainerAPI is the trainer part of the gym API.
type TrainerAPI interface {
	CreateTrainer(ctx context.Context, req trainer.CreateRequest) error
	UpdateTrainer(ctx context.Context, trainerID int, req trainer.UpdateRequest) error
}

// TrainerDeps holds dependencies for the trainer commands.
type TrainerDeps struct {
	API       TrainerAPI
	Refresher Refresher
	State     *state.AppState
}

// TrainerInput carries the raw trainer form. TrainerID and IsInGym are used on edit only.
type TrainerInput struct {
	TrainerID int
	Name      string
	Specialty string
	IsInGym   string
	MemberID  string
}

// ExecuteCreateTrainer adds a trainer, optionally linked to an existing member.
// PRE: deps.State belongs to the acting admin
// POST: On success the trainer list is reloaded
func ExecuteCreateTrainer(ctx context.Context, input TrainerInput, deps TrainerDeps) error {
	req := trainer.CreateRequest{
		GymID:     deps.State.GymID,
		Name:      strings.TrimSpace(input.Name),
		Specialty: strings.TrimSpace(input.Specialty),
		MemberID:  formutil.OptionalID(input.MemberID),
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := deps.API.CreateTrainer(ctx, req); err != nil {
		return err
	}
	slog.Info("trainer_event", "event", "trainer_created", "gym_id", req.GymID)
	deps.Refresher.Refresh(ctx, deps.State, state.SliceTrainers)
	return nil
}

// ExecuteEditTrainer replaces a trainer's fields.
// PRE: input.TrainerID identifies a trainer of the gym
// POST: On success the trainer list is reloaded
func ExecuteEditTrainer(ctx context.Context, input TrainerInput, deps TrainerDeps) error {
	req := trainer.UpdateRequest{
		Name:      input.Name,
		Specialty: input.Specialty,
		IsInGym:   formutil.Checkbox(input.IsInGym),
		MemberID:  formutil.OptionalID(input.MemberID),
	}
	if err := deps.API.UpdateTrainer(ctx, input.TrainerID, req); err != nil {
		return err
	}
	slog.Info("trainer_event", "event", "trainer_updated", "trainer_id", input.TrainerID)
	deps.Refresher.Refresh(ctx, deps.State, state.SliceTrainers)
	return nil
}
