package orchestrators

import (
	"context"

	"gymadmin/internal/application/state"
)

// Refresher re-fetches the collections a command changed.
type Refresher interface {
	Refresh(ctx context.Context, st *state.AppState, targets ...state.Slice)
	RefreshProgram(ctx context.Context, st *state.AppState, programID int)
}

// StateRegistry is the part of state.Registry the session orchestrators need.
type StateRegistry interface {
	GetOrCreate(token string, gymID int, adminUsername string) (*state.AppState, bool)
	Drop(token string)
}
