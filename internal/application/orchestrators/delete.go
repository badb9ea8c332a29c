package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymadmin/internal/application/state"
)

// Item types accepted by ExecuteDelete.
const (
	ItemMember  = "member"
	ItemTrainer = "trainer"
	ItemProgram = "program"
)

// ErrUnknownItemType is returned for an item type outside ItemMember, ItemTrainer and ItemProgram.
var ErrUnknownItemType = errors.New("unknown item type")

// DeleteAPI is the delete side of the gym API.
type DeleteAPI interface {
	DeleteMembership(ctx context.Context, membershipID int) error
	DeleteTrainer(ctx context.Context, trainerID int) error
	DeleteProgram(ctx context.Context, programID int) error
}

// DeleteInput identifies the item to delete. For members ItemID is the membership id.
type DeleteInput struct {
	ItemType string
	ItemID   int
}

// DeleteDeps holds dependencies for Delete.
type DeleteDeps struct {
	API       DeleteAPI
	Refresher Refresher
	State     *state.AppState
}

type deleteTarget struct {
	call    func(DeleteAPI, context.Context, int) error
	refresh []state.Slice
}

var deleteTargets = map[string]deleteTarget{
	ItemMember:  {call: DeleteAPI.DeleteMembership, refresh: []state.Slice{state.SliceMembers, state.SliceStats}},
	ItemTrainer: {call: DeleteAPI.DeleteTrainer, refresh: []state.Slice{state.SliceTrainers}},
	ItemProgram: {call: DeleteAPI.DeleteProgram, refresh: []state.Slice{state.SlicePrograms}},
}

// ValidItemType reports whether ExecuteDelete accepts itemType.
func ValidItemType(itemType string) bool {
	_, ok := deleteTargets[itemType]
	return ok
}

// ExecuteDelete removes one item, picking the endpoint and the collections to reload by type.
// PRE: the admin confirmed the deletion
// POST: On success the owning collection is reloaded (members also reload stats)
func ExecuteDelete(ctx context.Context, input DeleteInput, deps DeleteDeps) error {
	target, ok := deleteTargets[input.ItemType]
	if !ok {
		return ErrUnknownItemType
	}
	if err := target.call(deps.API, ctx, input.ItemID); err != nil {
		return err
	}
	slog.Info("delete_event", "event", "item_deleted", "item_type", input.ItemType, "item_id", input.ItemID)
	deps.Refresher.Refresh(ctx, deps.State, target.refresh...)
	return nil
}
