package projections

import (
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/trainer"
)

// TrainerHighlightCount is how many trainers the dashboard lists.
const TrainerHighlightCount = 4

// LinkableMembers returns the active members a trainer may be linked to: those not
// already linked to any trainer, plus selected, the trainer's own current link.
// Each member appears once even when they hold several memberships.
// PRE: selected is nil when creating a trainer
// POST: No returned member is linked to another trainer
func LinkableMembers(members []member.Record, trainers []trainer.Trainer, selected *int) []member.Record {
	linked := make(map[int]bool, len(trainers))
	for _, t := range trainers {
		if t.MemberID != nil {
			linked[*t.MemberID] = true
		}
	}
	seen := make(map[int]bool, len(members))
	out := make([]member.Record, 0, len(members))
	for _, m := range members {
		if seen[m.MemberID] || !bool(m.IsActive) {
			continue
		}
		own := selected != nil && *selected == m.MemberID
		if linked[m.MemberID] && !own {
			continue
		}
		seen[m.MemberID] = true
		out = append(out, m)
	}
	return out
}

// TrainerHighlights returns the first TrainerHighlightCount trainers for the dashboard.
func TrainerHighlights(trainers []trainer.Trainer) []trainer.Trainer {
	if len(trainers) > TrainerHighlightCount {
		return trainers[:TrainerHighlightCount]
	}
	return trainers
}

// FindTrainer returns the trainer with id.
func FindTrainer(trainers []trainer.Trainer, id int) (trainer.Trainer, bool) {
	for _, t := range trainers {
		if t.ID == id {
			return t, true
		}
	}
	return trainer.Trainer{}, false
}
