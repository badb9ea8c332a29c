package projections

import (
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/trainer"
)

// StatsCards holds the figures of the dashboard's stat cards.
// TotalTrainers counts the cached trainer list; the stats endpoint does not report it.
type StatsCards struct {
	TotalMembers  int
	ActiveMembers int
	PeopleInside  int
	TotalTrainers int
}

// DashboardView is the read model of the dashboard page.
type DashboardView struct {
	GymName       string
	Cards         StatsCards
	RecentMembers []member.Record
	Trainers      []trainer.Trainer
	Errors        map[state.Slice]error
	Ready         bool
}

// QueryDashboard builds the dashboard from a state snapshot.
// PRE: snap was taken from a loaded or loading AppState
// POST: Lists are capped at RecentMemberCount and TrainerHighlightCount
func QueryDashboard(snap state.Snapshot) DashboardView {
	return DashboardView{
		GymName: snap.Gym.DisplayName(snap.GymID),
		Cards: StatsCards{
			TotalMembers:  snap.Stats.TotalMembers,
			ActiveMembers: snap.Stats.ActiveMembers,
			PeopleInside:  snap.Stats.PeopleInside,
			TotalTrainers: len(snap.Trainers),
		},
		RecentMembers: RecentMembers(snap.Members),
		Trainers:      TrainerHighlights(snap.Trainers),
		Errors:        snap.Errors,
		Ready:         snap.Ready,
	}
}
