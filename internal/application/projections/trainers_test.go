package projections

import (
	"testing"

	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/trainer"
)

func intPtr(n int) *int { return &n }

func TestLinkableMembers(t *testing.T) {
	members := []member.Record{
		{MemberID: 1, Name: "Ali", IsActive: true},
		{MemberID: 2, Name: "Ayşe", IsActive: true},
		{MemberID: 3, Name: "Can", IsActive: false},
		{MemberID: 4, Name: "Deniz", IsActive: true},
		{MemberID: 4, Name: "Deniz", IsActive: true, MembershipID: 2},
	}
	trainers := []trainer.Trainer{
		{ID: 10, MemberID: intPtr(1)},
		{ID: 11, MemberID: intPtr(2)},
		{ID: 12},
	}

	tests := []struct {
		name     string
		selected *int
		want     []int
	}{
		{"create excludes every linked member", nil, []int{4}},
		{"edit keeps own link", intPtr(2), []int{2, 4}},
		{"inactive never offered", intPtr(3), []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinkableMembers(members, trainers, tt.selected)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d members, want %v", len(got), tt.want)
			}
			for i, id := range tt.want {
				if got[i].MemberID != id {
					t.Errorf("option %d = %d, want %d", i, got[i].MemberID, id)
				}
			}
		})
	}
}

// TestLinkableMembers_NeverOffersOtherTrainersLink checks the property for every trainer being edited.
func TestLinkableMembers_NeverOffersOtherTrainersLink(t *testing.T) {
	members := []member.Record{
		{MemberID: 1, IsActive: true},
		{MemberID: 2, IsActive: true},
		{MemberID: 3, IsActive: true},
	}
	trainers := []trainer.Trainer{
		{ID: 10, MemberID: intPtr(1)},
		{ID: 11, MemberID: intPtr(2)},
		{ID: 12, MemberID: nil},
	}
	for _, editing := range trainers {
		for _, m := range LinkableMembers(members, trainers, editing.MemberID) {
			for _, other := range trainers {
				if other.ID != editing.ID && other.LinkedTo(m.MemberID) {
					t.Errorf("editing trainer %d offered member %d linked to trainer %d", editing.ID, m.MemberID, other.ID)
				}
			}
		}
	}
}

func TestTrainerHighlights(t *testing.T) {
	list := make([]trainer.Trainer, 6)
	if got := len(TrainerHighlights(list)); got != TrainerHighlightCount {
		t.Errorf("len = %d, want %d", got, TrainerHighlightCount)
	}
}
