package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	emailAdapter "gymadmin/internal/adapters/email"
	"gymadmin/internal/application/formutil"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/member"
)

// MemberAPI is the member and membership part of the gym API.
type MemberAPI interface {
	AddMember(ctx context.Context, req member.AddRequest) error
	UpdateMembership(ctx context.Context, membershipID int, req member.UpdateRequest) error
	AddCredit(ctx context.Context, membershipID int, req member.CreditRequest) error
}

// MemberDeps holds dependencies for the member commands.
type MemberDeps struct {
	API       MemberAPI
	Refresher Refresher
	State     *state.AppState

	// Welcome, when non-nil, is told about each newly added member. Its errors are logged only.
	Welcome     emailAdapter.Sender
	WelcomeFrom string
	GymName     string
}

// --- Add member ---

// AddMemberInput carries the raw add-member form.
type AddMemberInput struct {
	Email   string
	Type    string
	Days    string
	Credits string
}

// Request converts the form to the API body. Days is sent only for timed and Credits
// only for credit memberships; unparsable numbers become null.
func (in AddMemberInput) Request(gymID int) member.AddRequest {
	req := member.AddRequest{GymID: gymID, Email: strings.TrimSpace(in.Email), Type: in.Type}
	switch in.Type {
	case member.TypeTimed:
		req.Days = formutil.ParseInt(in.Days)
	case member.TypeCredit:
		req.Credits = formutil.ParseInt(in.Credits)
	}
	return req
}

// ExecuteAddMember enrolls an existing user in the gym.
// PRE: deps.State belongs to the acting admin
// POST: On success members and stats are reloaded; on failure the cache is untouched
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps MemberDeps) error {
	req := input.Request(deps.State.GymID)
	if err := req.Validate(); err != nil {
		return err
	}
	if err := deps.API.AddMember(ctx, req); err != nil {
		return err
	}
	slog.Info("member_event", "event", "member_added", "gym_id", req.GymID, "type", req.Type)

	deps.Refresher.Refresh(ctx, deps.State, state.SliceMembers, state.SliceStats)

	if deps.Welcome != nil {
		msg := emailAdapter.WelcomeRequest(deps.WelcomeFrom, deps.GymName, req.Email)
		if _, err := deps.Welcome.Send(ctx, msg); err != nil {
			slog.Warn("welcome_email_failed", "gym_id", req.GymID, "error", err)
		}
	}
	return nil
}

// --- Edit membership ---

// EditMembershipInput carries the raw edit-membership form.
type EditMembershipInput struct {
	MembershipID int
	Type         string
	Days         string
	CreditTotal  string
	IsActive     string
}

// Request converts the form to the API body.
func (in EditMembershipInput) Request() member.UpdateRequest {
	req := member.UpdateRequest{Type: in.Type, IsActive: formutil.Checkbox(in.IsActive)}
	switch in.Type {
	case member.TypeTimed:
		req.Days = formutil.ParseInt(in.Days)
	case member.TypeCredit:
		req.Credits = formutil.ParseInt(in.CreditTotal)
	}
	return req
}

// ExecuteEditMembership replaces a membership's type, amount and status.
// PRE: input.MembershipID identifies a membership of the gym
// POST: On success the member list is reloaded
func ExecuteEditMembership(ctx context.Context, input EditMembershipInput, deps MemberDeps) error {
	if err := deps.API.UpdateMembership(ctx, input.MembershipID, input.Request()); err != nil {
		return err
	}
	slog.Info("member_event", "event", "membership_updated", "membership_id", input.MembershipID)
	deps.Refresher.Refresh(ctx, deps.State, state.SliceMembers)
	return nil
}

// --- Add credit ---

// AddCreditInput carries the raw add-credit form.
type AddCreditInput struct {
	MembershipID int
	Amount       string
}

// ExecuteAddCredit tops up a membership by the given amount.
// PRE: input.MembershipID identifies a membership of the gym
// POST: On success the member list is reloaded
func ExecuteAddCredit(ctx context.Context, input AddCreditInput, deps MemberDeps) error {
	req := member.CreditRequest{Amount: formutil.ParseInt(input.Amount)}
	if err := deps.API.AddCredit(ctx, input.MembershipID, req); err != nil {
		return err
	}
	slog.Info("member_event", "event", "credit_added", "membership_id", input.MembershipID)
	deps.Refresher.Refresh(ctx, deps.State, state.SliceMembers)
	return nil
}
