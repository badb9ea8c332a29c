package web

import (
	"bytes"
	"net/http"
	"strconv"

	"gymadmin/internal/adapters/export"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/formutil"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/member"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Form defaults
const (
	defaultCreditAmount   = "30"
	defaultMembershipDays = "30"
)

func (s *server) memberDeps(st *state.AppState) orchestrators.MemberDeps {
	deps := orchestrators.MemberDeps{
		API:       s.API,
		Refresher: s.Refresher,
		State:     st,
	}
	if s.Welcome != nil {
		deps.Welcome = s.Welcome
		deps.WelcomeFrom = s.WelcomeFrom
		deps.GymName = st.Snapshot().Gym.DisplayName(st.GymID)
	}
	return deps
}

// handleMembers handles GET /members?q=
func (s *server) handleMembers(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	snap := st.Snapshot()
	q := r.URL.Query().Get("q")

	s.render(w, r, http.StatusOK, "members", view.Page{
		Title: s.t("Members"),
		Nav:   "members",
		Body: view.MembersBody{
			Query:   q,
			Members: projections.FilterMembers(q, snap.Members),
			Error:   s.sectionError(snap.Errors[state.SliceMembers]),
		},
	})
}

// handleMembersTable handles GET /members/table?q=
// Returns only the members_table fragment for the search box's live filter.
func (s *server) handleMembersTable(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	members := projections.FilterMembers(r.URL.Query().Get("q"), st.Snapshot().Members)

	var buf bytes.Buffer
	if err := s.Renderer.Fragment(&buf, r, view.FragmentMembersTable, members); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// handleMembersExport handles GET /members/export.xlsx?q=
func (s *server) handleMembersExport(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	snap := st.Snapshot()
	members := projections.FilterMembers(r.URL.Query().Get("q"), snap.Members)

	var headers export.MemberHeaders
	for i, h := range export.DefaultMemberHeaders {
		headers[i] = s.t(h)
	}
	var buf bytes.Buffer
	if err := export.WriteMembers(&buf, members, headers); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(snap.GymID)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

func (s *server) memberFormPage(w http.ResponseWriter, r *http.Request, status int, form view.MemberForm) {
	s.render(w, r, status, "member_new", view.Page{Title: s.t("Add member"), Nav: "members", Body: form})
}

// handleMemberNewPage handles GET /members/new
func (s *server) handleMemberNewPage(w http.ResponseWriter, r *http.Request) {
	s.memberFormPage(w, r, http.StatusOK, view.MemberForm{Type: member.TypeTimed, Days: defaultMembershipDays})
}

// handleMemberNew handles POST /members/new
func (s *server) handleMemberNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	input := orchestrators.AddMemberInput{
		Email:   r.FormValue("email"),
		Type:    r.FormValue("type"),
		Days:    r.FormValue("days"),
		Credits: r.FormValue("credits"),
	}
	if err := orchestrators.ExecuteAddMember(r.Context(), input, s.memberDeps(st)); err != nil {
		s.fail(st, err, "Could not add member")
		s.memberFormPage(w, r, formStatus, view.MemberForm{
			Email:   input.Email,
			Type:    input.Type,
			Days:    input.Days,
			Credits: input.Credits,
		})
		return
	}
	s.succeed(w, r, st, "Member added!", "/members")
}

// findMembership resolves the {id} path segment against the cached member list.
func (s *server) findMembership(w http.ResponseWriter, r *http.Request, st *state.AppState) (member.Record, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return member.Record{}, false
	}
	rec, ok := projections.FindMembership(st.Snapshot().Members, id)
	if !ok {
		http.NotFound(w, r)
		return member.Record{}, false
	}
	return rec, true
}

func (s *server) membershipFormPage(w http.ResponseWriter, r *http.Request, status int, form view.MembershipForm) {
	s.render(w, r, status, "membership_edit", view.Page{Title: s.t("Edit membership"), Nav: "members", Body: form})
}

// handleMembershipEditPage handles GET /memberships/{id}/edit
func (s *server) handleMembershipEditPage(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	rec, ok := s.findMembership(w, r, st)
	if !ok {
		return
	}
	days := formutil.Value(rec.RemainingDays)
	if days == "" {
		days = defaultMembershipDays
	}
	s.membershipFormPage(w, r, http.StatusOK, view.MembershipForm{
		MembershipID: rec.MembershipID,
		Name:         rec.Name,
		Type:         rec.Type,
		Days:         days,
		CreditTotal:  strconv.Itoa(rec.CreditTotal),
		IsActive:     strconv.Itoa(rec.IsActive.Int()),
	})
}

// handleMembershipEdit handles POST /memberships/{id}/edit
func (s *server) handleMembershipEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	rec, ok := s.findMembership(w, r, st)
	if !ok {
		return
	}
	input := orchestrators.EditMembershipInput{
		MembershipID: rec.MembershipID,
		Type:         r.FormValue("type"),
		Days:         r.FormValue("days"),
		CreditTotal:  r.FormValue("credit_total"),
		IsActive:     r.FormValue("is_active"),
	}
	if err := orchestrators.ExecuteEditMembership(r.Context(), input, s.memberDeps(st)); err != nil {
		s.fail(st, err, "Update failed")
		s.membershipFormPage(w, r, formStatus, view.MembershipForm{
			MembershipID: rec.MembershipID,
			Name:         rec.Name,
			Type:         input.Type,
			Days:         input.Days,
			CreditTotal:  input.CreditTotal,
			IsActive:     input.IsActive,
		})
		return
	}
	s.succeed(w, r, st, "Membership updated!", "/members")
}

func (s *server) creditFormPage(w http.ResponseWriter, r *http.Request, status int, form view.CreditForm) {
	s.render(w, r, status, "membership_credit", view.Page{Title: s.t("Add balance"), Nav: "members", Body: form})
}

// handleMembershipCreditPage handles GET /memberships/{id}/credit
func (s *server) handleMembershipCreditPage(w http.ResponseWriter, r *http.Request) {
	st := s.loaded(r)
	rec, ok := s.findMembership(w, r, st)
	if !ok {
		return
	}
	s.creditFormPage(w, r, http.StatusOK, view.CreditForm{
		MembershipID: rec.MembershipID,
		Name:         rec.Name,
		Type:         rec.Type,
		Amount:       defaultCreditAmount,
	})
}

// handleMembershipCredit handles POST /memberships/{id}/credit
func (s *server) handleMembershipCredit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	st := s.loaded(r)
	rec, ok := s.findMembership(w, r, st)
	if !ok {
		return
	}
	input := orchestrators.AddCreditInput{MembershipID: rec.MembershipID, Amount: r.FormValue("amount")}
	if err := orchestrators.ExecuteAddCredit(r.Context(), input, s.memberDeps(st)); err != nil {
		s.fail(st, err, "Operation failed")
		s.creditFormPage(w, r, formStatus, view.CreditForm{
			MembershipID: rec.MembershipID,
			Name:         rec.Name,
			Type:         rec.Type,
			Amount:       input.Amount,
		})
		return
	}
	s.succeed(w, r, st, "Balance added!", "/members")
}
