package web

import (
	"net/http"
	"strconv"

	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/application/state"
)

// listPaths maps an item type to the list its delete returns to.
var listPaths = map[string]string{
	orchestrators.ItemMember:  "/members",
	orchestrators.ItemTrainer: "/trainers",
	orchestrators.ItemProgram: "/programs",
}

var navOf = map[string]string{
	orchestrators.ItemMember:  "members",
	orchestrators.ItemTrainer: "trainers",
	orchestrators.ItemProgram: "programs",
}

// deleteTarget parses /delete/{type}/{id}. Unknown types are 404s.
func deleteTarget(w http.ResponseWriter, r *http.Request) (orchestrators.DeleteInput, bool) {
	itemType := r.PathValue("type")
	id, ok := pathID(r, "id")
	if !ok || !orchestrators.ValidItemType(itemType) {
		http.NotFound(w, r)
		return orchestrators.DeleteInput{}, false
	}
	return orchestrators.DeleteInput{ItemType: itemType, ItemID: id}, true
}

// itemName looks the item up in the cache; unknown items are shown by id.
func itemName(snap state.Snapshot, in orchestrators.DeleteInput) string {
	switch in.ItemType {
	case orchestrators.ItemMember:
		if m, ok := projections.FindMembership(snap.Members, in.ItemID); ok {
			return m.Name
		}
	case orchestrators.ItemTrainer:
		if t, ok := projections.FindTrainer(snap.Trainers, in.ItemID); ok {
			return t.Name
		}
	case orchestrators.ItemProgram:
		if p, ok := projections.FindProgram(snap.Programs, in.ItemID); ok {
			return p.Title
		}
	}
	return "#" + strconv.Itoa(in.ItemID)
}

func (s *server) deletePage(w http.ResponseWriter, r *http.Request, st *state.AppState, status int, in orchestrators.DeleteInput) {
	s.render(w, r, status, "delete", view.Page{
		Title: s.t("Confirm delete"),
		Nav:   navOf[in.ItemType],
		Body: view.DeleteBody{
			ItemType: in.ItemType,
			ItemID:   in.ItemID,
			Name:     itemName(st.Snapshot(), in),
			Cancel:   listPaths[in.ItemType],
		},
	})
}

// handleDeletePage handles GET /delete/{type}/{id}
func (s *server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	in, ok := deleteTarget(w, r)
	if !ok {
		return
	}
	s.deletePage(w, r, s.loaded(r), http.StatusOK, in)
}

// handleDelete handles POST /delete/{type}/{id}
func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	in, ok := deleteTarget(w, r)
	if !ok {
		return
	}
	st := s.loaded(r)
	err := orchestrators.ExecuteDelete(r.Context(), in, orchestrators.DeleteDeps{
		API:       s.API,
		Refresher: s.Refresher,
		State:     st,
	})
	if err != nil {
		s.fail(st, err, "Delete failed")
		s.deletePage(w, r, st, formStatus, in)
		return
	}
	s.succeed(w, r, st, "Deleted!", listPaths[in.ItemType])
}
