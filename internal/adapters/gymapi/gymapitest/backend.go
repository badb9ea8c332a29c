// Package gymapitest provides an in-memory gym API for tests.
package gymapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/jsonval"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

type admin struct {
	hash  []byte
	gymID int
}

type user struct {
	id    int
	name  string
	email string
}

type membership struct {
	id          int
	gymID       int
	userID      int
	kind        string
	days        *int
	creditTotal int
	creditUsed  int
	active      bool
}

type trainerRow struct {
	gymID int
	t     trainer.Trainer
}

type programRow struct {
	gymID int
	p     program.Program
}

type link struct {
	exerciseID int
	orderNo    int
	sets       *int
	reps       *int
	restSec    *int
}

type failure struct {
	status  int
	message string
}

// Backend is a fake gym API. Zero value is not usable; call New.
type Backend struct {
	mu          sync.Mutex
	nextID      int
	admins      map[string]admin
	gyms        map[int]gym.Gym
	inside      map[int]int
	users       map[string]user
	memberships map[int]*membership
	trainers    map[int]*trainerRow
	programs    map[int]*programRow
	links       map[int][]link
	catalog     map[int]exercise.Exercise
	failures    map[string]failure
	calls       []string
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{
		nextID:      100,
		admins:      make(map[string]admin),
		gyms:        make(map[int]gym.Gym),
		inside:      make(map[int]int),
		users:       make(map[string]user),
		memberships: make(map[int]*membership),
		trainers:    make(map[int]*trainerRow),
		programs:    make(map[int]*programRow),
		links:       make(map[int][]link),
		catalog:     make(map[int]exercise.Exercise),
		failures:    make(map[string]failure),
	}
}

// Start serves the backend on an httptest server closed with the test.
// The returned URL already carries the /api prefix.
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// Handler returns the HTTP handler of the fake API mounted under /api.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"POST /api/admin/login":                                  b.login,
		"GET /api/gyms/{id}":                                     b.getGym,
		"GET /api/admin/gym/{id}/stats":                          b.getStats,
		"GET /api/admin/gym/{id}/members":                        b.listMembers,
		"POST /api/admin/add-member":                             b.addMember,
		"PUT /api/admin/membership/{id}":                         b.updateMembership,
		"DELETE /api/admin/membership/{id}":                      b.deleteMembership,
		"POST /api/admin/membership/{id}/add-credit":             b.addCredit,
		"GET /api/trainers":                                      b.listTrainers,
		"POST /api/admin/trainers":                               b.createTrainer,
		"PUT /api/admin/trainers/{id}":                           b.updateTrainer,
		"DELETE /api/admin/trainers/{id}":                        b.deleteTrainer,
		"GET /api/admin/programs":                                b.listPrograms,
		"POST /api/admin/programs":                               b.createProgram,
		"PUT /api/admin/programs/{id}":                           b.updateProgram,
		"DELETE /api/admin/programs/{id}":                        b.deleteProgram,
		"GET /api/admin/programs/{id}/exercises":                 b.listLinks,
		"POST /api/admin/programs/{id}/exercises":                b.addLink,
		"DELETE /api/admin/programs/{id}/exercises/{exerciseID}": b.removeLink,
		"GET /api/exercises":                                     b.listCatalog,
	}
	for pattern, h := range routes {
		mux.Handle(pattern, b.wrap(pattern, h))
	}
	return mux
}

// wrap records the call and applies any injected failure.
func (b *Backend) wrap(pattern string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, pattern)
		f, fail := b.failures[pattern]
		if fail {
			delete(b.failures, pattern)
		}
		b.mu.Unlock()
		if fail {
			writeJSON(w, f.status, map[string]string{"error": f.message})
			return
		}
		h(w, r)
	}
}

// --- Seeding ---

// AddGym registers a gym.
func (b *Backend) AddGym(g gym.Gym) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gyms[g.ID] = g
}

// SetPeopleInside sets the people_inside stat of a gym.
func (b *Backend) SetPeopleInside(gymID, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inside[gymID] = n
}

// AddAdmin registers admin credentials for a gym. The password is stored bcrypt-hashed.
func (b *Backend) AddAdmin(username, password string, gymID int) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.admins[username] = admin{hash: hash, gymID: gymID}
}

// AddUser registers an application user who may later be enrolled as a member.
func (b *Backend) AddUser(name, email string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.users[strings.ToLower(email)] = user{id: id, name: name, email: email}
	return id
}

// AddMember registers a user and enrolls them in a gym; it returns the membership id.
func (b *Backend) AddMember(gymID int, name, email string, kind string, days *int, credits int, active bool) int {
	uid := b.AddUser(name, email)
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.memberships[id] = &membership{id: id, gymID: gymID, userID: uid, kind: kind, days: days, creditTotal: credits, active: active}
	return id
}

// UseCredits marks n credits of a membership as consumed.
func (b *Backend) UseCredits(membershipID, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.memberships[membershipID]; ok {
		m.creditUsed += n
	}
}

// AddTrainer registers a trainer and returns its id.
func (b *Backend) AddTrainer(gymID int, t trainer.Trainer) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = b.id()
	b.trainers[t.ID] = &trainerRow{gymID: gymID, t: t}
	return t.ID
}

// AddExercise adds a catalog exercise and returns its id.
func (b *Backend) AddExercise(name, muscleGroup string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.catalog[id] = exercise.Exercise{ID: id, Name: name, MuscleGroup: muscleGroup}
	return id
}

// AddCatalogExercise adds a catalog exercise with a fixed id.
func (b *Backend) AddCatalogExercise(e exercise.Exercise) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog[e.ID] = e
}

// AddProgram registers a program and returns its id.
func (b *Backend) AddProgram(gymID int, title string, durationMin *int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.programs[id] = &programRow{gymID: gymID, p: program.Program{ID: id, Title: title, DurationMin: durationMin}}
	return id
}

// LinkExercise appends a catalog exercise to a program.
func (b *Backend) LinkExercise(programID, exerciseID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appendLink(programID, program.ExerciseRequest{ExerciseID: exerciseID})
}

// Fail makes the next call matching pattern (for example "GET /api/trainers") answer
// with status and an {"error": message} body.
func (b *Backend) Fail(pattern string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[pattern] = failure{status: status, message: message}
}

// Calls returns the route patterns served so far, in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount returns how many times pattern has been served.
func (b *Backend) CallCount(pattern string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == pattern {
			n++
		}
	}
	return n
}

// ResetCalls forgets the recorded calls.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// id returns the next identity. Callers hold mu.
func (b *Backend) id() int {
	b.nextID++
	return b.nextID
}

// --- Handlers ---

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &body) {
		return
	}
	b.mu.Lock()
	a, ok := b.admins[body.Username]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(a.hash, []byte(body.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Yetkisiz erişim"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Admin girişi başarılı", "gym_id": a.gymID})
}

func (b *Backend) getGym(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	g, found := b.gyms[id]
	b.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Gym bulunamadı"})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (b *Backend) getStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := gym.Stats{PeopleInside: b.inside[id]}
	for _, m := range b.memberships {
		if m.gymID != id {
			continue
		}
		s.TotalMembers++
		if m.active {
			s.ActiveMembers++
		}
	}
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) listMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	byID := make(map[int]user, len(b.users))
	for _, u := range b.users {
		byID[u.id] = u
	}
	list := []member.Record{}
	for _, m := range b.memberships {
		if m.gymID != id {
			continue
		}
		u := byID[m.userID]
		list = append(list, member.Record{
			MemberID:      u.id,
			MembershipID:  m.id,
			Name:          u.name,
			Email:         u.email,
			Type:          m.kind,
			RemainingDays: m.days,
			CreditTotal:   m.creditTotal,
			CreditUsed:    m.creditUsed,
			IsActive:      jsonval.Bool(m.active),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MembershipID > list[j].MembershipID })
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) addMember(w http.ResponseWriter, r *http.Request) {
	var req member.AddRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email gerekli!"})
		return
	}
	switch {
	case req.Type == member.TypeTimed && req.Days == nil,
		req.Type == member.TypeCredit && req.Credits == nil,
		!member.ValidType(req.Type):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Geçersiz üyelik bilgisi"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(req.Email)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Kullanıcı bulunamadı. Lütfen önce uygulamadan kayıt olun."})
		return
	}
	for _, m := range b.memberships {
		if m.gymID == req.GymID && m.userID == u.id {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Kullanıcı zaten salonunuza üye."})
			return
		}
	}
	m := &membership{id: b.id(), gymID: req.GymID, userID: u.id, kind: req.Type, days: req.Days, active: true}
	if req.Credits != nil {
		m.creditTotal = *req.Credits
	}
	b.memberships[m.id] = m
	writeJSON(w, http.StatusCreated, map[string]string{"message": req.Email + " başarıyla kaydedildi."})
}

func (b *Backend) updateMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req member.UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.IsActive == nil || !member.ValidType(req.Type) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Geçersiz üyelik bilgisi"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m, found := b.memberships[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Üyelik bulunamadı"})
		return
	}
	m.kind = req.Type
	m.days = req.Days
	if req.Credits != nil {
		m.creditTotal = *req.Credits
	}
	m.active = *req.IsActive != 0
	writeJSON(w, http.StatusOK, map[string]string{"message": "Üyelik güncellendi"})
}

func (b *Backend) deleteMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.memberships[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Üyelik bulunamadı"})
		return
	}
	delete(b.memberships, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Üyelik silindi"})
}

func (b *Backend) addCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req member.CreditRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Amount == nil || *req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Geçersiz kredi miktarı"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m, found := b.memberships[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Üyelik bulunamadı"})
		return
	}
	m.creditTotal += *req.Amount
	writeJSON(w, http.StatusOK, map[string]string{"message": "Kredi eklendi"})
}

func (b *Backend) listTrainers(w http.ResponseWriter, r *http.Request) {
	gymID, err := strconv.Atoi(r.URL.Query().Get("gym_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "gym_id gerekli"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := []trainer.Trainer{}
	for _, row := range b.trainers {
		if row.gymID == gymID {
			list = append(list, row.t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) createTrainer(w http.ResponseWriter, r *http.Request) {
	var req trainer.CreateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Specialty == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Tüm alanları doldurun!"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t := trainer.Trainer{ID: b.id(), Name: req.Name, Specialty: req.Specialty, MemberID: req.MemberID}
	b.trainers[t.ID] = &trainerRow{gymID: req.GymID, t: t}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Antrenör eklendi", "trainer_id": t.ID})
}

func (b *Backend) updateTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req trainer.UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	row, found := b.trainers[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Antrenör bulunamadı"})
		return
	}
	row.t.Name = req.Name
	row.t.Specialty = req.Specialty
	row.t.MemberID = req.MemberID
	if req.IsInGym != nil {
		row.t.IsInGym = *req.IsInGym != 0
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Antrenör güncellendi"})
}

func (b *Backend) deleteTrainer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.trainers[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Antrenör bulunamadı"})
		return
	}
	delete(b.trainers, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Antrenör silindi"})
}

func (b *Backend) listPrograms(w http.ResponseWriter, r *http.Request) {
	gymID, err := strconv.Atoi(r.URL.Query().Get("gym_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "gym_id gerekli"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := []program.Program{}
	for id, row := range b.programs {
		if row.gymID != gymID {
			continue
		}
		p := row.p
		p.ExerciseCount = len(b.links[id])
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) createProgram(w http.ResponseWriter, r *http.Request) {
	var req program.Request
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Başlık gerekli"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.programs[id] = &programRow{gymID: req.GymID, p: program.Program{ID: id, Title: req.Title, DurationMin: req.DurationMin}}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Program oluşturuldu", "fixed_id": id})
}

func (b *Backend) updateProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req program.Request
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	row, found := b.programs[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Program bulunamadı"})
		return
	}
	row.p.Title = req.Title
	row.p.DurationMin = req.DurationMin
	writeJSON(w, http.StatusOK, map[string]string{"message": "Program güncellendi"})
}

func (b *Backend) deleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.programs[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Program bulunamadı"})
		return
	}
	delete(b.programs, id)
	delete(b.links, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Program silindi"})
}

func (b *Backend) listLinks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.programs[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Program bulunamadı"})
		return
	}
	list := []program.Exercise{}
	for _, l := range b.links[id] {
		e := b.catalog[l.exerciseID]
		list = append(list, program.Exercise{
			ExerciseID:  l.exerciseID,
			Name:        e.Name,
			MuscleGroup: e.MuscleGroup,
			OrderNo:     l.orderNo,
			Sets:        l.sets,
			Reps:        l.reps,
			RestSec:     l.restSec,
		})
	}
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) addLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req program.ExerciseRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.programs[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Program bulunamadı"})
		return
	}
	if _, found := b.catalog[req.ExerciseID]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Egzersiz bulunamadı"})
		return
	}
	order := b.appendLink(id, req)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Egzersiz eklendi", "order_no": order})
}

// appendLink adds a link with the next order number. Callers hold mu.
func (b *Backend) appendLink(programID int, req program.ExerciseRequest) int {
	order := 1
	for _, l := range b.links[programID] {
		if l.orderNo >= order {
			order = l.orderNo + 1
		}
	}
	b.links[programID] = append(b.links[programID], link{
		exerciseID: req.ExerciseID,
		orderNo:    order,
		sets:       req.Sets,
		reps:       req.Reps,
		restSec:    req.RestSec,
	})
	return order
}

func (b *Backend) removeLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	exID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	links := b.links[id]
	for i, l := range links {
		if l.exerciseID == exID {
			b.links[id] = append(links[:i:i], links[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Egzersiz çıkarıldı"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Egzersiz bulunamadı"})
}

func (b *Backend) listCatalog(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := make([]exercise.Exercise, 0, len(b.catalog))
	for _, e := range b.catalog {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	writeJSON(w, http.StatusOK, list)
}

// --- helpers ---

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Geçersiz istek"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Geçersiz id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
