package gymapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymadmin/internal/adapters/gymapi"
	"gymadmin/internal/adapters/gymapi/gymapitest"
	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/program"
)

func newBackend(t *testing.T) (*gymapitest.Backend, *gymapi.Client) {
	t.Helper()
	b := gymapitest.New()
	b.AddGym(gym.Gym{ID: 1, Name: "Demir Spor", Location: "Kadıköy", Capacity: 80})
	b.AddAdmin("admin", "secret", 1)
	url := b.Start(t)
	return b, gymapi.New(gymapi.Config{BaseURL: url, Timeout: 5 * time.Second})
}

func TestLogin(t *testing.T) {
	_, c := newBackend(t)
	ctx := context.Background()

	gymID, err := c.Login(ctx, "admin", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if gymID != 1 {
		t.Errorf("gymID = %d, want 1", gymID)
	}

	_, err = c.Login(ctx, "admin", "wrong")
	var apiErr *gymapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Yetkisiz erişim" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := gymapi.New(gymapi.Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Stats(context.Background(), 1)
	if !errors.Is(err, gymapi.ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestUndecodableBodyIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := gymapi.New(gymapi.Config{BaseURL: srv.URL})
	_, err := c.Members(context.Background(), 1)
	if !errors.Is(err, gymapi.ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestErrorMessageFallsBackToMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad input"}`))
	}))
	defer srv.Close()

	c := gymapi.New(gymapi.Config{BaseURL: srv.URL})
	err := c.DeleteTrainer(context.Background(), 4)
	var apiErr *gymapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad input" {
		t.Errorf("expected APIError with message, got %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotID, gotType, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.RequestURI()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := gymapi.New(gymapi.Config{BaseURL: srv.URL + "/api/"})
	if err := c.AddMember(context.Background(), member.AddRequest{GymID: 1, Email: "a@b.com", Type: member.TypeTimed}); err != nil {
		t.Fatalf("AddMember error: %v", err)
	}
	if len(gotID) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", gotID)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotPath != "/api/admin/add-member" {
		t.Errorf("path = %q", gotPath)
	}
}

// TestProgramExerciseOrderIsServerAssigned adds a third exercise and checks the
// reloaded count and order number come from the server.
func TestProgramExerciseOrderIsServerAssigned(t *testing.T) {
	b, c := newBackend(t)
	ctx := context.Background()

	squat := b.AddExercise("Squat", "Legs")
	bench := b.AddExercise("Bench Press", "Chest")
	b.AddCatalogExercise(exercise.Exercise{ID: 7, Name: "Deadlift", MuscleGroup: "Back"})
	pid := b.AddProgram(1, "Full Body", nil)
	b.LinkExercise(pid, squat)
	b.LinkExercise(pid, bench)

	sets, reps, rest := 3, 10, 60
	if err := c.AddProgramExercise(ctx, pid, program.ExerciseRequest{ExerciseID: 7, Sets: &sets, Reps: &reps, RestSec: &rest}); err != nil {
		t.Fatalf("AddProgramExercise error: %v", err)
	}

	programs, err := c.Programs(ctx, 1)
	if err != nil {
		t.Fatalf("Programs error: %v", err)
	}
	if len(programs) != 1 || programs[0].ExerciseCount != 3 {
		t.Fatalf("programs = %+v, want one program with 3 exercises", programs)
	}

	rows, err := c.ProgramExercises(ctx, pid)
	if err != nil {
		t.Fatalf("ProgramExercises error: %v", err)
	}
	last := rows[len(rows)-1]
	if last.ExerciseID != 7 || last.OrderNo != 3 || *last.Sets != 3 || *last.Reps != 10 || *last.RestSec != 60 {
		t.Errorf("new row = %+v", last)
	}
}

func TestCallsAreTimed(t *testing.T) {
	b := gymapitest.New()
	b.AddGym(gym.Gym{ID: 1, Name: "Demir Spor"})
	collector := perf.NewCollector(16)
	c := gymapi.New(gymapi.Config{BaseURL: b.Start(t), Collector: collector})

	if _, err := c.Gym(context.Background(), 1); err != nil {
		t.Fatalf("Gym error: %v", err)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestAPICalls) != 1 || snap.SlowestAPICalls[0].Path != "GET /gyms/{id}" {
		t.Errorf("SlowestAPICalls = %+v", snap.SlowestAPICalls)
	}
}
