package state_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/notice"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

// mockSource is a hand-written Source with per-call error injection.
type mockSource struct {
	mu       sync.Mutex
	errs     map[string]error
	members  []member.Record
	trainers []trainer.Trainer
	calls    []string

	// barrier, when set, blocks each collection loader until all of them started.
	barrier *sync.WaitGroup
}

func (m *mockSource) call(name string) error {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	err := m.errs[name]
	m.mu.Unlock()
	return err
}

func (m *mockSource) wait() {
	if m.barrier == nil {
		return
	}
	m.barrier.Done()
	done := make(chan struct{})
	go func() { m.barrier.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func (m *mockSource) Gym(_ context.Context, id int) (gym.Gym, error) {
	if err := m.call("gym"); err != nil {
		return gym.Gym{}, err
	}
	return gym.Gym{ID: id, Name: "Demir Spor"}, nil
}

func (m *mockSource) Stats(context.Context, int) (gym.Stats, error) {
	m.wait()
	if err := m.call("stats"); err != nil {
		return gym.Stats{}, err
	}
	return gym.Stats{TotalMembers: len(m.members), ActiveMembers: 1}, nil
}

func (m *mockSource) Members(context.Context, int) ([]member.Record, error) {
	m.wait()
	if err := m.call("members"); err != nil {
		return nil, err
	}
	return m.members, nil
}

func (m *mockSource) Trainers(context.Context, int) ([]trainer.Trainer, error) {
	m.wait()
	if err := m.call("trainers"); err != nil {
		return nil, err
	}
	return m.trainers, nil
}

func (m *mockSource) Programs(context.Context, int) ([]program.Program, error) {
	m.wait()
	if err := m.call("programs"); err != nil {
		return nil, err
	}
	return []program.Program{{ID: 1, Title: "Push", ExerciseCount: 2}}, nil
}

func (m *mockSource) Exercises(context.Context) ([]exercise.Exercise, error) {
	m.wait()
	if err := m.call("exercises"); err != nil {
		return nil, err
	}
	return []exercise.Exercise{{ID: 7, Name: "Squat", MuscleGroup: "Legs"}}, nil
}

func (m *mockSource) ProgramExercises(_ context.Context, id int) ([]program.Exercise, error) {
	if err := m.call("program_exercises"); err != nil {
		return nil, err
	}
	return []program.Exercise{{ExerciseID: 7, OrderNo: 1}}, nil
}

func TestLoadDashboard_LoadsEverySlice(t *testing.T) {
	src := &mockSource{
		members:  []member.Record{{MemberID: 1, Name: "Ali Veli"}},
		trainers: []trainer.Trainer{{ID: 3, Name: "Can"}},
	}
	st := state.New(5, "admin")
	state.NewRefresher(src).LoadDashboard(context.Background(), st)

	snap := st.Snapshot()
	if !snap.Ready {
		t.Error("state should be ready after LoadDashboard")
	}
	if snap.Gym.Name != "Demir Spor" || len(snap.Members) != 1 || len(snap.Trainers) != 1 ||
		len(snap.Programs) != 1 || len(snap.Exercises) != 1 || snap.Stats.TotalMembers != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if src.calls[0] != "gym" {
		t.Errorf("first call = %q, want gym", src.calls[0])
	}
	if len(snap.Errors) != 0 {
		t.Errorf("Errors = %v, want none", snap.Errors)
	}
}

// TestLoadDashboard_RunsCollectionsConcurrently blocks every collection loader until
// all five have started; a sequential implementation would time out on each.
func TestLoadDashboard_RunsCollectionsConcurrently(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(5)
	src := &mockSource{barrier: &barrier}
	st := state.New(5, "admin")

	start := time.Now()
	state.NewRefresher(src).LoadDashboard(context.Background(), st)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("LoadDashboard took %v; loaders did not run concurrently", elapsed)
	}
}

// TestLoader_FailureKeepsPreviousValue verifies a failed reload leaves the slice intact
// and records the error only on that slice.
func TestLoader_FailureKeepsPreviousValue(t *testing.T) {
	src := &mockSource{members: []member.Record{{MemberID: 1}, {MemberID: 2}}}
	r := state.NewRefresher(src)
	st := state.New(5, "admin")
	ctx := context.Background()

	r.LoadDashboard(ctx, st)

	boom := errors.New("connection refused")
	src.errs = map[string]error{"members": boom}
	src.members = nil
	r.Refresh(ctx, st, state.SliceMembers, state.SliceStats)

	snap := st.Snapshot()
	if len(snap.Members) != 2 {
		t.Errorf("members = %d, want previous 2", len(snap.Members))
	}
	if !errors.Is(st.Err(state.SliceMembers), boom) {
		t.Errorf("members err = %v", st.Err(state.SliceMembers))
	}
	if st.Err(state.SliceStats) != nil {
		t.Errorf("stats err = %v, want nil", st.Err(state.SliceStats))
	}

	src.errs = nil
	src.members = []member.Record{{MemberID: 1}}
	r.LoadMembers(ctx, st)
	if st.Err(state.SliceMembers) != nil {
		t.Error("successful reload should clear the slice error")
	}
}

func TestLoader_FirstLoadFailureLeavesSliceEmpty(t *testing.T) {
	src := &mockSource{errs: map[string]error{"trainers": errors.New("down")}}
	st := state.New(5, "admin")
	state.NewRefresher(src).LoadDashboard(context.Background(), st)

	snap := st.Snapshot()
	if snap.Trainers != nil {
		t.Errorf("trainers = %v, want nil", snap.Trainers)
	}
	if !snap.Ready {
		t.Error("partial failure must still mark the dashboard ready")
	}
}

func TestRefreshProgram_ReloadsListAndPrograms(t *testing.T) {
	src := &mockSource{}
	st := state.New(5, "admin")
	state.NewRefresher(src).RefreshProgram(context.Background(), st, 1)

	list, ok := st.ProgramExercises(1)
	if !ok || len(list) != 1 {
		t.Errorf("ProgramExercises = %v, %v", list, ok)
	}
	if len(st.Snapshot().Programs) != 1 {
		t.Error("programs not reloaded")
	}
}

func TestNoticeSlot(t *testing.T) {
	st := state.New(1, "admin")
	st.SetNotice(notice.Danger("first"))
	st.SetNotice(notice.Success("second"))

	n := st.TakeNotice()
	if n.Message != "second" {
		t.Errorf("TakeNotice = %q, want the latest notice", n.Message)
	}
	if !st.TakeNotice().IsZero() {
		t.Error("notice should be consumed once taken")
	}
}

func TestRegistry(t *testing.T) {
	reg := state.NewRegistry()
	st, created := reg.GetOrCreate("tok", 5, "admin")
	if !created || st.GymID != 5 {
		t.Fatalf("GetOrCreate = %+v, %v", st, created)
	}
	again, created := reg.GetOrCreate("tok", 5, "admin")
	if created || again != st {
		t.Error("second GetOrCreate should return the same state")
	}

	reg.Drop("tok")
	if reg.Len() != 0 {
		t.Error("dropped state still present")
	}
	fresh, created := reg.GetOrCreate("tok", 5, "admin")
	if !created || fresh == st {
		t.Error("state after Drop must be new")
	}
}

func TestRegistry_Sweep(t *testing.T) {
	reg := state.NewRegistry()
	reg.GetOrCreate("a", 1, "admin")
	time.Sleep(5 * time.Millisecond)
	if n := reg.Sweep(time.Millisecond); n != 1 {
		t.Errorf("Sweep = %d, want 1", n)
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	src := &mockSource{members: []member.Record{{MemberID: 1, Name: "Ali"}}}
	st := state.New(5, "admin")
	state.NewRefresher(src).LoadMembers(context.Background(), st)

	snap := st.Snapshot()
	snap.Members[0].Name = "changed"
	if st.Snapshot().Members[0].Name != "Ali" {
		t.Error("mutating a snapshot leaked into the state")
	}
}
