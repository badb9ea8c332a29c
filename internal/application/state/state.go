// Package state holds the per-session snapshot of backend collections.
package state

import (
	"slices"
	"sync"

	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/notice"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

// Slice names one independently loaded part of the snapshot.
type Slice string

const (
	SliceGym              Slice = "gym"
	SliceStats            Slice = "stats"
	SliceMembers          Slice = "members"
	SliceTrainers         Slice = "trainers"
	SlicePrograms         Slice = "programs"
	SliceExercises        Slice = "exercises"
	SliceProgramExercises Slice = "program_exercises"
)

// AppState is one administrator's view of the backend: the last successfully loaded
// value of each collection, the error of each slice's last failed load and a notice slot.
// INVARIANT: slices are replaced wholesale, never patched in place
type AppState struct {
	GymID         int
	AdminUsername string

	mu               sync.RWMutex
	gym              gym.Gym
	stats            gym.Stats
	members          []member.Record
	trainers         []trainer.Trainer
	programs         []program.Program
	exercises        []exercise.Exercise
	programExercises map[int][]program.Exercise
	errs             map[Slice]error
	ready            bool
	notice           notice.Notice
}

// New creates an empty state for a gym.
func New(gymID int, adminUsername string) *AppState {
	return &AppState{
		GymID:            gymID,
		AdminUsername:    adminUsername,
		programExercises: make(map[int][]program.Exercise),
		errs:             make(map[Slice]error),
	}
}

// Snapshot is a read-only copy of an AppState taken under its lock.
type Snapshot struct {
	GymID         int
	AdminUsername string
	Gym           gym.Gym
	Stats         gym.Stats
	Members       []member.Record
	Trainers      []trainer.Trainer
	Programs      []program.Program
	Exercises     []exercise.Exercise
	Errors        map[Slice]error
	Ready         bool
}

// Snapshot copies the current state for rendering.
// POST: The returned value shares no mutable memory with s
func (s *AppState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	errs := make(map[Slice]error, len(s.errs))
	for k, v := range s.errs {
		errs[k] = v
	}
	return Snapshot{
		GymID:         s.GymID,
		AdminUsername: s.AdminUsername,
		Gym:           s.gym,
		Stats:         s.stats,
		Members:       slices.Clone(s.members),
		Trainers:      slices.Clone(s.trainers),
		Programs:      slices.Clone(s.programs),
		Exercises:     slices.Clone(s.exercises),
		Errors:        errs,
		Ready:         s.ready,
	}
}

// ProgramExercises returns the cached exercise list of a program and whether it was loaded.
func (s *AppState) ProgramExercises(programID int) ([]program.Exercise, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.programExercises[programID]
	return slices.Clone(list), ok
}

// Err returns the error of the slice's last failed load, or nil.
func (s *AppState) Err(slice Slice) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[slice]
}

// Ready reports whether a full dashboard load has settled at least once.
func (s *AppState) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// SetNotice replaces the notice slot.
func (s *AppState) SetNotice(n notice.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = n
}

// TakeNotice returns and clears the notice slot.
// POST: The slot is empty
func (s *AppState) TakeNotice() notice.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = notice.Notice{}
	return n
}

// --- slice setters, used by loaders ---

func (s *AppState) setErr(slice Slice, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, slice)
		return
	}
	s.errs[slice] = err
}

func (s *AppState) setGym(g gym.Gym) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gym = g
	delete(s.errs, SliceGym)
}

func (s *AppState) setStats(st gym.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st
	delete(s.errs, SliceStats)
}

func (s *AppState) setMembers(list []member.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = list
	delete(s.errs, SliceMembers)
}

func (s *AppState) setTrainers(list []trainer.Trainer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainers = list
	delete(s.errs, SliceTrainers)
}

func (s *AppState) setPrograms(list []program.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs = list
	delete(s.errs, SlicePrograms)
}

func (s *AppState) setExercises(list []exercise.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises = list
	delete(s.errs, SliceExercises)
}

func (s *AppState) setProgramExercises(programID int, list []program.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programExercises[programID] = list
	delete(s.errs, SliceProgramExercises)
}

func (s *AppState) setReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}
