package view

import (
	"html/template"

	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/application/projections"
	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/notice"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

// Page is the data passed to the layout. Body carries the page-specific model.
type Page struct {
	Title   string
	Nav     string
	Admin   string
	GymName string
	Lang    string
	Notice  notice.Notice
	Body    any
}

// LoginBody backs the login page.
type LoginBody struct {
	Username string
}

// DashboardBody backs the dashboard page.
type DashboardBody struct {
	Cards         projections.StatsCards
	RecentMembers []member.Record
	Trainers      []trainer.Trainer
	Errors        map[string]string
}

// MembersBody backs the members list.
type MembersBody struct {
	Query   string
	Members []member.Record
	Error   string
}

// MemberForm holds the submitted add-member fields.
type MemberForm struct {
	Email   string
	Type    string
	Days    string
	Credits string
}

// MembershipForm holds the submitted edit-membership fields.
type MembershipForm struct {
	MembershipID int
	Name         string
	Type         string
	Days         string
	CreditTotal  string
	IsActive     string
}

// CreditForm holds the submitted add-credit fields.
type CreditForm struct {
	MembershipID int
	Name         string
	Type         string
	Amount       string
}

// TrainersBody backs the trainers list.
type TrainersBody struct {
	Trainers []trainer.Trainer
	Error    string
}

// TrainerForm holds the submitted trainer fields. TrainerID is 0 when creating.
type TrainerForm struct {
	TrainerID int
	Name      string
	Specialty string
	IsInGym   string
	MemberID  string
	Members   []member.Record
}

// ProgramsBody backs the programs list.
type ProgramsBody struct {
	Programs []program.Program
	Error    string
}

// ProgramForm holds the submitted program fields. ProgramID is 0 when creating.
type ProgramForm struct {
	ProgramID   int
	Title       string
	DurationMin string
}

// ProgramExercisesTable is the data of the program_exercises_table fragment.
type ProgramExercisesTable struct {
	ProgramID int
	Rows      []program.Exercise
}

// ProgramExerciseForm holds the submitted add-exercise fields.
type ProgramExerciseForm struct {
	ExerciseID string
	Sets       string
	Reps       string
	RestSec    string
}

// ProgramExercisesBody backs the manage-exercises page of one program.
type ProgramExercisesBody struct {
	Program program.Program
	Table   ProgramExercisesTable
	Catalog []exercise.Exercise
	Form    ProgramExerciseForm
	Error   string
}

// DeleteBody backs the delete confirmation.
type DeleteBody struct {
	ItemType string
	ItemID   int
	Name     string
	Cancel   string
}

// SettingsBody backs the read-only settings page.
type SettingsBody struct {
	Gym   gym.Gym
	GymID int
	Admin string
	Error string
}

// HelpBody backs the help page.
type HelpBody struct {
	HTML template.HTML
}

// PerfBody backs the performance page.
type PerfBody struct {
	Snapshot perf.Snapshot
	Window   string
}

// PerfTable is one ranked table of the performance page.
type PerfTable struct {
	Title string
	Rows  []perf.PathStat
}
