package program

import (
	"encoding/json"
	"errors"
	"strings"
)

// Domain errors
var (
	ErrTitleRequired    = errors.New("program title is required")
	ErrExerciseRequired = errors.New("an exercise must be selected")
)

// Program is a gym-scoped workout template holding an ordered list of exercises.
type Program struct {
	ID            int    `json:"fixed_id"`
	Title         string `json:"title"`
	DurationMin   *int   `json:"duration_min"`
	ExerciseCount int    `json:"exercise_count"`
}

// UnmarshalJSON reads the program id from "fixed_id", falling back to "program_id".
// PRE: data is a JSON object
// POST: ID is set from whichever id field is present
func (p *Program) UnmarshalJSON(data []byte) error {
	type plain Program
	var aux struct {
		plain
		ProgramID *int `json:"program_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Program(aux.plain)
	if p.ID == 0 && aux.ProgramID != nil {
		p.ID = *aux.ProgramID
	}
	return nil
}

// Exercise is one row of a program's ordered exercise list.
// INVARIANT: OrderNo is assigned by the server
type Exercise struct {
	ExerciseID  int    `json:"exercise_id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	OrderNo     int    `json:"order_no"`
	Sets        *int   `json:"sets"`
	Reps        *int   `json:"reps"`
	RestSec     *int   `json:"rest_sec"`
}

// Request is the body of POST /admin/programs and PUT /admin/programs/{id}.
// GymID is omitted on update.
type Request struct {
	GymID       int    `json:"gym_id,omitempty"`
	Title       string `json:"title"`
	DurationMin *int   `json:"duration_min"`
}

// Validate checks the presence rules enforced before calling the API.
// PRE: Request is populated from form input
// POST: Returns ErrTitleRequired when the title is blank
func (r Request) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ExerciseRequest is the body of POST /admin/programs/{id}/exercises.
type ExerciseRequest struct {
	ExerciseID int  `json:"exercise_id"`
	Sets       *int `json:"sets"`
	Reps       *int `json:"reps"`
	RestSec    *int `json:"rest_sec"`
}

// Validate requires a catalog exercise to be selected.
func (r ExerciseRequest) Validate() error {
	if r.ExerciseID <= 0 {
		return ErrExerciseRequired
	}
	return nil
}
