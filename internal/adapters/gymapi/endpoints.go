package gymapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/program"
	"gymadmin/internal/domain/trainer"
)

// --- Session ---

// Login authenticates an administrator and returns the gym they manage.
// PRE: username and password are non-empty
// POST: Returns the gym id on 2xx; *APIError carries the server's error text otherwise
func (c *Client) Login(ctx context.Context, username, password string) (int, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		GymID int `json:"gym_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, &out); err != nil {
		return 0, err
	}
	if out.GymID <= 0 {
		return 0, fmt.Errorf("%w: login response carried no gym_id", ErrUnreachable)
	}
	return out.GymID, nil
}

// --- Gym ---

// Gym fetches the gym record.
func (c *Client) Gym(ctx context.Context, gymID int) (gym.Gym, error) {
	var g gym.Gym
	err := c.do(ctx, http.MethodGet, "/gyms/"+strconv.Itoa(gymID), nil, &g)
	return g, err
}

// Stats fetches the aggregate counts of a gym.
func (c *Client) Stats(ctx context.Context, gymID int) (gym.Stats, error) {
	var s gym.Stats
	err := c.do(ctx, http.MethodGet, "/admin/gym/"+strconv.Itoa(gymID)+"/stats", nil, &s)
	return s, err
}

// --- Members ---

// Members fetches the member+membership rows of a gym.
func (c *Client) Members(ctx context.Context, gymID int) ([]member.Record, error) {
	var list []member.Record
	err := c.do(ctx, http.MethodGet, "/admin/gym/"+strconv.Itoa(gymID)+"/members", nil, &list)
	return list, err
}

// AddMember enrolls an existing user as a member of the gym.
func (c *Client) AddMember(ctx context.Context, req member.AddRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/add-member", req, nil)
}

// UpdateMembership replaces the editable fields of a membership.
func (c *Client) UpdateMembership(ctx context.Context, membershipID int, req member.UpdateRequest) error {
	return c.do(ctx, http.MethodPut, "/admin/membership/"+strconv.Itoa(membershipID), req, nil)
}

// DeleteMembership removes a membership.
func (c *Client) DeleteMembership(ctx context.Context, membershipID int) error {
	return c.do(ctx, http.MethodDelete, "/admin/membership/"+strconv.Itoa(membershipID), nil, nil)
}

// AddCredit tops up a credit membership.
func (c *Client) AddCredit(ctx context.Context, membershipID int, req member.CreditRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/membership/"+strconv.Itoa(membershipID)+"/add-credit", req, nil)
}

// --- Trainers ---

// Trainers fetches the trainers of a gym.
func (c *Client) Trainers(ctx context.Context, gymID int) ([]trainer.Trainer, error) {
	var list []trainer.Trainer
	q := url.Values{"gym_id": {strconv.Itoa(gymID)}}
	err := c.do(ctx, http.MethodGet, "/trainers?"+q.Encode(), nil, &list)
	return list, err
}

// CreateTrainer adds a trainer to the gym.
func (c *Client) CreateTrainer(ctx context.Context, req trainer.CreateRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/trainers", req, nil)
}

// UpdateTrainer replaces the editable fields of a trainer.
func (c *Client) UpdateTrainer(ctx context.Context, trainerID int, req trainer.UpdateRequest) error {
	return c.do(ctx, http.MethodPut, "/admin/trainers/"+strconv.Itoa(trainerID), req, nil)
}

// DeleteTrainer removes a trainer.
func (c *Client) DeleteTrainer(ctx context.Context, trainerID int) error {
	return c.do(ctx, http.MethodDelete, "/admin/trainers/"+strconv.Itoa(trainerID), nil, nil)
}

// --- Programs ---

// Programs fetches the programs of a gym.
func (c *Client) Programs(ctx context.Context, gymID int) ([]program.Program, error) {
	var list []program.Program
	q := url.Values{"gym_id": {strconv.Itoa(gymID)}}
	err := c.do(ctx, http.MethodGet, "/admin/programs?"+q.Encode(), nil, &list)
	return list, err
}

// CreateProgram adds a program to the gym.
func (c *Client) CreateProgram(ctx context.Context, req program.Request) error {
	return c.do(ctx, http.MethodPost, "/admin/programs", req, nil)
}

// UpdateProgram replaces the title and duration of a program.
func (c *Client) UpdateProgram(ctx context.Context, programID int, req program.Request) error {
	req.GymID = 0
	return c.do(ctx, http.MethodPut, "/admin/programs/"+strconv.Itoa(programID), req, nil)
}

// DeleteProgram removes a program.
func (c *Client) DeleteProgram(ctx context.Context, programID int) error {
	return c.do(ctx, http.MethodDelete, "/admin/programs/"+strconv.Itoa(programID), nil, nil)
}

// ProgramExercises fetches the ordered exercise list of a program.
func (c *Client) ProgramExercises(ctx context.Context, programID int) ([]program.Exercise, error) {
	var list []program.Exercise
	err := c.do(ctx, http.MethodGet, "/admin/programs/"+strconv.Itoa(programID)+"/exercises", nil, &list)
	return list, err
}

// AddProgramExercise appends a catalog exercise to a program. The server assigns order_no.
func (c *Client) AddProgramExercise(ctx context.Context, programID int, req program.ExerciseRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/programs/"+strconv.Itoa(programID)+"/exercises", req, nil)
}

// RemoveProgramExercise detaches an exercise from a program.
func (c *Client) RemoveProgramExercise(ctx context.Context, programID, exerciseID int) error {
	path := "/admin/programs/" + strconv.Itoa(programID) + "/exercises/" + strconv.Itoa(exerciseID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// --- Catalog ---

// Exercises fetches the global exercise catalog.
func (c *Client) Exercises(ctx context.Context) ([]exercise.Exercise, error) {
	var list []exercise.Exercise
	err := c.do(ctx, http.MethodGet, "/exercises", nil, &list)
	return list, err
}
