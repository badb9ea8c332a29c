package trainer

import (
	"errors"
	"strings"

	"gymadmin/internal/domain/jsonval"
)

// Domain errors
var (
	ErrNameRequired      = errors.New("trainer name is required")
	ErrSpecialtyRequired = errors.New("trainer specialty is required")
)

// Trainer is a gym trainer, optionally linked to an existing member account.
type Trainer struct {
	ID        int             `json:"trainer_id"`
	Name      string          `json:"name"`
	Specialty string          `json:"specialty"`
	RatingAvg jsonval.Decimal `json:"rating_avg"`
	IsInGym   jsonval.Bool    `json:"is_in_gym"`
	MemberID  *int            `json:"member_id"`
}

// LinkedTo reports whether the trainer is linked to the given member.
func (t Trainer) LinkedTo(memberID int) bool {
	return t.MemberID != nil && *t.MemberID == memberID
}

// CreateRequest is the body of POST /admin/trainers.
type CreateRequest struct {
	GymID     int    `json:"gym_id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	MemberID  *int   `json:"member_id"`
}

// Validate checks the presence rules enforced before calling the API.
// PRE: CreateRequest is populated from form input
// POST: Returns an error naming the first missing field
func (c CreateRequest) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(c.Specialty) == "" {
		return ErrSpecialtyRequired
	}
	return nil
}

// UpdateRequest is the body of PUT /admin/trainers/{id}.
type UpdateRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	IsInGym   *int   `json:"is_in_gym"`
	MemberID  *int   `json:"member_id"`
}
