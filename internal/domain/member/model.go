package member

import (
	"errors"
	"slices"
	"strings"

	"gymadmin/internal/domain/jsonval"
)

// Membership types
const (
	TypeTimed  = "timed"
	TypeCredit = "credit"
)

// ValidTypes contains all membership types the backend understands.
var ValidTypes = []string{TypeTimed, TypeCredit}

// Domain errors
var (
	ErrEmailRequired = errors.New("member email is required")
	ErrInvalidType   = errors.New("invalid membership type")
)

// ValidType reports whether t is one of ValidTypes.
func ValidType(t string) bool {
	return slices.Contains(ValidTypes, t)
}

// Record is one row of the gym's member list: the member identity joined with
// the membership shown for it.
type Record struct {
	MemberID      int          `json:"member_id"`
	MembershipID  int          `json:"membership_id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Type          string       `json:"type"`
	RemainingDays *int         `json:"remaining_days"`
	CreditTotal   int          `json:"credit_total"`
	CreditUsed    int          `json:"credit_used"`
	IsActive      jsonval.Bool `json:"is_active"`
}

// IsTimed reports whether the membership expires by elapsed days.
func (r Record) IsTimed() bool {
	return r.Type == TypeTimed
}

// RemainingCredits returns the entries left on a credit membership.
// INVARIANT: derived on every call, never stored
func (r Record) RemainingCredits() int {
	return r.CreditTotal - r.CreditUsed
}

// AddRequest is the body of POST /admin/add-member.
// Days is only set for timed memberships and Credits only for credit ones.
type AddRequest struct {
	GymID   int    `json:"gym_id"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Days    *int   `json:"days"`
	Credits *int   `json:"credits"`
}

// Validate checks the presence rules enforced before calling the API.
// PRE: AddRequest is populated from form input
// POST: Returns ErrEmailRequired when the email is blank, ErrInvalidType for an unknown type
func (a AddRequest) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmailRequired
	}
	if !ValidType(a.Type) {
		return ErrInvalidType
	}
	return nil
}

// UpdateRequest is the body of PUT /admin/membership/{id}.
type UpdateRequest struct {
	Type     string `json:"type"`
	Days     *int   `json:"days"`
	Credits  *int   `json:"credits"`
	IsActive *int   `json:"is_active"`
}

// CreditRequest is the body of POST /admin/membership/{id}/add-credit.
type CreditRequest struct {
	Amount *int `json:"amount"`
}
