package session

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound      = errors.New("session not found")
	ErrTokenRequired = errors.New("session token is required")
	ErrGymRequired   = errors.New("session gym id is required")
)

// Session is the durable record that lets an administrator skip login on return.
// It replaces the gym id and admin username a browser would keep in local storage.
type Session struct {
	Token         string
	GymID         int
	AdminUsername string
	CreatedAt     time.Time
}

// Validate checks that the record identifies a token and a gym.
// PRE: none
// POST: Returns nil if the record can be stored
func (s Session) Validate() error {
	if s.Token == "" {
		return ErrTokenRequired
	}
	if s.GymID <= 0 {
		return ErrGymRequired
	}
	return nil
}

// Expired reports whether the session is older than ttl. A zero ttl never expires.
// INVARIANT: Session fields are not mutated
func (s Session) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.CreatedAt) > ttl
}
