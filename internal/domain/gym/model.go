package gym

import "strconv"

// Gym is the tenant an administrator manages. One per session.
type Gym struct {
	ID       int    `json:"gym_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

// DisplayName returns the gym name, falling back to "Gym #<id>" when the record
// has not been loaded.
func (g Gym) DisplayName(gymID int) string {
	if g.Name != "" {
		return g.Name
	}
	return "Gym #" + strconv.Itoa(gymID)
}

// Stats carries the aggregate counts reported by the stats endpoint.
type Stats struct {
	TotalMembers  int `json:"total_members"`
	ActiveMembers int `json:"active_members"`
	PeopleInside  int `json:"people_inside"`
}
