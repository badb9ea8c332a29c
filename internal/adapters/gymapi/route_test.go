package gymapi

import "testing"

func TestRouteOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/gyms/12", "/gyms/{id}"},
		{"/admin/programs/4/exercises/7", "/admin/programs/{id}/exercises/{id}"},
		{"/trainers?gym_id=3", "/trainers"},
		{"/exercises", "/exercises"},
	}
	for _, tt := range tests {
		if got := routeOf(tt.in); got != tt.want {
			t.Errorf("routeOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
