package program_test

import (
	"encoding/json"
	"testing"

	"gymadmin/internal/domain/program"
)

// TestProgram_UnmarshalID covers both id field names the API has used.
func TestProgram_UnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"fixed_id", `{"fixed_id":5,"title":"Push","duration_min":45,"exercise_count":2}`, 5},
		{"program_id", `{"program_id":8,"title":"Pull"}`, 8},
		{"fixed_id wins", `{"fixed_id":5,"program_id":8,"title":"Legs"}`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p program.Program
			if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if p.ID != tt.want {
				t.Errorf("ID = %d, want %d", p.ID, tt.want)
			}
			if p.Title == "" {
				t.Error("Title not decoded")
			}
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	if err := (program.Request{Title: "  "}).Validate(); err != program.ErrTitleRequired {
		t.Errorf("blank title: got %v", err)
	}
	if err := (program.Request{Title: "Push"}).Validate(); err != nil {
		t.Errorf("valid title: got %v", err)
	}
}

func TestExerciseRequest_Validate(t *testing.T) {
	if err := (program.ExerciseRequest{}).Validate(); err != program.ErrExerciseRequired {
		t.Errorf("no exercise: got %v", err)
	}
	if err := (program.ExerciseRequest{ExerciseID: 7}).Validate(); err != nil {
		t.Errorf("exercise 7: got %v", err)
	}
}

// TestRequest_OmitsGymIDOnUpdate verifies updates do not send a zero gym id.
func TestRequest_OmitsGymIDOnUpdate(t *testing.T) {
	b, err := json.Marshal(program.Request{Title: "Push"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"title":"Push","duration_min":null}` {
		t.Errorf("Marshal = %s", b)
	}
}
