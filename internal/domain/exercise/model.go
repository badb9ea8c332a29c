package exercise

// Exercise is an entry of the global exercise catalog. Not gym-scoped.
type Exercise struct {
	ID          int    `json:"exercise_id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
}
