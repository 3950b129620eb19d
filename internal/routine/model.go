package routine

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/exercise"
)

type Routine struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Difficulty  exercise.Difficulty `json:"difficulty"`
	Duration    int                 `json:"duration"`
	IsActive    bool                `json:"is_active"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Exercises []*RoutineExercise `json:"exercises,omitempty"`
}

// RoutineExercise is one slot in a routine: which exercise, how many
// sets and reps, and where it sits in the sequence.
type RoutineExercise struct {
	ID         uuid.UUID `json:"id"`
	RoutineID  uuid.UUID `json:"routine_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Sets       int       `json:"sets"`
	Reps       string    `json:"reps"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`

	Exercise *exercise.Exercise `json:"exercise,omitempty"`
}
