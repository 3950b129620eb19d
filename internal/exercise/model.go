package exercise

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Difficulty grades exercises and routines.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// ParseDifficulty validates a client-supplied difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return Difficulty(s), nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

type Exercise struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	VideoURL    string     `json:"video_url,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	MuscleGroup string     `json:"muscle_group"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
