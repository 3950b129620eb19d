package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persistence model for accounts.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string     `bun:"email,notnull,unique"`
	Cedula       string     `bun:"cedula,notnull,unique"`
	Name         string     `bun:"name,notnull"`
	PasswordHash string     `bun:"password_hash,notnull"`
	Role         string     `bun:"role,notnull,default:'USER'"`
	IsActive     bool       `bun:"is_active,notnull,default:true"`
	CoachID      *uuid.UUID `bun:"coach_id,type:uuid,nullzero"`
	CreatedBy    *uuid.UUID `bun:"created_by,type:uuid,nullzero"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// Exercise is the persistence model for catalog exercises.
type Exercise struct {
	bun.BaseModel `bun:"table:exercises,alias:e"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	VideoURL    string    `bun:"video_url"`
	ImageURL    string    `bun:"image_url"`
	Category    string    `bun:"category,notnull"`
	Difficulty  string    `bun:"difficulty,notnull"`
	MuscleGroup string    `bun:"muscle_group,notnull"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	CreatedBy   uuid.UUID `bun:"created_by,type:uuid,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Routine is the persistence model for workout routines.
type Routine struct {
	bun.BaseModel `bun:"table:routines,alias:r"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Difficulty  string    `bun:"difficulty,notnull"`
	Duration    int       `bun:"duration,notnull"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	CreatedBy   uuid.UUID `bun:"created_by,type:uuid,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Exercises []*RoutineExercise `bun:"rel:has-many,join:id=routine_id"`
}

// RoutineExercise links an exercise into a routine with its prescription.
type RoutineExercise struct {
	bun.BaseModel `bun:"table:routine_exercises,alias:re"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	RoutineID  uuid.UUID `bun:"routine_id,type:uuid,notnull"`
	ExerciseID uuid.UUID `bun:"exercise_id,type:uuid,notnull"`
	Sets       int       `bun:"sets,notnull"`
	Reps       string    `bun:"reps,notnull"`
	Order      int       `bun:"exercise_order,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Exercise *Exercise `bun:"rel:belongs-to,join:exercise_id=id"`
}
