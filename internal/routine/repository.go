package routine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fitcoach/fitcoach-api/internal/database"
	"github.com/fitcoach/fitcoach-api/internal/exercise"
)

var (
	ErrNotFound         = errors.New("routine not found")
	ErrExerciseNotFound = errors.New("routine exercise not found")
)

// Repository handles routine persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries the fields for a new routine.
type CreateParams struct {
	Name        string
	Description string
	Difficulty  exercise.Difficulty
	Duration    int
	CreatedBy   uuid.UUID
}

// UpdateParams uses pointer fields; nil means "leave unchanged".
type UpdateParams struct {
	Name        *string
	Description *string
	Difficulty  *exercise.Difficulty
	Duration    *int
	IsActive    *bool
}

// AddExerciseParams describes one slot to append to a routine.
type AddExerciseParams struct {
	ExerciseID uuid.UUID
	Sets       int
	Reps       string
	Order      int
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (*Routine, error) {
	dbRoutine := &database.Routine{
		Name:        params.Name,
		Description: params.Description,
		Difficulty:  string(params.Difficulty),
		Duration:    params.Duration,
		IsActive:    true,
		CreatedBy:   params.CreatedBy,
	}

	_, err := r.db.NewInsert().
		Model(dbRoutine).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create routine: %w", err)
	}

	return mapDBRoutineToModel(dbRoutine), nil
}

// GetByID loads a routine with its exercise slots in sequence order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Routine, error) {
	dbRoutine := new(database.Routine)
	err := r.db.NewSelect().
		Model(dbRoutine).
		Relation("Exercises", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("exercise_order ASC")
		}).
		Relation("Exercises.Exercise").
		Where("r.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get routine: %w", err)
	}

	return mapDBRoutineToModel(dbRoutine), nil
}

// List returns routines ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]*Routine, error) {
	var dbRoutines []*database.Routine
	err := r.db.NewSelect().
		Model(&dbRoutines).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}

	return mapDBRoutinesToModels(dbRoutines), nil
}

// ListByCreator returns the routines authored by one user.
func (r *Repository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Routine, error) {
	var dbRoutines []*database.Routine
	err := r.db.NewSelect().
		Model(&dbRoutines).
		Where("created_by = ?", createdBy).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routines by creator: %w", err)
	}

	return mapDBRoutinesToModels(dbRoutines), nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Routine, error) {
	dbRoutine := new(database.Routine)
	q := r.db.NewUpdate().
		Model(dbRoutine).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*")

	if params.Name != nil {
		q = q.Set("name = ?", *params.Name)
	}
	if params.Description != nil {
		q = q.Set("description = ?", *params.Description)
	}
	if params.Difficulty != nil {
		q = q.Set("difficulty = ?", string(*params.Difficulty))
	}
	if params.Duration != nil {
		q = q.Set("duration = ?", *params.Duration)
	}
	if params.IsActive != nil {
		q = q.Set("is_active = ?", *params.IsActive)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update routine: %w", err)
	}

	return mapDBRoutineToModel(dbRoutine), nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*database.RoutineExercise)(nil)).
			Where("routine_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete routine exercises: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*database.Routine)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete routine: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})

	return err
}

// AddExercise appends an exercise slot to a routine.
func (r *Repository) AddExercise(ctx context.Context, routineID uuid.UUID, params AddExerciseParams) (*RoutineExercise, error) {
	dbSlot := &database.RoutineExercise{
		RoutineID:  routineID,
		ExerciseID: params.ExerciseID,
		Sets:       params.Sets,
		Reps:       params.Reps,
		Order:      params.Order,
	}

	_, err := r.db.NewInsert().
		Model(dbSlot).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add exercise to routine: %w", err)
	}

	return mapDBSlotToModel(dbSlot), nil
}

// RemoveExercise deletes one slot from a routine.
func (r *Repository) RemoveExercise(ctx context.Context, routineID, slotID uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.RoutineExercise)(nil)).
		Where("id = ?", slotID).
		Where("routine_id = ?", routineID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove exercise from routine: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExerciseNotFound
	}

	return nil
}

func mapDBRoutineToModel(dbr *database.Routine) *Routine {
	routine := &Routine{
		ID:          dbr.ID,
		Name:        dbr.Name,
		Description: dbr.Description,
		Difficulty:  exercise.Difficulty(dbr.Difficulty),
		Duration:    dbr.Duration,
		IsActive:    dbr.IsActive,
		CreatedBy:   dbr.CreatedBy,
		CreatedAt:   dbr.CreatedAt,
		UpdatedAt:   dbr.UpdatedAt,
	}

	for _, dbSlot := range dbr.Exercises {
		routine.Exercises = append(routine.Exercises, mapDBSlotToModel(dbSlot))
	}

	return routine
}

func mapDBRoutinesToModels(dbrs []*database.Routine) []*Routine {
	routines := make([]*Routine, 0, len(dbrs))
	for _, dbr := range dbrs {
		routines = append(routines, mapDBRoutineToModel(dbr))
	}
	return routines
}

func mapDBSlotToModel(dbSlot *database.RoutineExercise) *RoutineExercise {
	slot := &RoutineExercise{
		ID:         dbSlot.ID,
		RoutineID:  dbSlot.RoutineID,
		ExerciseID: dbSlot.ExerciseID,
		Sets:       dbSlot.Sets,
		Reps:       dbSlot.Reps,
		Order:      dbSlot.Order,
		CreatedAt:  dbSlot.CreatedAt,
	}

	if dbSlot.Exercise != nil {
		slot.Exercise = &exercise.Exercise{
			ID:          dbSlot.Exercise.ID,
			Name:        dbSlot.Exercise.Name,
			Description: dbSlot.Exercise.Description,
			VideoURL:    dbSlot.Exercise.VideoURL,
			ImageURL:    dbSlot.Exercise.ImageURL,
			Category:    dbSlot.Exercise.Category,
			Difficulty:  exercise.Difficulty(dbSlot.Exercise.Difficulty),
			MuscleGroup: dbSlot.Exercise.MuscleGroup,
			IsActive:    dbSlot.Exercise.IsActive,
			CreatedBy:   dbSlot.Exercise.CreatedBy,
			CreatedAt:   dbSlot.Exercise.CreatedAt,
			UpdatedAt:   dbSlot.Exercise.UpdatedAt,
		}
	}

	return slot
}
