package exercise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fitcoach/fitcoach-api/internal/database"
)

var ErrNotFound = errors.New("exercise not found")

// Repository handles exercise persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries the fields for a new catalog entry.
type CreateParams struct {
	Name        string
	Description string
	VideoURL    string
	ImageURL    string
	Category    string
	Difficulty  Difficulty
	MuscleGroup string
	CreatedBy   uuid.UUID
}

// UpdateParams uses pointer fields; nil means "leave unchanged".
type UpdateParams struct {
	Name        *string
	Description *string
	VideoURL    *string
	ImageURL    *string
	Category    *string
	Difficulty  *Difficulty
	MuscleGroup *string
	IsActive    *bool
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (*Exercise, error) {
	dbExercise := &database.Exercise{
		Name:        params.Name,
		Description: params.Description,
		VideoURL:    params.VideoURL,
		ImageURL:    params.ImageURL,
		Category:    params.Category,
		Difficulty:  string(params.Difficulty),
		MuscleGroup: params.MuscleGroup,
		IsActive:    true,
		CreatedBy:   params.CreatedBy,
	}

	_, err := r.db.NewInsert().
		Model(dbExercise).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	return mapDBExerciseToModel(dbExercise), nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Exercise, error) {
	dbExercise := new(database.Exercise)
	err := r.db.NewSelect().
		Model(dbExercise).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}

	return mapDBExerciseToModel(dbExercise), nil
}

// List returns exercises ordered by name, optionally narrowed by category.
func (r *Repository) List(ctx context.Context, category string) ([]*Exercise, error) {
	var dbExercises []*database.Exercise
	q := r.db.NewSelect().Model(&dbExercises)

	if category != "" {
		q = q.Where("category = ?", category)
	}

	if err := q.Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	return mapDBExercisesToModels(dbExercises), nil
}

// ListByCreator returns the exercises authored by one user, name-ordered.
func (r *Repository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Exercise, error) {
	var dbExercises []*database.Exercise
	err := r.db.NewSelect().
		Model(&dbExercises).
		Where("created_by = ?", createdBy).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises by creator: %w", err)
	}

	return mapDBExercisesToModels(dbExercises), nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Exercise, error) {
	dbExercise := new(database.Exercise)
	q := r.db.NewUpdate().
		Model(dbExercise).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*")

	if params.Name != nil {
		q = q.Set("name = ?", *params.Name)
	}
	if params.Description != nil {
		q = q.Set("description = ?", *params.Description)
	}
	if params.VideoURL != nil {
		q = q.Set("video_url = ?", *params.VideoURL)
	}
	if params.ImageURL != nil {
		q = q.Set("image_url = ?", *params.ImageURL)
	}
	if params.Category != nil {
		q = q.Set("category = ?", *params.Category)
	}
	if params.Difficulty != nil {
		q = q.Set("difficulty = ?", string(*params.Difficulty))
	}
	if params.MuscleGroup != nil {
		q = q.Set("muscle_group = ?", *params.MuscleGroup)
	}
	if params.IsActive != nil {
		q = q.Set("is_active = ?", *params.IsActive)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}

	return mapDBExerciseToModel(dbExercise), nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Exercise)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapDBExerciseToModel(dbe *database.Exercise) *Exercise {
	return &Exercise{
		ID:          dbe.ID,
		Name:        dbe.Name,
		Description: dbe.Description,
		VideoURL:    dbe.VideoURL,
		ImageURL:    dbe.ImageURL,
		Category:    dbe.Category,
		Difficulty:  Difficulty(dbe.Difficulty),
		MuscleGroup: dbe.MuscleGroup,
		IsActive:    dbe.IsActive,
		CreatedBy:   dbe.CreatedBy,
		CreatedAt:   dbe.CreatedAt,
		UpdatedAt:   dbe.UpdatedAt,
	}
}

func mapDBExercisesToModels(dbes []*database.Exercise) []*Exercise {
	exercises := make([]*Exercise, 0, len(dbes))
	for _, dbe := range dbes {
		exercises = append(exercises, mapDBExerciseToModel(dbe))
	}
	return exercises
}
