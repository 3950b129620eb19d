package routine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/exercise"
	"github.com/fitcoach/fitcoach-api/internal/logging"
)

var ErrUnknownExercise = errors.New("exercise does not exist")

// RoutineRepository is the persistence surface the service needs.
type RoutineRepository interface {
	Create(ctx context.Context, params CreateParams) (*Routine, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Routine, error)
	List(ctx context.Context) ([]*Routine, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Routine, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Routine, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddExercise(ctx context.Context, routineID uuid.UUID, params AddExerciseParams) (*RoutineExercise, error)
	RemoveExercise(ctx context.Context, routineID, slotID uuid.UUID) error
}

// ExerciseLookup checks that a referenced exercise exists before it is
// placed into a routine.
type ExerciseLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*exercise.Exercise, error)
}

// Service handles routine business logic
type Service struct {
	repo      RoutineRepository
	exercises ExerciseLookup
	logger    *logging.Logger
}

func NewService(repo RoutineRepository, exercises ExerciseLookup, logger *logging.Logger) *Service {
	return &Service{repo: repo, exercises: exercises, logger: logger}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Routine, error) {
	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}

	s.logger.Info("routine created", "routine_id", created.ID, "created_by", created.CreatedBy)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Routine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Routine, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Routine, error) {
	return s.repo.ListByCreator(ctx, createdBy)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Routine, error) {
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("routine updated", "routine_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("routine deleted", "routine_id", id)
	return nil
}

// AddExercise places an exercise into a routine after checking both
// sides of the link exist.
func (s *Service) AddExercise(ctx context.Context, routineID uuid.UUID, params AddExerciseParams) (*RoutineExercise, error) {
	if _, err := s.repo.GetByID(ctx, routineID); err != nil {
		return nil, err
	}

	if _, err := s.exercises.Get(ctx, params.ExerciseID); err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			return nil, ErrUnknownExercise
		}
		return nil, err
	}

	slot, err := s.repo.AddExercise(ctx, routineID, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("exercise added to routine",
		"routine_id", routineID,
		"exercise_id", params.ExerciseID,
		"order", params.Order,
	)
	return slot, nil
}

func (s *Service) RemoveExercise(ctx context.Context, routineID, slotID uuid.UUID) error {
	if err := s.repo.RemoveExercise(ctx, routineID, slotID); err != nil {
		return err
	}

	s.logger.Info("exercise removed from routine", "routine_id", routineID, "slot_id", slotID)
	return nil
}
