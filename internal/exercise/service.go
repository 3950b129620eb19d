package exercise

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/logging"
)

// ExerciseRepository is the persistence surface the service needs.
type ExerciseRepository interface {
	Create(ctx context.Context, params CreateParams) (*Exercise, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Exercise, error)
	List(ctx context.Context, category string) ([]*Exercise, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Exercise, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Exercise, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles exercise catalog business logic
type Service struct {
	repo   ExerciseRepository
	logger *logging.Logger
}

func NewService(repo ExerciseRepository, logger *logging.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Exercise, error) {
	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}

	s.logger.Info("exercise created", "exercise_id", created.ID, "created_by", created.CreatedBy)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Exercise, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, category string) ([]*Exercise, error) {
	return s.repo.List(ctx, category)
}

func (s *Service) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Exercise, error) {
	return s.repo.ListByCreator(ctx, createdBy)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Exercise, error) {
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("exercise updated", "exercise_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("exercise deleted", "exercise_id", id)
	return nil
}
