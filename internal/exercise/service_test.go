package exercise

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach/fitcoach-api/internal/logging"
)

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[uuid.UUID]*Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[uuid.UUID]*Exercise)}
}

func (f *fakeExerciseRepo) Create(ctx context.Context, params CreateParams) (*Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	created := &Exercise{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		VideoURL:    params.VideoURL,
		ImageURL:    params.ImageURL,
		Category:    params.Category,
		Difficulty:  params.Difficulty,
		MuscleGroup: params.MuscleGroup,
		IsActive:    true,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.exercises[created.ID] = created
	clone := *created
	return &clone, nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id uuid.UUID) (*Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ex, ok := f.exercises[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *ex
	return &clone, nil
}

func (f *fakeExerciseRepo) List(ctx context.Context, category string) ([]*Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Exercise
	for _, ex := range f.exercises {
		if category != "" && ex.Category != category {
			continue
		}
		clone := *ex
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeExerciseRepo) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Exercise
	for _, ex := range f.exercises {
		if ex.CreatedBy != createdBy {
			continue
		}
		clone := *ex
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeExerciseRepo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ex, ok := f.exercises[id]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Name != nil {
		ex.Name = *params.Name
	}
	if params.Category != nil {
		ex.Category = *params.Category
	}
	if params.Difficulty != nil {
		ex.Difficulty = *params.Difficulty
	}
	if params.IsActive != nil {
		ex.IsActive = *params.IsActive
	}
	ex.UpdatedAt = time.Now()
	clone := *ex
	return &clone, nil
}

func (f *fakeExerciseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.exercises[id]; !ok {
		return ErrNotFound
	}
	delete(f.exercises, id)
	return nil
}

func newExerciseService(t *testing.T) (*Service, *fakeExerciseRepo) {
	t.Helper()
	repo := newFakeExerciseRepo()
	return NewService(repo, logging.NewLogger(true)), repo
}

func TestParseDifficulty(t *testing.T) {
	for _, valid := range []string{"BEGINNER", "INTERMEDIATE", "ADVANCED"} {
		got, err := ParseDifficulty(valid)
		require.NoError(t, err)
		assert.Equal(t, Difficulty(valid), got)
	}

	for _, invalid := range []string{"", "beginner", "EXPERT"} {
		_, err := ParseDifficulty(invalid)
		assert.Error(t, err)
	}
}

func TestExerciseCRUD(t *testing.T) {
	svc, _ := newExerciseService(t)
	ctx := context.Background()
	coachID := uuid.New()

	created, err := svc.Create(ctx, CreateParams{
		Name:        "Barbell Squat",
		Category:    "legs",
		Difficulty:  DifficultyIntermediate,
		MuscleGroup: "quadriceps",
		CreatedBy:   coachID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barbell Squat", got.Name)

	newName := "Back Squat"
	advanced := DifficultyAdvanced
	updated, err := svc.Update(ctx, created.ID, UpdateParams{Name: &newName, Difficulty: &advanced})
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", updated.Name)
	assert.Equal(t, DifficultyAdvanced, updated.Difficulty)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExerciseListFilters(t *testing.T) {
	svc, _ := newExerciseService(t)
	ctx := context.Background()
	coachID := uuid.New()
	otherID := uuid.New()

	_, err := svc.Create(ctx, CreateParams{Name: "Squat", Category: "legs", Difficulty: DifficultyBeginner, MuscleGroup: "quadriceps", CreatedBy: coachID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Name: "Bench Press", Category: "chest", Difficulty: DifficultyBeginner, MuscleGroup: "pectorals", CreatedBy: otherID})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	legs, err := svc.List(ctx, "legs")
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "Squat", legs[0].Name)

	mine, err := svc.ListByCreator(ctx, coachID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, coachID, mine[0].CreatedBy)
}

func TestExerciseNotFound(t *testing.T) {
	svc, _ := newExerciseService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	name := "Ghost"
	_, err = svc.Update(ctx, uuid.New(), UpdateParams{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrNotFound)
}
