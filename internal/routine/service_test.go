package routine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach/fitcoach-api/internal/exercise"
	"github.com/fitcoach/fitcoach-api/internal/logging"
)

type fakeRoutineRepo struct {
	mu       sync.Mutex
	routines map[uuid.UUID]*Routine
	slots    map[uuid.UUID]*RoutineExercise
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{
		routines: make(map[uuid.UUID]*Routine),
		slots:    make(map[uuid.UUID]*RoutineExercise),
	}
}

func (f *fakeRoutineRepo) Create(ctx context.Context, params CreateParams) (*Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	created := &Routine{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Difficulty:  params.Difficulty,
		Duration:    params.Duration,
		IsActive:    true,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.routines[created.ID] = created
	clone := *created
	return &clone, nil
}

func (f *fakeRoutineRepo) GetByID(ctx context.Context, id uuid.UUID) (*Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.routines[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r
	clone.Exercises = nil
	for _, slot := range f.slots {
		if slot.RoutineID == id {
			slotClone := *slot
			clone.Exercises = append(clone.Exercises, &slotClone)
		}
	}
	return &clone, nil
}

func (f *fakeRoutineRepo) List(ctx context.Context) ([]*Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Routine
	for _, r := range f.routines {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRoutineRepo) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Routine
	for _, r := range f.routines {
		if r.CreatedBy != createdBy {
			continue
		}
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRoutineRepo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.routines[id]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Name != nil {
		r.Name = *params.Name
	}
	if params.Difficulty != nil {
		r.Difficulty = *params.Difficulty
	}
	if params.Duration != nil {
		r.Duration = *params.Duration
	}
	if params.IsActive != nil {
		r.IsActive = *params.IsActive
	}
	r.UpdatedAt = time.Now()
	clone := *r
	return &clone, nil
}

func (f *fakeRoutineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.routines[id]; !ok {
		return ErrNotFound
	}
	delete(f.routines, id)
	for slotID, slot := range f.slots {
		if slot.RoutineID == id {
			delete(f.slots, slotID)
		}
	}
	return nil
}

func (f *fakeRoutineRepo) AddExercise(ctx context.Context, routineID uuid.UUID, params AddExerciseParams) (*RoutineExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot := &RoutineExercise{
		ID:         uuid.New(),
		RoutineID:  routineID,
		ExerciseID: params.ExerciseID,
		Sets:       params.Sets,
		Reps:       params.Reps,
		Order:      params.Order,
		CreatedAt:  time.Now(),
	}
	f.slots[slot.ID] = slot
	clone := *slot
	return &clone, nil
}

func (f *fakeRoutineRepo) RemoveExercise(ctx context.Context, routineID, slotID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok || slot.RoutineID != routineID {
		return ErrExerciseNotFound
	}
	delete(f.slots, slotID)
	return nil
}

type fakeExerciseLookup struct {
	known map[uuid.UUID]*exercise.Exercise
}

func (f *fakeExerciseLookup) Get(ctx context.Context, id uuid.UUID) (*exercise.Exercise, error) {
	ex, ok := f.known[id]
	if !ok {
		return nil, exercise.ErrNotFound
	}
	return ex, nil
}

func newRoutineService(t *testing.T) (*Service, *fakeRoutineRepo, *fakeExerciseLookup) {
	t.Helper()
	repo := newFakeRoutineRepo()
	lookup := &fakeExerciseLookup{known: make(map[uuid.UUID]*exercise.Exercise)}
	svc := NewService(repo, lookup, logging.NewLogger(true))
	return svc, repo, lookup
}

func TestRoutineCRUD(t *testing.T) {
	svc, _, _ := newRoutineService(t)
	ctx := context.Background()
	coachID := uuid.New()

	created, err := svc.Create(ctx, CreateParams{
		Name:       "Push Day",
		Difficulty: exercise.DifficultyIntermediate,
		Duration:   60,
		CreatedBy:  coachID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	newName := "Push Day A"
	duration := 45
	updated, err := svc.Update(ctx, created.ID, UpdateParams{Name: &newName, Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, "Push Day A", updated.Name)
	assert.Equal(t, 45, updated.Duration)

	mine, err := svc.ListByCreator(ctx, coachID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddExercise(t *testing.T) {
	svc, _, lookup := newRoutineService(t)
	ctx := context.Background()

	ex := &exercise.Exercise{ID: uuid.New(), Name: "Bench Press"}
	lookup.known[ex.ID] = ex

	routine, err := svc.Create(ctx, CreateParams{
		Name:       "Push Day",
		Difficulty: exercise.DifficultyBeginner,
		Duration:   45,
		CreatedBy:  uuid.New(),
	})
	require.NoError(t, err)

	slot, err := svc.AddExercise(ctx, routine.ID, AddExerciseParams{
		ExerciseID: ex.ID,
		Sets:       4,
		Reps:       "8-10",
		Order:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, slot.Sets)
	assert.Equal(t, "8-10", slot.Reps)

	loaded, err := svc.Get(ctx, routine.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Exercises, 1)
	assert.Equal(t, ex.ID, loaded.Exercises[0].ExerciseID)

	t.Run("unknown exercise rejected", func(t *testing.T) {
		_, err := svc.AddExercise(ctx, routine.ID, AddExerciseParams{
			ExerciseID: uuid.New(),
			Sets:       3,
			Reps:       "12",
			Order:      2,
		})
		assert.ErrorIs(t, err, ErrUnknownExercise)
	})

	t.Run("unknown routine rejected", func(t *testing.T) {
		_, err := svc.AddExercise(ctx, uuid.New(), AddExerciseParams{
			ExerciseID: ex.ID,
			Sets:       3,
			Reps:       "12",
			Order:      1,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveExercise(t *testing.T) {
	svc, _, lookup := newRoutineService(t)
	ctx := context.Background()

	ex := &exercise.Exercise{ID: uuid.New(), Name: "Deadlift"}
	lookup.known[ex.ID] = ex

	routine, err := svc.Create(ctx, CreateParams{
		Name:       "Pull Day",
		Difficulty: exercise.DifficultyAdvanced,
		Duration:   50,
		CreatedBy:  uuid.New(),
	})
	require.NoError(t, err)

	slot, err := svc.AddExercise(ctx, routine.ID, AddExerciseParams{
		ExerciseID: ex.ID,
		Sets:       5,
		Reps:       "5",
		Order:      1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveExercise(ctx, routine.ID, slot.ID))
	assert.ErrorIs(t, svc.RemoveExercise(ctx, routine.ID, slot.ID), ErrExerciseNotFound)

	loaded, err := svc.Get(ctx, routine.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Exercises)
}
