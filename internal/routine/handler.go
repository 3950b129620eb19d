package routine

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/auth"
	"github.com/fitcoach/fitcoach-api/internal/exercise"
	"github.com/fitcoach/fitcoach-api/internal/httputil"
	"github.com/fitcoach/fitcoach-api/internal/logging"
)

// Handler contains HTTP handlers for workout routines
type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateRoutineRequest represents the routine creation body
type CreateRoutineRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
}

// UpdateRoutineRequest represents a partial routine update
type UpdateRoutineRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Duration    *int    `json:"duration" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

// AddExerciseRequest places an exercise into a routine
type AddExerciseRequest struct {
	ExerciseID string `json:"exercise_id" validate:"required,uuid"`
	Sets       int    `json:"sets" validate:"required,gt=0"`
	Reps       string `json:"reps" validate:"required"`
	Order      int    `json:"order" validate:"gte=0"`
}

// List returns all routines
// @Summary      List routines
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Routine
// @Router       /routines [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	routines, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("failed to list routines", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list routines", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, routines, http.StatusOK)
}

// ListMine returns the routines authored by the caller
// @Summary      List own routines
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Routine
// @Router       /routines/mine [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	routines, err := h.service.ListByCreator(r.Context(), identity.ID)
	if err != nil {
		logger.Error("failed to list own routines", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list routines", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, routines, http.StatusOK)
}

// Get returns one routine with its exercises
// @Summary      Get a routine
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Routine id"
// @Success      200 {object} Routine
// @Failure      404 {object} httputil.ErrorResponse "Routine not found"
// @Router       /routines/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid routine id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	routine, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "routine not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get routine", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get routine", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, routine, http.StatusOK)
}

// Create adds a routine
// @Summary      Create a routine
// @Tags         routines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRoutineRequest true "Routine data"
// @Success      201 {object} Routine
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Router       /routines [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Difficulty:  exercise.Difficulty(req.Difficulty),
		Duration:    req.Duration,
		CreatedBy:   identity.ID,
	})
	if err != nil {
		logger.Error("failed to create routine", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create routine", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update modifies a routine
// @Summary      Update a routine
// @Tags         routines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Routine id"
// @Param        request body UpdateRoutineRequest true "Fields to change"
// @Success      200 {object} Routine
// @Failure      404 {object} httputil.ErrorResponse "Routine not found"
// @Router       /routines/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid routine id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	var req UpdateRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	params := UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		IsActive:    req.IsActive,
	}
	if req.Difficulty != nil {
		difficulty := exercise.Difficulty(*req.Difficulty)
		params.Difficulty = &difficulty
	}

	updated, err := h.service.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "routine not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update routine", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update routine", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete removes a routine and its exercise slots
// @Summary      Delete a routine
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Routine id"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Routine not found"
// @Router       /routines/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid routine id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "routine not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete routine", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete routine", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "routine deleted"}, http.StatusOK)
}

// AddExercise places an exercise into a routine
// @Summary      Add an exercise to a routine
// @Tags         routines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Routine id"
// @Param        request body AddExerciseRequest true "Exercise prescription"
// @Success      201 {object} RoutineExercise
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or unknown exercise"
// @Failure      404 {object} httputil.ErrorResponse "Routine not found"
// @Router       /routines/{id}/exercises [post]
func (h *Handler) AddExercise(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	routineID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid routine id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	exerciseID, err := uuid.Parse(req.ExerciseID)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid exercise id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	slot, err := h.service.AddExercise(r.Context(), routineID, AddExerciseParams{
		ExerciseID: exerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Order:      req.Order,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httputil.RespondErrorWithCode(w, "routine not found", httputil.CodeNotFound, http.StatusNotFound)
		case errors.Is(err, ErrUnknownExercise):
			httputil.RespondErrorWithCode(w, "exercise does not exist", httputil.CodeValidationFailed, http.StatusBadRequest)
		default:
			logger.Error("failed to add exercise to routine", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to add exercise to routine", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, slot, http.StatusCreated)
}

// RemoveExercise removes a slot from a routine
// @Summary      Remove an exercise from a routine
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Routine id"
// @Param        slotId path string true "Routine exercise id"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Slot not found"
// @Router       /routines/{id}/exercises/{slotId} [delete]
func (h *Handler) RemoveExercise(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	routineID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid routine id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	slotID, err := uuid.Parse(chi.URLParam(r, "slotId"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid routine exercise id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveExercise(r.Context(), routineID, slotID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			httputil.RespondErrorWithCode(w, "routine exercise not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to remove exercise from routine", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to remove exercise from routine", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "exercise removed from routine"}, http.StatusOK)
}
