package exercise

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/auth"
	"github.com/fitcoach/fitcoach-api/internal/httputil"
	"github.com/fitcoach/fitcoach-api/internal/logging"
)

// Handler contains HTTP handlers for the exercise catalog
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

// CreateExerciseRequest represents the exercise creation body
type CreateExerciseRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Category    string `json:"category" validate:"required"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MuscleGroup string `json:"muscle_group" validate:"required"`
}

// UpdateExerciseRequest represents a partial exercise update
type UpdateExerciseRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Category    *string `json:"category" validate:"omitempty,min=1"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MuscleGroup *string `json:"muscle_group" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
}

// List returns catalog exercises
// @Summary      List exercises
// @Tags         exercises
// @Produce      json
// @Security     BearerAuth
// @Param        category query string false "Category filter"
// @Success      200 {array} Exercise
// @Router       /exercises [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	exercises, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		logger.Error("failed to list exercises", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list exercises", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, exercises, http.StatusOK)
}

// ListMine returns the exercises authored by the caller
// @Summary      List own exercises
// @Tags         exercises
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Exercise
// @Router       /exercises/mine [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	exercises, err := h.service.ListByCreator(r.Context(), identity.ID)
	if err != nil {
		logger.Error("failed to list own exercises", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list exercises", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, exercises, http.StatusOK)
}

// Get returns one exercise
// @Summary      Get an exercise
// @Tags         exercises
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Exercise id"
// @Success      200 {object} Exercise
// @Failure      404 {object} httputil.ErrorResponse "Exercise not found"
// @Router       /exercises/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid exercise id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	ex, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "exercise not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get exercise", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get exercise", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ex, http.StatusOK)
}

// Create adds a catalog exercise
// @Summary      Create an exercise
// @Tags         exercises
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateExerciseRequest true "Exercise data"
// @Success      201 {object} Exercise
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Router       /exercises [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateExerciseRequest
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
		VideoURL:    req.VideoURL,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Difficulty:  Difficulty(req.Difficulty),
		MuscleGroup: req.MuscleGroup,
		CreatedBy:   identity.ID,
	})
	if err != nil {
		logger.Error("failed to create exercise", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create exercise", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update modifies a catalog exercise
// @Summary      Update an exercise
// @Tags         exercises
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Exercise id"
// @Param        request body UpdateExerciseRequest true "Fields to change"
// @Success      200 {object} Exercise
// @Failure      404 {object} httputil.ErrorResponse "Exercise not found"
// @Router       /exercises/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid exercise id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	var req UpdateExerciseRequest
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
		VideoURL:    req.VideoURL,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		MuscleGroup: req.MuscleGroup,
		IsActive:    req.IsActive,
	}
	if req.Difficulty != nil {
		difficulty := Difficulty(*req.Difficulty)
		params.Difficulty = &difficulty
	}

	updated, err := h.service.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "exercise not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update exercise", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update exercise", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete removes a catalog exercise
// @Summary      Delete an exercise
// @Tags         exercises
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Exercise id"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Exercise not found"
// @Router       /exercises/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid exercise id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "exercise not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete exercise", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete exercise", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "exercise deleted"}, http.StatusOK)
}
