package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/httputil"
	"github.com/fitcoach/fitcoach-api/internal/logging"
	"github.com/fitcoach/fitcoach-api/internal/ratelimit"
	"github.com/fitcoach/fitcoach-api/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter *ratelimit.Limiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Cedula   string `json:"cedula"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
	CoachID  string `json:"coach_id,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest represents the token verification request body
type VerifyRequest struct {
	Token string `json:"token"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is a plain acknowledgment payload
type MessageResponse struct {
	Message string `json:"message"`
}

// DashboardRouteResponse carries the role-keyed redirect path
type DashboardRouteResponse struct {
	Route string    `json:"route"`
	Role  user.Role `json:"role"`
}

// Register handles public self-registration
// @Summary      Register a new account
// @Description  Self-service registration. The account always gets the USER role; role and coach assignments in the body are ignored.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email or cedula already registered"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.limitExceeded(w, r, ip, "register") {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "register"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	// Self-registration: role is forced to USER and any client-supplied
	// coach binding is ignored.
	result, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Cedula:   req.Cedula,
		Name:     req.Name,
		Password: req.Password,
		Role:     user.RoleUser,
	})
	if err != nil {
		h.respondRegisterError(w, logger, err)
		return
	}

	logger.Info("user registered", "user_id", result.User.ID)
	httputil.RespondJSON(w, result, http.StatusCreated)
}

// RegisterUser handles privileged account creation by an ADMIN or COACH
// @Summary      Create an account for someone else
// @Description  ADMIN may create any role; COACH may only create USER accounts, which are bound to the coach regardless of the body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RegisterRequest true "Account data"
// @Success      201 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      403 {object} httputil.ErrorResponse "Role policy denies the creation"
// @Failure      409 {object} httputil.ErrorResponse "Email or cedula already registered"
// @Router       /auth/register-user [post]
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid register-user request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	role := user.RoleUser
	if req.Role != "" {
		parsed, err := user.ParseRole(req.Role)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid role", httputil.CodeInvalidRole, http.StatusBadRequest)
			return
		}
		role = parsed
	}

	var coachID *uuid.UUID
	if req.CoachID != "" {
		parsed, err := uuid.Parse(req.CoachID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid coach id", httputil.CodeInvalidCoach, http.StatusBadRequest)
			return
		}
		coachID = &parsed
	}

	result, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Cedula:   req.Cedula,
		Name:     req.Name,
		Password: req.Password,
		Role:     role,
		CoachID:  coachID,
		ActorID:  &actor.ID,
	})
	if err != nil {
		h.respondRegisterError(w, logger, err)
		return
	}

	logger.Info("user created",
		"user_id", result.User.ID,
		"created_by", actor.ID,
		"role", result.User.Role,
	)
	httputil.RespondJSON(w, result, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate and receive access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.limitExceeded(w, r, ip, "login") {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "login"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "invalid credentials", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", result.User.ID)
	httputil.RespondJSON(w, result, http.StatusOK)
}

// Verify handles best-effort token verification
// @Summary      Verify a token
// @Description  Check an access token. Always returns 200 with a valid flag; an invalid or expired token is not an error.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest true "Token to check"
// @Success      200 {object} VerifyResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Router       /auth/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httputil.RespondErrorWithCode(w, "token required", httputil.CodeTokenRequired, http.StatusBadRequest)
		return
	}

	result := h.service.VerifyToken(r.Context(), strings.TrimSpace(req.Token))
	httputil.RespondJSON(w, result, http.StatusOK)
}

// Refresh handles access token refresh
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid or expired refresh token"
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httputil.RespondErrorWithCode(w, "refresh token required", httputil.CodeTokenRequired, http.StatusBadRequest)
		return
	}

	result, err := h.service.Refresh(r.Context(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			logger.Warn("token refresh failed: invalid or expired token")
			httputil.RespondErrorWithCode(w, "invalid refresh token", httputil.CodeInvalidRefreshToken, http.StatusUnauthorized)
			return
		}
		logger.Error("token refresh failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to refresh token", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("tokens refreshed", "user_id", result.User.ID)
	httputil.RespondJSON(w, result, http.StatusOK)
}

// Logout acknowledges a logout
// @Summary      User logout
// @Description  Acknowledge the logout. Tokens are stateless, so nothing is revoked server-side.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	message := h.service.Logout(r.Context(), identity.ID)
	httputil.RespondJSON(w, MessageResponse{Message: message}, http.StatusOK)
}

// Me returns the resolved identity
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, map[string]any{"user": identity}, http.StatusOK)
}

// Validate confirms the presented access token is still good
// @Summary      Validate the current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} VerifyResult
// @Router       /auth/validate [get]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, VerifyResult{Valid: true, User: identity}, http.StatusOK)
}

// ListUsers returns users visible to the requester
// @Summary      List users
// @Description  ADMIN sees everyone, optionally filtered by role; COACH sees only their own USER accounts.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        role query string false "Role filter (ADMIN only)"
// @Success      200 {array} user.User
// @Failure      403 {object} httputil.ErrorResponse "Requester may not list users"
// @Router       /auth/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var roleQuery *user.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := user.ParseRole(raw)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid role", httputil.CodeInvalidRole, http.StatusBadRequest)
			return
		}
		roleQuery = &parsed
	}

	users, err := h.service.ListUsers(r.Context(), identity.ID, roleQuery)
	if err != nil {
		h.respondManagementError(w, logger, err, "list users")
		return
	}

	httputil.RespondJSON(w, users, http.StatusOK)
}

// ToggleStatus flips a user's isActive flag
// @Summary      Toggle a user's active status
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Target user id"
// @Success      200 {object} user.User
// @Failure      401 {object} httputil.ErrorResponse "Requester or target not found"
// @Failure      403 {object} httputil.ErrorResponse "Requester may not manage the target"
// @Router       /auth/users/{id}/toggle-status [patch]
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.ToggleActive(r.Context(), identity.ID, targetID)
	if err != nil {
		h.respondManagementError(w, logger, err, "toggle status")
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// DashboardRoute returns the landing path for the requester's role
// @Summary      Role-keyed dashboard route
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} DashboardRouteResponse
// @Router       /auth/dashboard-route [get]
func (h *Handler) DashboardRoute(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, DashboardRouteResponse{
		Route: h.service.DashboardRoute(identity.Role),
		Role:  identity.Role,
	}, http.StatusOK)
}

// limitExceeded checks the IP rate limit for a purpose and writes the
// 429 response when the budget is spent.
func (h *Handler) limitExceeded(w http.ResponseWriter, r *http.Request, ip, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}
	return false
}

func (h *Handler) respondRegisterError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, user.ErrDuplicateEmail):
		logger.Warn("registration failed: email already registered")
		httputil.RespondErrorWithCode(w, "email already registered", httputil.CodeEmailAlreadyExists, http.StatusConflict)
	case errors.Is(err, user.ErrDuplicateCedula):
		logger.Warn("registration failed: cedula already registered")
		httputil.RespondErrorWithCode(w, "cedula already registered", httputil.CodeCedulaAlreadyExists, http.StatusConflict)
	case errors.Is(err, ErrInvalidCoach):
		logger.Warn("registration failed: invalid coach")
		httputil.RespondErrorWithCode(w, "coach not valid", httputil.CodeInvalidCoach, http.StatusConflict)
	case errors.Is(err, ErrUnknownUser):
		logger.Warn("registration failed: unknown creator")
		httputil.RespondErrorWithCode(w, "creator not valid", httputil.CodeInvalidCreator, http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		logger.Warn("registration failed: policy denial", "error", err.Error())
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeForbidden, http.StatusForbidden)
	case errors.Is(err, ErrEmailRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
	case errors.Is(err, ErrCedulaRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeCedulaRequired, http.StatusBadRequest)
	case errors.Is(err, ErrNameRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeNameRequired, http.StatusBadRequest)
	case errors.Is(err, ErrPasswordRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
	case errors.Is(err, ErrPasswordTooShort):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidEmail):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidEmail, http.StatusBadRequest)
	default:
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

func (h *Handler) respondManagementError(w http.ResponseWriter, logger *logging.Logger, err error, op string) {
	switch {
	case errors.Is(err, ErrUnknownUser):
		logger.Warn(op+" failed: unknown user")
		httputil.RespondErrorWithCode(w, "user not valid", httputil.CodeInvalidCreator, http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		logger.Warn(op+" failed: policy denial", "error", err.Error())
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeForbidden, http.StatusForbidden)
	default:
		logger.Error(op+" failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to "+op, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr format is "IP:port", extract just the IP
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
