package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/logging"
	"github.com/fitcoach/fitcoach-api/internal/user"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// deactivated accounts alike, so login failures never reveal which
	// condition was hit.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	// ErrUnknownUser is returned when an actor referenced by id does not
	// resolve to an existing account.
	ErrUnknownUser  = errors.New("user not valid")
	ErrInvalidCoach = errors.New("coach not valid")

	ErrEmailRequired    = errors.New("email is required")
	ErrCedulaRequired   = errors.New("cedula is required")
	ErrNameRequired     = errors.New("name must be at least 2 characters")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("invalid email format")
)

// Dashboard paths keyed by role.
const (
	dashboardAdmin   = "/admin"
	dashboardCoach   = "/coach"
	dashboardDefault = "/dashboard"
)

// UserRepository is the slice of the user store the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	FindByEmailOrCedula(ctx context.Context, email, cedula string) (*user.User, error)
	List(ctx context.Context, filter user.ListFilter) ([]*user.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*user.User, error)
}

// TokenPair is the issued access/refresh pair. Nothing about it is
// persisted server-side; both tokens verify by signature alone.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResult is returned by operations that establish a session.
type AuthResult struct {
	User   *user.User `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}

// VerifyResult is the best-effort outcome of a token check. It never
// carries an error: any failure degrades to Valid=false.
type VerifyResult struct {
	Valid bool       `json:"valid"`
	User  *user.User `json:"user,omitempty"`
}

// RegisterInput describes an account to provision. ActorID is the
// authenticated creator when the privileged endpoint is used; the public
// self-registration path leaves it nil.
type RegisterInput struct {
	Email    string
	Cedula   string
	Name     string
	Password string
	Role     user.Role
	CoachID  *uuid.UUID
	ActorID  *uuid.UUID
}

// Service orchestrates credential checks, token lifecycle and role-scoped
// user management.
type Service struct {
	users     UserRepository
	tokens    TokenService
	logger    *logging.Logger
	accessTTL time.Duration
}

func NewService(users UserRepository, tokens TokenService, logger *logging.Logger, accessTTL time.Duration) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		logger:    logger,
		accessTTL: accessTTL,
	}
}

// Register provisions an account and signs the first token pair. One code
// path serves both self-registration and admin/coach-initiated creation;
// the difference is whether an acting identity is present.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmailOrCedula(ctx, in.Email, in.Cedula)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.Email == in.Email {
			return nil, user.ErrDuplicateEmail
		}
		return nil, user.ErrDuplicateCedula
	}

	var creator *user.User
	if in.ActorID != nil {
		creator, err = s.users.GetByID(ctx, *in.ActorID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, ErrUnknownUser
			}
			return nil, fmt.Errorf("failed to load creator: %w", err)
		}
		if err := CanCreate(creator.Role, in.Role); err != nil {
			return nil, err
		}
	}

	coachID := EffectiveCoachID(creator, in.Role, in.CoachID)
	if coachID != nil {
		coach, err := s.users.GetByID(ctx, *coachID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, ErrInvalidCoach
			}
			return nil, fmt.Errorf("failed to load coach: %w", err)
		}
		if !coach.IsActive || (coach.Role != user.RoleCoach && coach.Role != user.RoleAdmin) {
			return nil, ErrInvalidCoach
		}
	}

	passwordHash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, user.CreateParams{
		Email:        in.Email,
		Cedula:       in.Cedula,
		Name:         in.Name,
		PasswordHash: passwordHash,
		Role:         in.Role,
		CoachID:      coachID,
		CreatedBy:    in.ActorID,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) || errors.Is(err, user.ErrDuplicateCedula) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(newUser)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: newUser, Tokens: tokens}, nil
}

// Login authenticates by email and password. Unknown email, wrong
// password and deactivated accounts are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !existing.IsActive {
		s.logger.Warn("login rejected: account disabled", "user_id", existing.ID)
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(existing.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(existing)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: existing, Tokens: tokens}, nil
}

// VerifyToken is a best-effort access-token check: malformed, expired or
// unsigned tokens, and subjects that no longer resolve to an active
// account, all degrade to Valid=false. It never returns an error.
func (s *Service) VerifyToken(ctx context.Context, token string) *VerifyResult {
	claims, err := s.tokens.VerifyAccess(token)
	if err != nil {
		return &VerifyResult{Valid: false}
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || !u.IsActive {
		return &VerifyResult{Valid: false}
	}

	return &VerifyResult{Valid: true, User: u}
}

// Refresh exchanges a refresh token for a fresh pair. Unlike VerifyToken
// this is a hard failure path: any invalid condition is Unauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || !u.IsActive {
		return nil, ErrInvalidRefresh
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: u, Tokens: tokens}, nil
}

// Logout acknowledges the client's intent. Tokens are stateless and there
// is no server-side denylist, so nothing is revoked here.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) string {
	s.logger.Info("user logged out", "user_id", userID)
	return "session closed successfully"
}

// ListUsers returns the active users the requester is allowed to see,
// per the role scope rules.
func (s *Service) ListUsers(ctx context.Context, requesterID uuid.UUID, roleQuery *user.Role) ([]*user.User, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}

	filter, err := ListScope(requester, roleQuery)
	if err != nil {
		return nil, err
	}

	return s.users.List(ctx, filter)
}

// ToggleActive flips the target's isActive flag when the requester's role
// allows managing that target.
func (s *Service) ToggleActive(ctx context.Context, requesterID, targetID uuid.UUID) (*user.User, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load target: %w", err)
	}

	if err := CanManage(requester.Role, requester.ID, target); err != nil {
		return nil, err
	}

	updated, err := s.users.SetActive(ctx, target.ID, !target.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}

	s.logger.Info("user status toggled",
		"requester_id", requesterID,
		"target_id", targetID,
		"is_active", updated.IsActive,
	)

	return updated, nil
}

// DashboardRoute returns the role-keyed landing path.
func (s *Service) DashboardRoute(role user.Role) string {
	switch role {
	case user.RoleAdmin:
		return dashboardAdmin
	case user.RoleCoach:
		return dashboardCoach
	default:
		return dashboardDefault
	}
}

func (s *Service) issueTokens(u *user.User) (*TokenPair, error) {
	accessToken, err := s.tokens.SignAccess(u)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokens.SignRefresh(u)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func validateRegisterInput(in RegisterInput) error {
	if in.Email == "" {
		return ErrEmailRequired
	}
	if len(in.Email) > 254 {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return ErrInvalidEmail
	}
	if in.Cedula == "" {
		return ErrCedulaRequired
	}
	if len(in.Name) < 2 {
		return ErrNameRequired
	}
	if in.Password == "" {
		return ErrPasswordRequired
	}
	if len(in.Password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}
