package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/user"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenKind discriminates access tokens from refresh tokens so one kind
// can never be replayed as the other.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims represents the identity attributes embedded in a signed token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      user.Role
	Name      string
	CoachID   *uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService signs and verifies the stateless access/refresh pair.
// Implementations include JWTService (HS256) and PasetoService (v4.local).
type TokenService interface {
	SignAccess(u *user.User) (string, error)
	SignRefresh(u *user.User) (string, error)
	VerifyAccess(tokenStr string) (*Claims, error)
	VerifyRefresh(tokenStr string) (*Claims, error)
}
