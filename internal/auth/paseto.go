package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/user"
)

// PasetoService is the alternative token backend.
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305).
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewPasetoService(symmetricKey []byte, accessTTL, refreshTTL time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}, nil
}

func (s *PasetoService) sign(u *user.User, kind TokenKind, ttl time.Duration) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(ttl))
	token.SetString("user_id", u.ID.String())
	token.SetString("email", u.Email)
	token.SetString("role", string(u.Role))
	token.SetString("name", u.Name)
	token.SetString("type", string(kind))
	if u.CoachID != nil {
		token.SetString("coach_id", u.CoachID.String())
	}

	return token.V4Encrypt(s.symmetricKey, nil)
}

func (s *PasetoService) SignAccess(u *user.User) (string, error) {
	return s.sign(u, AccessToken, s.accessTTL), nil
}

func (s *PasetoService) SignRefresh(u *user.User) (string, error) {
	return s.sign(u, RefreshToken, s.refreshTTL), nil
}

func (s *PasetoService) verify(tokenStr string, kind TokenKind) (*Claims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		var ruleErr paseto.RuleError
		if errors.As(err, &ruleErr) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	tType, err := token.GetString("type")
	if err != nil || tType != string(kind) {
		return nil, ErrInvalidToken
	}

	userIDStr, err := token.GetString("user_id")
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	roleStr, err := token.GetString("role")
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := token.GetString("email")
	name, _ := token.GetString("name")

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Name:   name,
	}

	if coachStr, err := token.GetString("coach_id"); err == nil && coachStr != "" {
		coachID, err := uuid.Parse(coachStr)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.CoachID = &coachID
	}

	if issuedAt, err := token.GetIssuedAt(); err == nil {
		claims.IssuedAt = issuedAt
	}
	if expiresAt, err := token.GetExpiration(); err == nil {
		claims.ExpiresAt = expiresAt
	}

	return claims, nil
}

func (s *PasetoService) VerifyAccess(tokenStr string) (*Claims, error) {
	return s.verify(tokenStr, AccessToken)
}

func (s *PasetoService) VerifyRefresh(tokenStr string) (*Claims, error) {
	return s.verify(tokenStr, RefreshToken)
}
