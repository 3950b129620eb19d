package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fitcoach/fitcoach-api/internal/user"
)

const (
	jwtIssuer   = "fitcoach-api"
	jwtAudience = "fitcoach-clients"
)

// JWTService signs HS256 tokens with a shared secret. The secret is
// injected explicitly rather than read from ambient configuration.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(secret []byte, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *JWTService) sign(u *user.User, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"role":  string(u.Role),
		"name":  u.Name,
		"type":  string(kind),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"iss":   jwtIssuer,
		"aud":   jwtAudience,
	}
	if u.CoachID != nil {
		claims["coach_id"] = u.CoachID.String()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *JWTService) SignAccess(u *user.User) (string, error) {
	return s.sign(u, AccessToken, s.accessTTL)
}

func (s *JWTService) SignRefresh(u *user.User) (string, error) {
	return s.sign(u, RefreshToken, s.refreshTTL)
}

func (s *JWTService) verify(tokenStr string, kind TokenKind) (*Claims, error) {
	t, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if tType, ok := mapClaims["type"].(string); !ok || tType != string(kind) {
		return nil, ErrInvalidToken
	}

	return mapClaimsToClaims(mapClaims)
}

func (s *JWTService) VerifyAccess(tokenStr string) (*Claims, error) {
	return s.verify(tokenStr, AccessToken)
}

func (s *JWTService) VerifyRefresh(tokenStr string) (*Claims, error) {
	return s.verify(tokenStr, RefreshToken)
}

func mapClaimsToClaims(mc jwt.MapClaims) (*Claims, error) {
	sub, ok := mc["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := mc["email"].(string)
	name, _ := mc["name"].(string)

	roleStr, ok := mc["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Name:   name,
	}

	if coachStr, ok := mc["coach_id"].(string); ok && coachStr != "" {
		coachID, err := uuid.Parse(coachStr)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.CoachID = &coachID
	}

	if iat, ok := mc["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}
