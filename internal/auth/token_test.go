package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach/fitcoach-api/internal/auth"
	"github.com/fitcoach/fitcoach-api/internal/user"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

func tokenBackends(t *testing.T, accessTTL, refreshTTL time.Duration) map[string]auth.TokenService {
	t.Helper()

	pasetoSvc, err := auth.NewPasetoService(testPasetoKey, accessTTL, refreshTTL)
	require.NoError(t, err)

	return map[string]auth.TokenService{
		"jwt":    auth.NewJWTService([]byte("test-jwt-secret"), accessTTL, refreshTTL),
		"paseto": pasetoSvc,
	}
}

func testSubject() *user.User {
	coachID := uuid.New()
	return &user.User{
		ID:       uuid.New(),
		Email:    "athlete@example.com",
		Name:     "Test Athlete",
		Role:     user.RoleUser,
		IsActive: true,
		CoachID:  &coachID,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for name, svc := range tokenBackends(t, 15*time.Minute, 7*24*time.Hour) {
		t.Run(name, func(t *testing.T) {
			subject := testSubject()

			accessToken, err := svc.SignAccess(subject)
			require.NoError(t, err)

			claims, err := svc.VerifyAccess(accessToken)
			require.NoError(t, err)
			assert.Equal(t, subject.ID, claims.UserID)
			assert.Equal(t, subject.Email, claims.Email)
			assert.Equal(t, subject.Role, claims.Role)
			assert.Equal(t, subject.Name, claims.Name)
			require.NotNil(t, claims.CoachID)
			assert.Equal(t, *subject.CoachID, *claims.CoachID)

			refreshToken, err := svc.SignRefresh(subject)
			require.NoError(t, err)

			refreshClaims, err := svc.VerifyRefresh(refreshToken)
			require.NoError(t, err)
			assert.Equal(t, subject.ID, refreshClaims.UserID)
		})
	}
}

func TestTokenKindMismatch(t *testing.T) {
	for name, svc := range tokenBackends(t, 15*time.Minute, 7*24*time.Hour) {
		t.Run(name, func(t *testing.T) {
			subject := testSubject()

			accessToken, err := svc.SignAccess(subject)
			require.NoError(t, err)
			refreshToken, err := svc.SignRefresh(subject)
			require.NoError(t, err)

			// A refresh token must never pass as an access token, and vice versa.
			_, err = svc.VerifyAccess(refreshToken)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
			_, err = svc.VerifyRefresh(accessToken)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestTokenExpired(t *testing.T) {
	for name, svc := range tokenBackends(t, -time.Minute, -time.Minute) {
		t.Run(name, func(t *testing.T) {
			subject := testSubject()

			accessToken, err := svc.SignAccess(subject)
			require.NoError(t, err)

			_, err = svc.VerifyAccess(accessToken)
			assert.ErrorIs(t, err, auth.ErrExpiredToken)
		})
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	for name, svc := range tokenBackends(t, 15*time.Minute, 7*24*time.Hour) {
		t.Run(name, func(t *testing.T) {
			for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
				_, err := svc.VerifyAccess(tokenStr)
				assert.ErrorIs(t, err, auth.ErrInvalidToken)
			}
		})
	}
}

func TestTokenWrongKeyRejected(t *testing.T) {
	subject := testSubject()

	t.Run("jwt", func(t *testing.T) {
		signer := auth.NewJWTService([]byte("secret-one"), time.Minute, time.Hour)
		verifier := auth.NewJWTService([]byte("secret-two"), time.Minute, time.Hour)

		tokenStr, err := signer.SignAccess(subject)
		require.NoError(t, err)

		_, err = verifier.VerifyAccess(tokenStr)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("paseto", func(t *testing.T) {
		signer, err := auth.NewPasetoService(testPasetoKey, time.Minute, time.Hour)
		require.NoError(t, err)
		verifier, err := auth.NewPasetoService([]byte("ffffffffffffffffffffffffffffffff"), time.Minute, time.Hour)
		require.NoError(t, err)

		tokenStr, err := signer.SignAccess(subject)
		require.NoError(t, err)

		_, err = verifier.VerifyAccess(tokenStr)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestNewPasetoServiceKeyLength(t *testing.T) {
	_, err := auth.NewPasetoService([]byte("too-short"), time.Minute, time.Hour)
	assert.Error(t, err)
}
