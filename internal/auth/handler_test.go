package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach/fitcoach-api/internal/auth"
	"github.com/fitcoach/fitcoach-api/internal/logging"
	"github.com/fitcoach/fitcoach-api/internal/ratelimit"
	"github.com/fitcoach/fitcoach-api/internal/user"
)

func newTestHandler(t *testing.T, limit int) (*auth.Handler, *fakeUserRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := ratelimit.NewLimiterWithConfig(client, limit, 15*time.Minute)

	repo := newFakeUserRepo()
	tokens := auth.NewJWTService([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
	logger := logging.NewLogger(true)
	svc := auth.NewService(repo, tokens, logger, 15*time.Minute)
	return auth.NewHandler(svc, limiter, logger), repo
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlerRegister(t *testing.T) {
	handler, _ := newTestHandler(t, 10)

	res := httptest.NewRecorder()
	handler.Register(res, postJSON(t, "/auth/register", auth.RegisterRequest{
		Email:    "self@example.com",
		Cedula:   "CED-SELF-1",
		Name:     "Self Signup",
		Password: "secret123",
		// Self-registration must ignore a requested elevated role.
		Role: "ADMIN",
	}))

	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var result auth.AuthResult
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	assert.Equal(t, user.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.NotContains(t, res.Body.String(), "password_hash")
}

func TestHandlerRegisterConflicts(t *testing.T) {
	handler, repo := newTestHandler(t, 10)
	existing := seedUser(t, repo, user.RoleUser, true, nil)

	res := httptest.NewRecorder()
	handler.Register(res, postJSON(t, "/auth/register", auth.RegisterRequest{
		Email:    existing.Email,
		Cedula:   "CED-NEW",
		Name:     "Conflicting",
		Password: "secret123",
	}))
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Contains(t, res.Body.String(), "EMAIL_ALREADY_EXISTS")

	res = httptest.NewRecorder()
	handler.Register(res, postJSON(t, "/auth/register", auth.RegisterRequest{
		Email:    "fresh@example.com",
		Cedula:   existing.Cedula,
		Name:     "Conflicting",
		Password: "secret123",
	}))
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Contains(t, res.Body.String(), "CEDULA_ALREADY_EXISTS")
}

func TestHandlerRegisterRateLimited(t *testing.T) {
	handler, _ := newTestHandler(t, 2)

	body := auth.RegisterRequest{
		Email:    "limited@example.com",
		Cedula:   "CED-LIM",
		Name:     "Limited",
		Password: "secret123",
	}

	// Spend the budget; every decoded request counts, even a conflicting one.
	for i := 0; i < 2; i++ {
		res := httptest.NewRecorder()
		req := postJSON(t, "/auth/register", body)
		req.RemoteAddr = "10.9.9.9:1234"
		handler.Register(res, req)
	}

	res := httptest.NewRecorder()
	req := postJSON(t, "/auth/register", body)
	req.RemoteAddr = "10.9.9.9:1234"
	handler.Register(res, req)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Contains(t, res.Body.String(), "TOO_MANY_REQUESTS")

	// A different IP still gets through.
	res = httptest.NewRecorder()
	req = postJSON(t, "/auth/register", auth.RegisterRequest{
		Email:    "other@example.com",
		Cedula:   "CED-OTHER",
		Name:     "Other IP",
		Password: "secret123",
	})
	req.RemoteAddr = "10.8.8.8:1234"
	handler.Register(res, req)
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestHandlerLogin(t *testing.T) {
	handler, repo := newTestHandler(t, 10)
	subject := seedUser(t, repo, user.RoleUser, true, nil)

	t.Run("success", func(t *testing.T) {
		res := httptest.NewRecorder()
		handler.Login(res, postJSON(t, "/auth/login", auth.LoginRequest{
			Email:    subject.Email,
			Password: "secret123",
		}))
		require.Equal(t, http.StatusOK, res.Code)

		var result auth.AuthResult
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
		assert.Equal(t, subject.ID, result.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		res := httptest.NewRecorder()
		handler.Login(res, postJSON(t, "/auth/login", auth.LoginRequest{
			Email:    subject.Email,
			Password: "wrong",
		}))
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Contains(t, res.Body.String(), "INVALID_CREDENTIALS")
	})
}

func TestHandlerVerify(t *testing.T) {
	handler, _ := newTestHandler(t, 10)

	t.Run("missing token is a bad request", func(t *testing.T) {
		res := httptest.NewRecorder()
		handler.Verify(res, postJSON(t, "/auth/verify", auth.VerifyRequest{}))
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Contains(t, res.Body.String(), "TOKEN_REQUIRED")
	})

	t.Run("garbage token is still a 200", func(t *testing.T) {
		res := httptest.NewRecorder()
		handler.Verify(res, postJSON(t, "/auth/verify", auth.VerifyRequest{Token: "garbage"}))
		require.Equal(t, http.StatusOK, res.Code)

		var result auth.VerifyResult
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
		assert.False(t, result.Valid)
	})
}

func TestHandlerRefresh(t *testing.T) {
	handler, _ := newTestHandler(t, 10)

	res := httptest.NewRecorder()
	handler.Refresh(res, postJSON(t, "/auth/refresh", auth.RefreshRequest{RefreshToken: "garbage"}))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "INVALID_REFRESH_TOKEN")
}
