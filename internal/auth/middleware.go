package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fitcoach/fitcoach-api/internal/httputil"
	"github.com/fitcoach/fitcoach-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const identityContextKey ContextKey = "identity"

// Middleware handles authentication for protected routes. Every request
// re-loads the subject's record so tokens issued before a deactivation
// stop working immediately.
type Middleware struct {
	tokens TokenService
	users  UserRepository
}

func NewMiddleware(tokens TokenService, users UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuth validates the bearer access token and injects the resolved
// identity into the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.VerifyAccess(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		// Catch post-issuance deactivation or deletion.
		u, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}
		if !u.IsActive {
			httputil.RespondErrorWithCode(w, "account is inactive", httputil.CodeAccountInactive, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a route to the given role set. Must run after
// RequireAuth.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				httputil.RespondErrorWithCode(w, "insufficient role", httputil.CodeForbidden, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext extracts the resolved user from the request context.
func IdentityFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(identityContextKey).(*user.User)
	return u, ok
}
