package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
	"github.com/iho/ledgerstat/internal/infrastructure/logger"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AuthUserContextKey holds the user proven by a bearer token.
	AuthUserContextKey ContextKey = "auth_user"
	// ScopeUserContextKey holds the user whose ledger a request reads.
	ScopeUserContextKey ContextKey = "scope_user"
)

// UserIDParam is the route parameter naming the ledger owner.
const UserIDParam = "userID"

// AuthMiddleware rejects requests without a valid bearer token. m may be nil.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	fail := func(w http.ResponseWriter, reason, message string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
		writeError(w, http.StatusUnauthorized, message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fail(w, "missing", "missing authorization header")
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				fail(w, "malformed", "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrExpiredToken) {
					reason = "expired"
				}
				fail(w, reason, "invalid or expired token")
				return
			}

			userID, err := claims.User()
			if err != nil {
				fail(w, "invalid", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserScope resolves the {userID} route parameter. Authenticated callers
// may only name themselves.
func UserScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := domain.ParseUserID(chi.URLParam(r, UserIDParam))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if authUser, ok := AuthUserFromContext(r.Context()); ok && authUser != userID {
			writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), userID)))
	})
}

// CurrentUser scopes the request to the authenticated user.
func CurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := AuthUserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), userID)))
	})
}

func withScope(ctx context.Context, userID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, ScopeUserContextKey, userID)
	return logger.WithUserID(ctx, userID.String())
}

// AuthUserFromContext extracts the authenticated user from context
func AuthUserFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AuthUserContextKey).(uuid.UUID)
	return id, ok
}

// ScopedUserFromContext returns the user whose ledger the request reads.
func ScopedUserFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ScopeUserContextKey).(uuid.UUID)
	return id, ok
}

// WithScopedUser attaches a ledger owner to ctx outside of routing.
func WithScopedUser(ctx context.Context, userID uuid.UUID) context.Context {
	return withScope(ctx, userID)
}
