package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
)

func newScopedRouter(jwtManager *auth.JWTManager, m *metrics.Metrics) http.Handler {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := ScopedUserFromContext(r.Context())
		w.Write([]byte(id.String()))
	})

	r := chi.NewRouter()
	r.Route("/users/{userID}", func(r chi.Router) {
		if jwtManager != nil {
			r.Use(AuthMiddleware(jwtManager, m))
		}
		r.Use(UserScope)
		r.Get("/", echo)
	})
	r.Route("/me", func(r chi.Router) {
		r.Use(AuthMiddleware(jwtManager, m))
		r.Use(CurrentUser)
		r.Get("/", echo)
	})
	return r
}

func TestUserScopeWithoutAuth(t *testing.T) {
	userID := uuid.New()
	router := newScopedRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != userID.String() {
		t.Fatalf("expected scoped user %s, got %d %q", userID, rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad user ID, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	router := newScopedRouter(jwtManager, m)

	owner := &domain.User{ID: uuid.New(), Email: "owner@example.com"}
	token, err := jwtManager.Generate(owner)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "missing header", path: "/users/" + owner.ID.String() + "/", status: http.StatusUnauthorized},
		{name: "malformed header", path: "/users/" + owner.ID.String() + "/", header: "Token " + token, status: http.StatusUnauthorized},
		{name: "bad token", path: "/users/" + owner.ID.String() + "/", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "own ledger", path: "/users/" + owner.ID.String() + "/", header: "Bearer " + token, status: http.StatusOK},
		{name: "someone else's ledger", path: "/users/" + uuid.NewString() + "/", header: "Bearer " + token, status: http.StatusForbidden},
		{name: "me", path: "/me/", header: "Bearer " + token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Body.String() != owner.ID.String() {
				t.Fatalf("expected scope %s, got %q", owner.ID, rec.Body.String())
			}
		})
	}

	if got := testutil.ToFloat64(m.AuthFailures.WithLabelValues("missing")); got != 1 {
		t.Fatalf("expected 1 missing-header failure, got %v", got)
	}
}
