package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerstat/internal/adapter/http/handler"
	apimiddleware "github.com/iho/ledgerstat/internal/adapter/http/middleware"
	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
	"github.com/iho/ledgerstat/internal/usecase"
)

type demoRepository struct{}

func (demoRepository) LoadLedger(_ context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	l := snapshot.Demo()
	if _, ok := l.User(userID); !ok {
		return nil, domain.ErrUserNotFound
	}
	return l.ForUser(userID), nil
}

type staticID struct{}

func (staticID) Generate() string { return "01JRUN" }

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be rate limited, got %d", rec2.Code)
	}
}

func TestNewRouter_UserRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())
	base := "/api/v1/users/" + snapshot.DemoUserID.String()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, base + "/summary?from=2025-12&to=2025-12", ""},
		{http.MethodGet, base + "/accounts", ""},
		{http.MethodGet, base + "/trends/line?months=3", ""},
		{http.MethodGet, base + "/trends/categories?from=2025-10&to=2025-12&normalize=true", ""},
		{http.MethodGet, base + "/trends/accounts", ""},
		{http.MethodGet, base + "/top/categories?k=2&purpose=outcome", ""},
		{http.MethodGet, base + "/top/accounts?k=1", ""},
		{http.MethodPost, base + "/reconcile", `{"months":3,"external_balance":"0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if !json.Valid(rec.Body.Bytes()) {
				t.Fatalf("expected JSON body, got %s", rec.Body.String())
			}
		})
	}
}

func TestNewRouter_MeRequiresAuth(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me/summary", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected /me to be absent without auth, got %d", rec.Code)
	}
}

func TestNewRouter_AuthScopesToTokenUser(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	token, err := jwtManager.Generate(&domain.User{ID: snapshot.DemoUserID})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{name: "no token", path: "/api/v1/users/" + snapshot.DemoUserID.String() + "/accounts", status: http.StatusUnauthorized},
		{name: "own ledger", path: "/api/v1/users/" + snapshot.DemoUserID.String() + "/accounts", token: token, status: http.StatusOK},
		{name: "other ledger", path: "/api/v1/users/" + uuid.NewString() + "/accounts", token: token, status: http.StatusForbidden},
		{name: "me", path: "/api/v1/me/accounts", token: token, status: http.StatusOK},
		{name: "health stays public", path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = auth.NewJWTManager("test-secret", time.Hour)
	}))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/users/{userID}/summary",
		"GET /api/v1/users/{userID}/trends/line",
		"GET /api/v1/users/{userID}/top/categories",
		"POST /api/v1/users/{userID}/reconcile",
		"GET /api/v1/me/accounts",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	repo := demoRepository{}

	cfg := RouterConfig{
		AnalyticsHandler: handler.NewAnalyticsHandler(usecase.NewAnalyticsUseCase(repo, zerolog.Nop(), m)),
		ReconcileHandler: handler.NewReconcileHandler(usecase.NewReconciliationUseCase(repo, staticID{}, zerolog.Nop(), m)),
		HealthHandler:    handler.NewHealthHandler(nil, nil),
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:           zerolog.Nop(),
		Metrics:          m,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
