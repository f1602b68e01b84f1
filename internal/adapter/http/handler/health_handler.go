package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type namedCheck struct {
	name  string
	check Check
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks []namedCheck
}

// NewHealthHandler creates a new HealthHandler. Either client may be nil
// when the deployment does not use it.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	h := &HealthHandler{}
	if pool != nil {
		h.AddCheck("postgres", pool.Ping)
	}
	if redisClient != nil {
		h.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return h
}

// AddCheck registers a readiness check.
func (h *HealthHandler) AddCheck(name string, check Check) {
	h.checks = append(h.checks, namedCheck{name: name, check: check})
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready"}
	for _, c := range h.checks {
		if err := c.check(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, c.name+" unhealthy", err.Error())
			return
		}
		status[c.name] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
