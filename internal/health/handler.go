// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type Checker func(ctx context.Context) error

type Handler struct {
	checks   map[string]Checker
	version  string
	started  time.Time
	shutdown atomic.Bool
}

func NewHandler(version string) *Handler {
	return &Handler{
		checks:  make(map[string]Checker),
		version: version,
		started: time.Now(),
	}
}

// Register adds a named readiness check. Not safe to call after the
// server starts.
func (h *Handler) Register(name string, check Checker) {
	h.checks[name] = check
}

// SetShutdown makes readiness fail so load balancers stop routing
// while in-flight requests drain.
func (h *Handler) SetShutdown(v bool) {
	h.shutdown.Store(v)
}

// Liveness only reports that the process is up; dependency health
// belongs to readiness.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	core.OK(w, map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		core.JSONErrorCode(
			w,
			http.StatusServiceUnavailable,
			"SHUTTING_DOWN",
			"server is shutting down",
		)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
		} else {
			results[name] = "ok"
		}
	}

	if !healthy {
		core.JSONErrorCode(
			w,
			http.StatusServiceUnavailable,
			"NOT_READY",
			"one or more dependencies are unavailable",
		)
		return
	}

	core.OK(w, map[string]any{
		"status": "ready",
		"checks": results,
	})
}
