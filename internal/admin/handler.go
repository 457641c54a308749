// AngelaMos | 2026
// handler.go

package admin

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// Handler exposes operational introspection for admins: build info,
// connection pool stats, runtime numbers.
type Handler struct {
	db      *core.Database
	redis   *core.Redis
	cfg     *config.Config
	started time.Time
}

func NewHandler(db *core.Database, redis *core.Redis, cfg *config.Config) *Handler {
	return &Handler{
		db:      db,
		redis:   redis,
		cfg:     cfg,
		started: time.Now(),
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stats", h.Stats)

	return r
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	dbStats := h.db.Stats()
	poolStats := h.redis.PoolStats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	core.OK(w, map[string]any{
		"app": map[string]any{
			"name":        h.cfg.App.Name,
			"version":     h.cfg.App.Version,
			"environment": h.cfg.App.Environment,
			"uptime":      time.Since(h.started).Round(time.Second).String(),
		},
		"database": map[string]any{
			"openConnections": dbStats.OpenConnections,
			"inUse":           dbStats.InUse,
			"idle":            dbStats.Idle,
			"waitCount":       dbStats.WaitCount,
			"waitDuration":    dbStats.WaitDuration.String(),
		},
		"redis": map[string]any{
			"totalConns": poolStats.TotalConns,
			"idleConns":  poolStats.IdleConns,
			"hits":       poolStats.Hits,
			"misses":     poolStats.Misses,
			"timeouts":   poolStats.Timeouts,
		},
		"runtime": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"heapAlloc":  mem.HeapAlloc,
			"numGC":      mem.NumGC,
		},
	})
}
