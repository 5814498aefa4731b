package handlers

import (
	"net/http"
	"time"

	"retailstock/internal/jobs/background"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	pool      *pgxpool.Pool
	scheduler *background.JobScheduler
}

func NewHealthHandlers(pool *pgxpool.Pool, scheduler *background.JobScheduler) *HealthHandlers {
	return &HealthHandlers{pool: pool, scheduler: scheduler}
}

// Health handles GET /health.
func (h *HealthHandlers) Health(c echo.Context) error {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.pool.Ping(c.Request().Context()); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}

	return c.JSON(status, map[string]interface{}{
		"status":    dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"jobs":      h.scheduler.GetJobStatus(),
	})
}
