package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	db      *sqlx.DB
	version string
}

// NewHealthHandler creates a new HealthHandler. version is reported on the
// liveness probe and may be empty.
func NewHealthHandler(db *sqlx.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.version != "" {
		body["version"] = h.version
	}
	c.JSON(http.StatusOK, body)
}

// Readiness handles GET /readyz. Fails when the database is unreachable so
// load balancers stop routing before requests start erroring.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
