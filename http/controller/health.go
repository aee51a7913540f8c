package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes the backing services and reports per-component status.
func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	components := gin.H{
		"postgres": "ok",
		"redis":    "ok",
		"minio":    "ok",
	}
	healthy := true

	if err := ctrl.Infra.Postgres.Ping(); err != nil {
		components["postgres"] = err.Error()
		healthy = false
	}
	if err := ctrl.Infra.Redis.Ping(ctx); err != nil {
		components["redis"] = err.Error()
		healthy = false
	}
	if err := ctrl.Infra.Minio.Health(ctx); err != nil {
		components["minio"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{"status": state, "components": components})
}
