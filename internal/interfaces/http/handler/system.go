package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler serves health and liveness endpoints
type SystemHandler struct {
	appName string
	env     string
	db      Pinger
}

// NewSystemHandler creates a system handler. The db pinger may be nil.
func NewSystemHandler(appName, env string, db Pinger) *SystemHandler {
	return &SystemHandler{appName: appName, env: env, db: db}
}

// Health reports service health, including database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "ok"
		if err := h.db.Ping(); err != nil {
			dbStatus = "unreachable"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"app":      h.appName,
		"env":      h.env,
		"database": dbStatus,
	})
}
