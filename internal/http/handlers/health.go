package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness for any process and readiness for the ones
// that own a store.
type HealthHandler struct {
	pinger  Pinger
	service string
	driver  string
}

func NewHealthHandler(pinger Pinger, service, driver string) *HealthHandler {
	return &HealthHandler{pinger: pinger, service: service, driver: driver}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pinger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "store": "missing"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	start := time.Now()
	err := h.pinger.Ping(ctx)
	body := gin.H{
		"store":   "ok",
		"driver":  h.driver,
		"ping_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		body["status"] = "not_ready"
		body["store"] = "error"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ready"
	c.JSON(http.StatusOK, body)
}
