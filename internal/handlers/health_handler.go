package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpstreamStatus exposes the BookIt API circuit breaker to the health check
type UpstreamStatus interface {
	BreakerState() string
	BreakerOpen() bool
}

type HealthHandler struct {
	upstream UpstreamStatus
}

// NewHealthHandler reports liveness along with the BookIt API circuit breaker state
func NewHealthHandler(upstream UpstreamStatus) *HealthHandler {
	return &HealthHandler{
		upstream: upstream,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	state := h.upstream.BreakerState()
	if h.upstream.BreakerOpen() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"reason":   "bookit api circuit open",
			"upstream": state,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"upstream": state,
	})
}
