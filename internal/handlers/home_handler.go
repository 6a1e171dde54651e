package handlers

import (
	"net/http"

	"github.com/bookit/bookit-web/internal/session"
	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	serviceName string
}

func NewHomeHandler(serviceName string) *HomeHandler {
	return &HomeHandler{serviceName: serviceName}
}

// Home handles GET /, the page the route guard sends anonymous visitors to
func (h *HomeHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":       h.serviceName,
		"authenticated": session.HasAuthToken(c.Request),
	})
}
