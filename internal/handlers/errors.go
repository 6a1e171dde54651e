package handlers

import (
	"net/http"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends a failed result with message and attaches err for the request log
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondErrorWithDetails sends a failed result with an additional errors field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"success": false, "message": message, "errors": details})
}

// statusFor maps a failure classification to the HTTP status of the response
func statusFor(kind models.FailureKind) int {
	switch kind {
	case models.FailureNone:
		return http.StatusOK
	case models.FailureInvalid:
		return http.StatusBadRequest
	case models.FailureUnverified:
		return http.StatusForbidden
	case models.FailureUnauthenticated:
		return http.StatusUnauthorized
	case models.FailureUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}
