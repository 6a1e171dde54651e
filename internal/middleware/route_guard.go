package middleware

import (
	"net/http"
	"regexp"

	"github.com/bookit/bookit-web/internal/session"
	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/bookit/bookit-web/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// protectedPaths matches /dashboard and everything below it
var protectedPaths = regexp.MustCompile(`^/dashboard(/.*)?$`)

// RouteGuard sends visitors without an auth-token cookie away from protected
// pages to the landing page. The query string survives the redirect.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !protectedPaths.MatchString(c.Request.URL.Path) || session.HasAuthToken(c.Request) {
			c.Next()
			return
		}

		target := "/"
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}

		metrics.RouteGuardRedirects.Inc()
		logger.Debug("Redirecting anonymous visitor",
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()))

		c.Redirect(http.StatusTemporaryRedirect, target)
		c.Abort()
	}
}
