package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/internal/services"
	"github.com/bookit/bookit-web/internal/session"
	apperrors "github.com/bookit/bookit-web/pkg/errors"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the pages behind the route guard
type DashboardHandler struct {
	sessions services.SessionServiceInterface
	schools  services.SchoolServiceInterface
	cookies  session.Options
}

func NewDashboardHandler(
	sessions services.SessionServiceInterface,
	schools services.SchoolServiceInterface,
	cookies session.Options,
) *DashboardHandler {
	return &DashboardHandler{
		sessions: sessions,
		schools:  schools,
		cookies:  cookies,
	}
}

// sessionUser resolves the numeric user id or answers 401 itself
func (h *DashboardHandler) sessionUser(c *gin.Context, store session.Store) (string, bool) {
	userID, ok := h.schools.UserIDFromSession(store)
	if !ok {
		respondError(c, http.StatusUnauthorized, services.MsgNoSessionUser, apperrors.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

// Dashboard handles GET /dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	store := session.NewCookieStore(c, h.cookies)

	userID, ok := h.sessionUser(c, store)
	if !ok {
		return
	}

	profile := h.sessions.Profile(store)
	res := h.schools.GetLinkedSchools(c.Request.Context(), userID)
	if !res.Success {
		attachError(c, fmt.Errorf("linked schools: %s", res.Message))
	}

	c.JSON(statusFor(res.Failure), &models.DashboardResult{
		Success: res.Success,
		Profile: profile,
		Schools: res.Schools,
		Message: res.Message,
	})
}

// ListSchools handles GET /dashboard/schools
func (h *DashboardHandler) ListSchools(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	store := session.NewCookieStore(c, h.cookies)

	userID, ok := h.sessionUser(c, store)
	if !ok {
		return
	}

	res := h.schools.GetLinkedSchools(c.Request.Context(), userID)
	if !res.Success {
		attachError(c, fmt.Errorf("linked schools: %s", res.Message))
	}
	c.JSON(statusFor(res.Failure), res)
}

// GetSchool handles GET /dashboard/schools/:code
func (h *DashboardHandler) GetSchool(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, http.StatusBadRequest, services.MsgInvalidSchoolCode, apperrors.InvalidInputError("code", "empty"))
		return
	}

	res := h.schools.GetSchool(c.Request.Context(), code)
	if !res.Success {
		attachError(c, fmt.Errorf("school %s: %s", code, res.Message))
	}
	c.JSON(statusFor(res.Failure), res)
}

// LinkSchool handles POST /dashboard/schools
func (h *DashboardHandler) LinkSchool(c *gin.Context) {
	store := session.NewCookieStore(c, h.cookies)

	var req models.LinkSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, services.MsgInvalidSchoolCode, ParseValidationErrors(err), err)
		return
	}

	code, valid := SanitizeSchoolCode(req.Code)
	if !valid {
		respondError(c, http.StatusBadRequest, services.MsgInvalidSchoolCode, apperrors.InvalidInputError("codigoweb", "must be 6 letters or digits"))
		return
	}

	userID, ok := h.sessionUser(c, store)
	if !ok {
		return
	}

	res := h.schools.LinkSchool(c.Request.Context(), userID, code)
	if !res.Success {
		attachError(c, fmt.Errorf("link school %s: %s", code, res.Message))
	}
	c.JSON(statusFor(res.Failure), res)
}
