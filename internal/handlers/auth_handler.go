package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/internal/services"
	"github.com/bookit/bookit-web/internal/session"
	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "Por favor, verifica que los campos sean correctos y coincidan"

type AuthHandler struct {
	sessions     services.SessionServiceInterface
	registration services.RegistrationServiceInterface
	cookies      session.Options
}

func NewAuthHandler(
	sessions services.SessionServiceInterface,
	registration services.RegistrationServiceInterface,
	cookies session.Options,
) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		registration: registration,
		cookies:      cookies,
	}
}

func (h *AuthHandler) store(c *gin.Context) session.Store {
	return session.NewCookieStore(c, h.cookies)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, msgInvalidRequest, ParseValidationErrors(err), err)
		return
	}

	res := h.sessions.Login(c.Request.Context(), h.store(c), &req)
	if !res.Success {
		attachError(c, fmt.Errorf("login failed: %s", res.Message))
	}
	c.JSON(statusFor(res.Failure), res)
}

// Register handles POST /api/auth/register. Both wizard steps are validated
// before anything is sent upstream.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, msgInvalidRequest, ParseValidationErrors(err), err)
		return
	}

	profile := req.Profile()
	profile.Nombre = strings.TrimSpace(profile.Nombre)
	profile.Codigoweb = strings.TrimSpace(profile.Codigoweb)
	profile.Correo = strings.TrimSpace(profile.Correo)

	res := h.registration.Register(c.Request.Context(), profile)
	if !res.Success {
		attachError(c, fmt.Errorf("registration failed: %s", res.Message))
	}
	c.JSON(statusFor(res.Failure), res)
}

// ValidateRegistration handles POST /api/auth/register/validate?step=1|2.
// It gates moving between wizard steps without contacting the API.
func (h *AuthHandler) ValidateRegistration(c *gin.Context) {
	var (
		err  error
		step = c.DefaultQuery("step", "1")
	)

	switch step {
	case "1":
		var req models.RegisterStep1
		err = c.ShouldBindJSON(&req)
	case "2":
		var req models.RegisterStep2
		err = c.ShouldBindJSON(&req)
	default:
		respondError(c, http.StatusBadRequest, "Paso de registro desconocido", fmt.Errorf("unknown wizard step %q", step))
		return
	}

	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, msgInvalidRequest, ParseValidationErrors(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "step": step})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	res := h.sessions.Logout(c.Request.Context(), h.store(c))
	if !res.Success {
		attachError(c, session.ErrResponseCommitted)
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
	}

	res := h.sessions.RequestPasswordReset(c.Request.Context(), req.Correo)
	c.JSON(statusFor(res.Failure), res)
}

// VerifyAccount handles POST /api/auth/verify
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req models.VerifyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, msgInvalidRequest, ParseValidationErrors(err), err)
		return
	}

	res := h.sessions.VerifyAccount(c.Request.Context(), string(req.ID), string(req.Codigo))
	c.JSON(statusFor(res.Failure), res)
}

// Profile handles GET /api/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, h.sessions.Profile(h.store(c)))
}
