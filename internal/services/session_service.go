package services

import (
	"context"
	"strings"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/internal/session"
	"github.com/bookit/bookit-web/pkg/bookit"
	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/bookit/bookit-web/pkg/metrics"
	"go.uber.org/zap"
)

// SessionService logs users in and out and handles account recovery
type SessionService struct {
	api BookitAPI
}

func NewSessionService(api BookitAPI) *SessionService {
	return &SessionService{api: api}
}

// Login authenticates against the BookIt API and, for verified accounts,
// writes the session cookies. Unverified accounts never get a session.
func (s *SessionService) Login(ctx context.Context, store session.Store, req *models.LoginRequest) *models.LoginResult {
	resp, err := s.api.Login(ctx, req.Correo, req.Contrasena)
	if err != nil {
		logger.LogError(err, "Login request failed")
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return &models.LoginResult{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	p := resp.Payload
	usuario, hasUser := p.Object("usuario")
	if !resp.OK() || p.Truthy("error") || !hasUser {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		logger.Info("Login rejected", zap.Int("status_code", resp.StatusCode))
		return &models.LoginResult{
			Message: failureMessage(p, resp.StatusCode, MsgLoginDefault, messageKeys...),
			Failure: models.FailureRejected,
		}
	}

	user := userFromPayload(usuario)

	if p.Text("verificado") == "No" {
		metrics.LoginAttempts.WithLabelValues("unverified").Inc()
		logger.Info("Login for unverified account", zap.String("user_id", user.ID))
		verified := false
		return &models.LoginResult{
			NeedsVerification: true,
			Verificado:        &verified,
			Message:           MsgUnverifiedAccount,
			User:              user,
			Failure:           models.FailureUnverified,
		}
	}

	token := p.Scalar("token")
	if err := writeSession(store, token, user); err != nil {
		logger.LogError(err, "Failed to write session cookies", zap.String("user_id", user.ID))
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return &models.LoginResult{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.Info("User logged in", zap.String("user_id", user.ID))

	verified := true
	return &models.LoginResult{
		Success:    true,
		Verificado: &verified,
		Message:    textOr(p, MsgLoginSuccess, "mensaje"),
		User:       user,
		Token:      token,
	}
}

// writeSession stores the token (or the user id when the API issued none)
// and the display fields. Empty values are not written.
func writeSession(store session.Store, token string, user *models.User) error {
	authToken := token
	if authToken == "" {
		authToken = user.ID
	}

	values := []struct{ name, value string }{
		{session.AuthTokenCookie, authToken},
		{session.UserIDCookie, user.ID},
		{session.UserNameCookie, user.Nombre},
		{session.UserEmailCookie, user.Correo},
	}
	for _, v := range values {
		if v.value == "" {
			continue
		}
		if err := store.Set(v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}

func userFromPayload(p bookit.Payload) *models.User {
	return &models.User{
		ID:       p.Scalar("id"),
		Correo:   p.Scalar("correo", "email"),
		Nombre:   p.Scalar("nombre", "nombre_completo", "name"),
		Telefono: p.Scalar("telefono"),
	}
}

// Logout removes every session cookie. Running it twice is harmless.
func (s *SessionService) Logout(ctx context.Context, store session.Store) *models.LogoutResult {
	for _, name := range session.Cookies {
		if err := store.Delete(name); err != nil {
			logger.LogError(err, "Failed to clear session cookie", zap.String("cookie", name))
			return &models.LogoutResult{Success: false}
		}
	}
	return &models.LogoutResult{Success: true}
}

// Profile returns the display name and email stored in the session
func (s *SessionService) Profile(store session.Store) *models.ProfileResult {
	return &models.ProfileResult{
		Name:  sessionValue(store, session.UserNameCookie),
		Email: sessionValue(store, session.UserEmailCookie),
	}
}

func sessionValue(store session.Store, name string) *string {
	v, ok := store.Get(name)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// RequestPasswordReset asks the API to mail a reset link. Malformed addresses
// are rejected locally without a network call.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) *models.Result {
	if !models.ValidEmail(email) {
		metrics.PasswordResetRequests.WithLabelValues("invalid").Inc()
		return &models.Result{Message: MsgInvalidEmail, Failure: models.FailureInvalid}
	}

	resp, err := s.api.RecoverPassword(ctx, email)
	if err != nil {
		logger.LogError(err, "Password recovery request failed")
		metrics.PasswordResetRequests.WithLabelValues("error").Inc()
		return &models.Result{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	p := resp.Payload
	if !resp.OK() || p.Truthy("error") {
		metrics.PasswordResetRequests.WithLabelValues("rejected").Inc()
		return &models.Result{
			Message: failureMessage(p, resp.StatusCode, MsgRecoverDefault, messageKeys...),
			Failure: models.FailureRejected,
		}
	}

	metrics.PasswordResetRequests.WithLabelValues("success").Inc()
	return &models.Result{Success: true, Message: textOr(p, MsgRecoverSuccess, "mensaje", "message")}
}

// VerifyAccount forwards a verification code to the API as-is
func (s *SessionService) VerifyAccount(ctx context.Context, userID, code string) *models.Result {
	resp, err := s.api.VerifyAccount(ctx, userID, code)
	if err != nil {
		logger.LogError(err, "Account verification request failed", zap.String("user_id", userID))
		metrics.AccountVerifications.WithLabelValues("error").Inc()
		return &models.Result{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	p := resp.Payload
	if !resp.OK() || p.Truthy("error") {
		metrics.AccountVerifications.WithLabelValues("rejected").Inc()
		return &models.Result{
			Message: failureMessage(p, resp.StatusCode, MsgVerifyDefault, messageKeys...),
			Failure: models.FailureRejected,
		}
	}

	metrics.AccountVerifications.WithLabelValues("success").Inc()
	logger.Info("Account verified", zap.String("user_id", userID))
	return &models.Result{Success: true, Message: textOr(p, MsgVerifySuccess, "mensaje", "message")}
}
