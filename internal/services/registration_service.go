package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/pkg/fallback"
	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/bookit/bookit-web/pkg/metrics"
	"go.uber.org/zap"
)

// registrationAttempt is one guess at the account-creation endpoint shape
type registrationAttempt struct {
	Path   string
	Accion string
}

// The API has exposed account creation under several paths and action names.
// They are tried in this order.
var registrationAttempts = []registrationAttempt{
	{Path: "/usuario/register", Accion: "registrar"},
	{Path: "/usuario/register", Accion: "register"},
	{Path: "/usuario/registrar", Accion: "registrar"},
	{Path: "/usuario/registro", Accion: "registrar"},
}

// RegistrationService creates accounts on the BookIt API
type RegistrationService struct {
	api BookitAPI
}

func NewRegistrationService(api BookitAPI) *RegistrationService {
	return &RegistrationService{api: api}
}

// Register submits the profile to each endpoint shape in turn until one
// answers with something other than "wrong endpoint".
func (s *RegistrationService) Register(ctx context.Context, profile models.RegistrationProfile) *models.RegisterResult {
	base := registrationForm(profile)

	result, tried, err := fallback.Sequence(ctx, "register", registrationAttempts,
		func(ctx context.Context, _ int, attempt registrationAttempt) (*models.RegisterResult, fallback.Decision, error) {
			return s.tryEndpoint(ctx, base, attempt)
		})

	metrics.RegistrationEndpointAttempts.Observe(float64(tried))

	switch {
	case err == nil:
	case errors.Is(err, fallback.ErrExhausted):
		if result == nil || result.Message == "" {
			result = &models.RegisterResult{Message: MsgRegisterDefault, Failure: models.FailureRejected}
		}
	default:
		logger.LogError(err, "Registration request failed", zap.Int("attempts", tried))
		metrics.Registrations.WithLabelValues("error").Inc()
		return &models.RegisterResult{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	if result.Success {
		metrics.Registrations.WithLabelValues("success").Inc()
		logger.Info("User registered", zap.Int("attempts", tried))
	} else {
		metrics.Registrations.WithLabelValues("rejected").Inc()
		logger.Info("Registration rejected", zap.Int("attempts", tried), zap.String("reason", result.Message))
	}
	return result
}

func (s *RegistrationService) tryEndpoint(ctx context.Context, base url.Values, attempt registrationAttempt) (*models.RegisterResult, fallback.Decision, error) {
	form := cloneValues(base)
	if attempt.Accion != "" {
		form.Set("accion", attempt.Accion)
	}

	resp, err := s.api.Register(ctx, attempt.Path, form)
	if err != nil {
		return nil, fallback.Stop, err
	}

	p := resp.Payload
	if resp.OK() && !p.Truthy("error") {
		var user *models.User
		if u, ok := p.Object("usuario"); ok {
			user = userFromPayload(u)
		} else if u, ok := p.Object("user"); ok {
			user = userFromPayload(u)
		}
		return &models.RegisterResult{
			Success: true,
			Message: textOr(p, MsgRegisterSuccess, "mensaje", "message"),
			User:    user,
		}, fallback.Stop, nil
	}

	failed := &models.RegisterResult{
		Message: failureMessage(p, resp.StatusCode, MsgRegisterDefault, messageKeys...),
		Failure: models.FailureRejected,
	}
	if ShouldTryNextEndpoint(resp.StatusCode, p) {
		logger.Debug("Registration endpoint rejected the request shape",
			zap.String("path", attempt.Path),
			zap.String("accion", attempt.Accion),
			zap.Int("status_code", resp.StatusCode))
		return failed, fallback.TryNext, nil
	}
	return failed, fallback.Stop, nil
}

func registrationForm(profile models.RegistrationProfile) url.Values {
	form := url.Values{}
	form.Set("nombre", profile.Nombre)
	form.Set("telefono", NormalizePhone(profile.Telefono))
	form.Set("codigoweb", profile.Codigoweb)
	form.Set("correo", profile.Correo)
	form.Set("contrasena", profile.Contrasena)
	return form
}

// NormalizePhone keeps only the digits of raw and renders them as an integer.
// Empty or out-of-range input becomes "0".
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(n, 10)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
