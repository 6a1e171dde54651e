package handlers

import (
	"context"
	"net/url"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/internal/session"
	"github.com/bookit/bookit-web/pkg/bookit"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Login(ctx context.Context, store session.Store, req *models.LoginRequest) *models.LoginResult {
	return m.Called(ctx, store, req).Get(0).(*models.LoginResult)
}

func (m *mockSessionService) Logout(ctx context.Context, store session.Store) *models.LogoutResult {
	return m.Called(ctx, store).Get(0).(*models.LogoutResult)
}

func (m *mockSessionService) Profile(store session.Store) *models.ProfileResult {
	return m.Called(store).Get(0).(*models.ProfileResult)
}

func (m *mockSessionService) RequestPasswordReset(ctx context.Context, email string) *models.Result {
	return m.Called(ctx, email).Get(0).(*models.Result)
}

func (m *mockSessionService) VerifyAccount(ctx context.Context, userID, code string) *models.Result {
	return m.Called(ctx, userID, code).Get(0).(*models.Result)
}

type mockRegistrationService struct {
	mock.Mock
}

func (m *mockRegistrationService) Register(ctx context.Context, profile models.RegistrationProfile) *models.RegisterResult {
	return m.Called(ctx, profile).Get(0).(*models.RegisterResult)
}

type mockSchoolService struct {
	mock.Mock
}

func (m *mockSchoolService) GetSchool(ctx context.Context, code string) *models.SchoolResult {
	return m.Called(ctx, code).Get(0).(*models.SchoolResult)
}

func (m *mockSchoolService) GetLinkedSchools(ctx context.Context, userID string) *models.SchoolsResult {
	return m.Called(ctx, userID).Get(0).(*models.SchoolsResult)
}

func (m *mockSchoolService) LinkSchool(ctx context.Context, userID, code string) *models.Result {
	return m.Called(ctx, userID, code).Get(0).(*models.Result)
}

func (m *mockSchoolService) UserIDFromSession(store session.Store) (string, bool) {
	args := m.Called(store)
	return args.String(0), args.Bool(1)
}

type mockBookitAPI struct {
	mock.Mock
}

func (m *mockBookitAPI) response(args mock.Arguments) (*bookit.Response, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookit.Response), args.Error(1)
}

func (m *mockBookitAPI) Login(ctx context.Context, correo, contrasena string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, correo, contrasena))
}

func (m *mockBookitAPI) Register(ctx context.Context, path string, form url.Values) (*bookit.Response, error) {
	return m.response(m.Called(ctx, path, form))
}

func (m *mockBookitAPI) RecoverPassword(ctx context.Context, correo string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, correo))
}

func (m *mockBookitAPI) VerifyAccount(ctx context.Context, userID, code string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, userID, code))
}

func (m *mockBookitAPI) SchoolInfo(ctx context.Context, code string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, code))
}

func (m *mockBookitAPI) LinkedSchools(ctx context.Context, userID string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, userID))
}

func (m *mockBookitAPI) LinkSchool(ctx context.Context, userID, code string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, userID, code))
}

func apiResponse(status int, body string) *bookit.Response {
	return &bookit.Response{
		StatusCode: status,
		Body:       []byte(body),
		Payload:    bookit.DecodePayload([]byte(body)),
	}
}
