package services

import (
	"context"
	"net/url"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/internal/session"
	"github.com/bookit/bookit-web/pkg/bookit"
)

// BookitAPI is the part of the BookIt API client the services depend on
type BookitAPI interface {
	Login(ctx context.Context, correo, contrasena string) (*bookit.Response, error)
	Register(ctx context.Context, path string, form url.Values) (*bookit.Response, error)
	RecoverPassword(ctx context.Context, correo string) (*bookit.Response, error)
	VerifyAccount(ctx context.Context, userID, code string) (*bookit.Response, error)
	SchoolInfo(ctx context.Context, code string) (*bookit.Response, error)
	LinkedSchools(ctx context.Context, userID string) (*bookit.Response, error)
	LinkSchool(ctx context.Context, userID, code string) (*bookit.Response, error)
}

// SessionServiceInterface defines login, logout and account recovery operations
type SessionServiceInterface interface {
	Login(ctx context.Context, store session.Store, req *models.LoginRequest) *models.LoginResult
	Logout(ctx context.Context, store session.Store) *models.LogoutResult
	Profile(store session.Store) *models.ProfileResult
	RequestPasswordReset(ctx context.Context, email string) *models.Result
	VerifyAccount(ctx context.Context, userID, code string) *models.Result
}

// RegistrationServiceInterface defines account creation
type RegistrationServiceInterface interface {
	Register(ctx context.Context, profile models.RegistrationProfile) *models.RegisterResult
}

// SchoolServiceInterface defines school lookups and linking
type SchoolServiceInterface interface {
	GetSchool(ctx context.Context, code string) *models.SchoolResult
	GetLinkedSchools(ctx context.Context, userID string) *models.SchoolsResult
	LinkSchool(ctx context.Context, userID, code string) *models.Result
	UserIDFromSession(store session.Store) (string, bool)
}
