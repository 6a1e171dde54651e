package models

import "regexp"

// emailPattern is the loose address check the signup form has always used
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like user@domain.tld
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// LoginRequest carries the credentials typed into the login form
type LoginRequest struct {
	Correo     string `json:"correo" binding:"required"`
	Contrasena string `json:"contrasena" binding:"required"`
}

// RegisterStep1 holds the personal data collected on the first wizard step
type RegisterStep1 struct {
	Nombre    string `json:"nombre" binding:"required,fullname"`
	Telefono  Text   `json:"telefono" binding:"required,phone10"`
	Codigoweb string `json:"codigoweb" binding:"required,schoolcode"`
}

// RegisterStep2 holds the account credentials collected on the second wizard step
type RegisterStep2 struct {
	Correo              string `json:"correo" binding:"required,mailbox"`
	ConfirmarCorreo     string `json:"confirmarCorreo" binding:"required,eqfield=Correo"`
	Contrasena          string `json:"contrasena" binding:"required,min=6"`
	ConfirmarContrasena string `json:"confirmarContrasena" binding:"required,eqfield=Contrasena"`
}

// RegisterRequest is the complete registration wizard submission
type RegisterRequest struct {
	RegisterStep1
	RegisterStep2
}

// Profile converts the wizard submission into the fields sent to the API
func (r *RegisterRequest) Profile() RegistrationProfile {
	return RegistrationProfile{
		Nombre:     r.Nombre,
		Telefono:   string(r.Telefono),
		Codigoweb:  r.Codigoweb,
		Correo:     r.Correo,
		Contrasena: r.Contrasena,
	}
}

// RegistrationProfile is what the registration broker submits for a new account.
// Telefono may contain formatting; only its digits are sent.
type RegistrationProfile struct {
	Nombre     string
	Telefono   string
	Codigoweb  string
	Correo     string
	Contrasena string
}

// ForgotPasswordRequest asks for a password reset email
type ForgotPasswordRequest struct {
	Correo string `json:"correo"`
}

// VerifyAccountRequest submits the one-time code mailed after registration
type VerifyAccountRequest struct {
	ID     Text `json:"id" binding:"required"`
	Codigo Text `json:"codigo" binding:"required"`
}

// User is the subset of the API user record the web app cares about
type User struct {
	ID       string `json:"id"`
	Correo   string `json:"correo,omitempty"`
	Nombre   string `json:"nombre,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

// LoginResult is the outcome of a login attempt
type LoginResult struct {
	Success           bool        `json:"success"`
	Message           string      `json:"message,omitempty"`
	Verificado        *bool       `json:"verificado,omitempty"`
	NeedsVerification bool        `json:"needsVerification,omitempty"`
	User              *User       `json:"user,omitempty"`
	Token             string      `json:"token,omitempty"`
	Failure           FailureKind `json:"-"`
}

// RegisterResult is the outcome of a registration
type RegisterResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    *User       `json:"user,omitempty"`
	Failure FailureKind `json:"-"`
}

// LogoutResult is the outcome of clearing the session
type LogoutResult struct {
	Success bool `json:"success"`
}

// ProfileResult holds the display name and email kept in the session.
// Absent values encode as null.
type ProfileResult struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
