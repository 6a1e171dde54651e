package handlers

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterValidators installs the registration wizard rules on gin's validator
// and makes field errors report JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"fullname":   validateFullName,
		"phone10":    validatePhone10,
		"schoolcode": validateSchoolCode,
		"mailbox":    validateMailbox,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// At least a first name and a last name
func validateFullName(fl validator.FieldLevel) bool {
	return len(strings.Fields(fl.Field().String())) >= 2
}

// Exactly ten digits once formatting is ignored
func validatePhone10(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 10
}

func validateMailbox(fl validator.FieldLevel) bool {
	return models.ValidEmail(fl.Field().String())
}

func validateSchoolCode(fl validator.FieldLevel) bool {
	return len([]rune(strings.TrimSpace(fl.Field().String()))) == 6
}

// SanitizeSchoolCode strips whitespace and upper-cases a school code typed by
// a user. It reports false unless the result is six letters or digits.
func SanitizeSchoolCode(raw string) (string, bool) {
	code := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw))

	if len(code) != 6 {
		return code, false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return code, false
		}
	}
	return code, true
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

var requiredMessages = map[string]string{
	"nombre":              "El nombre es requerido",
	"telefono":            "El teléfono es requerido",
	"codigoweb":           "El código web es requerido",
	"correo":              "El correo es requerido",
	"confirmarCorreo":     "Debes confirmar tu correo",
	"contrasena":          "La contraseña es requerida",
	"confirmarContrasena": "Debes confirmar tu contraseña",
	"id":                  "El usuario es requerido",
	"codigo":              "El código de verificación es requerido",
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fe.Field() + " es requerido"
	case "fullname":
		return "Ingresa al menos nombre y apellido"
	case "phone10":
		return "El teléfono debe tener 10 dígitos"
	case "schoolcode":
		return "El código web debe tener 6 caracteres"
	case "mailbox", "email":
		return "Correo electrónico inválido"
	case "eqfield":
		if fe.Field() == "confirmarContrasena" {
			return "Las contraseñas no coinciden"
		}
		return "Los correos no coinciden"
	case "min":
		if fe.Field() == "contrasena" {
			return "La contraseña debe tener al menos " + fe.Param() + " caracteres"
		}
		return fe.Field() + " debe tener al menos " + fe.Param() + " caracteres"
	default:
		return fe.Field() + " no es válido"
	}
}
