package services

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/bookit/bookit-web/pkg/bookit"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// User-facing messages, in the language of the storefront
const (
	MsgConnectionError = "Error de conexión. Por favor, intenta nuevamente."

	MsgLoginDefault      = "Error al iniciar sesión"
	MsgLoginSuccess      = "Inicio de sesión exitoso"
	MsgUnverifiedAccount = "Usuario sin verificar. Por favor, revise su correo electrónico para validar su cuenta antes de continuar."

	MsgRegisterDefault = "Error al registrar usuario"
	MsgRegisterSuccess = "Registro exitoso"

	MsgInvalidEmail      = "Por favor, ingresa un correo electrónico válido"
	MsgRecoverDefault    = "Error al solicitar recuperación de contraseña"
	MsgRecoverSuccess    = "Se ha enviado un enlace de recuperación a tu correo electrónico"
	MsgVerifyDefault     = "Error al verificar cuenta"
	MsgVerifySuccess     = "Verificación exitosa"
	MsgSchoolDefault     = "Error al obtener información de la escuela"
	MsgLinkedDefault     = "Error al obtener escuelas vinculadas"
	MsgLinkDefault       = "No se pudo vincular la escuela"
	MsgLinkSuccess       = "Escuela vinculada correctamente"
	MsgNoSessionUser     = "No se encontró el usuario de la sesión"
	MsgInvalidSchoolCode = "El código web debe tener 6 caracteres alfanuméricos"
)

// Payload keys checked, in order, for a server supplied message
var messageKeys = []string{"mensaje", "message", "error"}

// StatusMessage maps well-known BookIt API statuses to a message, falling back
// to the operation's own default for anything else.
func StatusMessage(status int, fallback string) string {
	switch status {
	case http.StatusUnauthorized:
		return "El token de acceso es inválido"
	case http.StatusMethodNotAllowed:
		return "Método no permitido"
	case http.StatusNotFound:
		return "Endpoint no encontrado"
	case http.StatusBadRequest:
		return "Error en la petición"
	case http.StatusConflict:
		return "Fallo en la conexión con la base de datos"
	default:
		return fallback
	}
}

// failureMessage prefers a message from the payload under keys, then the status table
func failureMessage(p bookit.Payload, status int, fallback string, keys ...string) string {
	if msg := p.Text(keys...); msg != "" {
		return msg
	}
	return StatusMessage(status, fallback)
}

func textOr(p bookit.Payload, fallback string, keys ...string) string {
	if msg := p.Text(keys...); msg != "" {
		return msg
	}
	return fallback
}

// ShouldTryNextEndpoint decides whether a failed registration attempt means
// "wrong endpoint shape" rather than a real rejection of the data.
func ShouldTryNextEndpoint(status int, p bookit.Payload) bool {
	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		return true
	}

	// Only the first of error/mensaje counts; a later key never rescues an earlier rejection
	return strings.Contains(foldText(p.Text("error", "mensaje")), "accion no valida")
}

// foldText lower-cases s and strips diacritics so "Acción no válida" matches "accion no valida"
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
