// Package session keeps the logged-in user's identity in HttpOnly cookies.
package session

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/bookit/bookit-web/config"
	apperrors "github.com/bookit/bookit-web/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	// AuthTokenCookie holds the API token, or the numeric user id when the API issued none.
	// Its presence is the only thing the route guard looks at.
	AuthTokenCookie = "auth-token"
	UserIDCookie    = "user-id"
	UserNameCookie  = "user-name"
	UserEmailCookie = "user-email"
)

// Cookies lists every cookie that makes up a session
var Cookies = []string{AuthTokenCookie, UserIDCookie, UserNameCookie, UserEmailCookie}

// ErrResponseCommitted is returned when cookies are written after the response started
var ErrResponseCommitted = fmt.Errorf("response already written: %w", apperrors.ErrSessionStore)

// Store reads and writes the values that make up a session
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string) error
	Delete(name string) error
}

// Options are the attributes applied to every session cookie
type Options struct {
	MaxAge int
	Domain string
	Secure bool
}

// OptionsFromConfig derives cookie attributes from application settings
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxAge: cfg.SessionTTLSeconds(),
		Domain: cfg.Session.CookieDomain,
		Secure: cfg.Session.CookieSecure,
	}
}

// CookieStore is a Store backed by the request and response cookies of a gin context
type CookieStore struct {
	c    *gin.Context
	opts Options
}

// NewCookieStore binds a store to the current request
func NewCookieStore(c *gin.Context, opts Options) *CookieStore {
	return &CookieStore{c: c, opts: opts}
}

// Get returns the decoded cookie value. Values that fail to decode are returned raw.
func (s *CookieStore) Get(name string) (string, bool) {
	cookie, err := s.c.Request.Cookie(name)
	if err != nil {
		return "", false
	}
	if decoded, err := url.QueryUnescape(cookie.Value); err == nil {
		return decoded, true
	}
	return cookie.Value, true
}

// Set writes an HttpOnly, SameSite=Lax cookie valid for the whole site
func (s *CookieStore) Set(name, value string) error {
	return s.write(name, value, s.opts.MaxAge)
}

// Delete expires the cookie
func (s *CookieStore) Delete(name string) error {
	return s.write(name, "", -1)
}

func (s *CookieStore) write(name, value string, maxAge int) error {
	if s.c.Writer.Written() {
		return ErrResponseCommitted
	}

	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(
		name,
		value,
		maxAge,
		"/",
		s.opts.Domain,
		s.opts.Secure,
		true, // HttpOnly
	)
	return nil
}

// HasAuthToken reports whether the request carries a non-empty auth-token cookie
func HasAuthToken(r *http.Request) bool {
	cookie, err := r.Cookie(AuthTokenCookie)
	return err == nil && cookie.Value != ""
}
