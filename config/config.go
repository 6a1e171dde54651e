package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the BookIt REST API used when no base URL is configured
const DefaultAPIBaseURL = "https://libmich.com/bookit/api"

// devAPIAuthorizationKey is the shared development key the BookIt API accepts
const devAPIAuthorizationKey = "1a?+Y|F2B6kqzS8"

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server         ServerConfig
	BookitAPI      BookitAPIConfig
	Session        SessionConfig
	CircuitBreaker CircuitBreakerConfig
	RateLimit      RateLimitConfig
	Logging        LoggingConfig
	Observability  ObservabilityConfig
	Profiling      ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type BookitAPIConfig struct {
	BaseURL          string
	AuthorizationKey string
	TimeoutSeconds   int
}

type SessionConfig struct {
	TTLDays      int
	CookieDomain string
	CookieSecure bool
}

type CircuitBreakerConfig struct {
	Enabled         bool
	MaxRequests     uint32
	IntervalSeconds int
	TimeoutSeconds  int
}

type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://libmich.com")
	v.SetDefault("API_AUTHORIZATION_KEY", devAPIAuthorizationKey)
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	v.SetDefault("SESSION_TTL_DAYS", 7)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("UPSTREAM_BREAKER_ENABLED", true)
	v.SetDefault("UPSTREAM_BREAKER_MAX_REQUESTS", 3)
	v.SetDefault("UPSTREAM_BREAKER_INTERVAL_SECONDS", 60)
	v.SetDefault("UPSTREAM_BREAKER_TIMEOUT_SECONDS", 30)
	v.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 20)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "bookit-web")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "bookit")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "bookit-web")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	appEnv := v.GetString("APP_ENV")

	// Secure cookies follow production mode unless set explicitly
	cookieSecure := appEnv == "production"
	if v.IsSet("COOKIE_SECURE") {
		cookieSecure = v.GetBool("COOKIE_SECURE")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         appEnv,
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		BookitAPI: BookitAPIConfig{
			BaseURL:          resolveBaseURL(v),
			AuthorizationKey: v.GetString("API_AUTHORIZATION_KEY"),
			TimeoutSeconds:   v.GetInt("UPSTREAM_TIMEOUT_SECONDS"),
		},
		Session: SessionConfig{
			TTLDays:      v.GetInt("SESSION_TTL_DAYS"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: cookieSecure,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:         v.GetBool("UPSTREAM_BREAKER_ENABLED"),
			MaxRequests:     v.GetUint32("UPSTREAM_BREAKER_MAX_REQUESTS"),
			IntervalSeconds: v.GetInt("UPSTREAM_BREAKER_INTERVAL_SECONDS"),
			TimeoutSeconds:  v.GetInt("UPSTREAM_BREAKER_TIMEOUT_SECONDS"),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: v.GetInt("AUTH_RATE_LIMIT_PER_MINUTE"),
			AuthBurst:     v.GetInt("AUTH_RATE_LIMIT_BURST"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveBaseURL prefers API_BASE_URL and accepts the frontend's NEXT_PUBLIC_API_URL
func resolveBaseURL(v *viper.Viper) string {
	for _, key := range []string{"API_BASE_URL", "NEXT_PUBLIC_API_URL"} {
		if value := strings.TrimSpace(v.GetString(key)); value != "" {
			return strings.TrimRight(value, "/")
		}
	}
	return DefaultAPIBaseURL
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.BookitAPI.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if strings.TrimSpace(c.BookitAPI.AuthorizationKey) == "" {
		return fmt.Errorf("API_AUTHORIZATION_KEY is required")
	}
	if c.BookitAPI.TimeoutSeconds < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must not be negative")
	}

	if c.Session.TTLDays <= 0 {
		return fmt.Errorf("SESSION_TTL_DAYS must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// AuthorizationHeader returns the bearer header value sent on every BookIt API call
func (c *Config) AuthorizationHeader() string {
	key := strings.TrimSpace(c.BookitAPI.AuthorizationKey)
	if strings.HasPrefix(key, "Bearer ") {
		return key
	}
	return "Bearer " + key
}

// SessionTTLSeconds returns the session cookie max age
func (c *Config) SessionTTLSeconds() int {
	return c.Session.TTLDays * 24 * 60 * 60
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
