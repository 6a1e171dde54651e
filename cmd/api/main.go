package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/bookit/bookit-web/config"
	"github.com/bookit/bookit-web/internal/handlers"
	"github.com/bookit/bookit-web/internal/middleware"
	"github.com/bookit/bookit-web/internal/services"
	"github.com/bookit/bookit-web/internal/session"
	"github.com/bookit/bookit-web/pkg/bookit"
	"github.com/bookit/bookit-web/pkg/circuitbreaker"
	"github.com/bookit/bookit-web/pkg/httpclient"
	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/bookit/bookit-web/pkg/metrics"
	"github.com/bookit/bookit-web/pkg/profiling"
	"github.com/bookit/bookit-web/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerAuthRoutes registers the session gateway and registration endpoints
func registerAuthRoutes(
	group *gin.RouterGroup,
	authRateLimiter, generalRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
) {
	auth := group.Group("/auth")
	auth.Use(middleware.BodySizeLimitMiddleware(64 * 1024))

	auth.POST("/login", authRateLimiter.Middleware(), authHandler.Login)
	auth.POST("/register", authRateLimiter.Middleware(), authHandler.Register)
	auth.POST("/register/validate", generalRateLimiter.Middleware(), authHandler.ValidateRegistration)
	auth.POST("/logout", generalRateLimiter.Middleware(), authHandler.Logout)
	auth.POST("/forgot-password", authRateLimiter.Middleware(), authHandler.ForgotPassword)
	auth.POST("/verify", authRateLimiter.Middleware(), authHandler.VerifyAccount)

	group.GET("/profile", generalRateLimiter.Middleware(), authHandler.Profile)
}

// registerDashboardRoutes registers the pages behind the route guard
func registerDashboardRoutes(
	router *gin.Engine,
	authRateLimiter, generalRateLimiter *middleware.RateLimiter,
	dashboardHandler *handlers.DashboardHandler,
) {
	dashboard := router.Group("/dashboard")
	dashboard.Use(generalRateLimiter.Middleware())

	dashboard.GET("", dashboardHandler.Dashboard)
	dashboard.GET("/schools", dashboardHandler.ListSchools)
	dashboard.GET("/schools/:code", dashboardHandler.GetSchool)
	dashboard.POST("/schools", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), dashboardHandler.LinkSchool)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting BookIt web gateway",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("api_base_url", cfg.BookitAPI.BaseURL),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Settings{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.AlloyEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	stopProfiler, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiler()

	// BookIt API client
	httpClient := httpclient.NewStandardClient()
	if cfg.BookitAPI.TimeoutSeconds > 0 {
		httpClient = httpclient.NewClientWithTimeout(time.Duration(cfg.BookitAPI.TimeoutSeconds) * time.Second)
	}

	var breaker *gobreaker.CircuitBreaker
	if cfg.CircuitBreaker.Enabled {
		breaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.FromSettings("bookit-api", cfg.CircuitBreaker))
	} else {
		logger.Warn("BookIt API circuit breaker is disabled")
	}
	bookitClient := bookit.NewClient(cfg.BookitAPI.BaseURL, cfg.AuthorizationHeader(), httpClient, breaker)

	// Initialize services
	sessionService := services.NewSessionService(bookitClient)
	registrationService := services.NewRegistrationService(bookitClient)
	schoolService := services.NewSchoolService(bookitClient)

	// Initialize handlers
	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("Failed to register request validators", zap.Error(err))
	}
	cookieOptions := session.OptionsFromConfig(cfg)
	homeHandler := handlers.NewHomeHandler(cfg.Observability.ServiceName)
	authHandler := handlers.NewAuthHandler(sessionService, registrationService, cookieOptions)
	dashboardHandler := handlers.NewDashboardHandler(sessionService, schoolService, cookieOptions)
	healthHandler := handlers.NewHealthHandler(bookitClient)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// CORS: only the configured frontends, with credentials for the session cookies
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RouteGuard())

	// Rate limiters
	generalRateLimiter := middleware.NewRateLimiter("general", 50, 100)
	authRateLimiter := middleware.NewRateLimiter("auth",
		rate.Limit(float64(cfg.RateLimit.AuthPerMinute)/60), cfg.RateLimit.AuthBurst)

	router.GET("/", generalRateLimiter.Middleware(), homeHandler.Home)

	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	registerAuthRoutes(api, authRateLimiter, generalRateLimiter, authHandler)

	registerDashboardRoutes(router, authRateLimiter, generalRateLimiter, dashboardHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
