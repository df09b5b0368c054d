package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/erp/accounting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/erp/accounting/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Accounting API
//	@version		1.0
//	@description	Multi-branch accounting: income and expense, payables and receivables, inventory, payroll and reports.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/accounting

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the logger can tee into the OTLP log exporter
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := bootLog
	if core := providers.LogCore(logger.ParseLevel(cfg.Log.Level)); core != nil {
		if log, err = logger.New(logCfg, core); err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = log.Sync()
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting accounting API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("version", version),
	)

	app, err := newApplication(ctx, cfg, providers, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start background workers", zap.Error(err))
	}

	engine, err := newEngine(ctx, cfg, app, providers, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	app.Stop(shutdownCtx)

	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine with the global middleware chain, the public
// health and docs endpoints and the authenticated /api/v1 routes
func newEngine(ctx context.Context, cfg *config.Config, app *application, providers *telemetry.Providers, log *zap.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	} else if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.Server.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id and span must exist before anything logs
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.MetricsEnabled {
		httpMetrics, err := middleware.HTTPMetrics(providers.Meter("accounting-http"))
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSAllowOrigins
	}
	if len(cfg.Server.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.Server.CORSAllowMethods
	}
	if len(cfg.Server.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Server.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.Server.MaxBodySize, cfg.Storage.MaxUploadSize))

	engine.GET("/health", app.handlers.System.Health)
	engine.GET("/health/ready", app.handlers.System.Ready)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtConfig := middleware.DefaultJWTConfig(app.jwtService)
	jwtConfig.TokenBlacklist = app.blacklist
	jwtConfig.Logger = log

	apiMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.BranchScope(),
		middleware.SpanEnricher(),
	}
	if cfg.Server.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
		go limiter.RunCleanup(ctx)
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.Server.RateLimitRequests),
			zap.Duration("window", cfg.Server.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...))
	for _, group := range router.DomainGroups(app.handlers) {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}
