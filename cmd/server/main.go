package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banking-api/internal/config"
	"banking-api/internal/database"
	"banking-api/internal/handlers"
	"banking-api/internal/middleware"
	"banking-api/internal/repositories"
	"banking-api/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Missing .env is fine; configuration falls back to real environment
	// variables and defaults.
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	accountRepo := repositories.NewAccountRepository(db)
	metrics := services.NewPrometheusMetrics()
	accountService := services.NewAccountService(accountRepo, metrics, logger)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(logger)

	accountHandler := handlers.NewAccountHandler(accountService, metrics)
	authHandler := handlers.NewAuthHandler(authService, tokenService, metrics)
	healthHandler := handlers.NewHealthCheckHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	rateLimiter := middleware.NewRateLimiter(
		cfg.Security.RateLimitPerSecond,
		cfg.Security.RateLimitBurst,
	)

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(rateLimiter.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.TraceIDHeader},
	}))

	registerRoutes(e, accountHandler, authHandler, healthHandler, tokenService)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		slog.Info("Starting server", "addr", addr, "environment", cfg.Server.Environment)

		server := &http.Server{
			Addr:         addr,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			slog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}

func registerRoutes(
	e *echo.Echo,
	accountHandler *handlers.AccountHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthCheckHandler,
	tokenService services.TokenServiceInterface,
) {
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/auth/token", authHandler.IssueToken)

	accounts := api.Group("/accounts", middleware.RequireAuth(tokenService))
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("/transfer", accountHandler.Transfer)
	accounts.GET("/:accountId", accountHandler.GetAccount)
	accounts.PUT("/:accountId/name", accountHandler.ChangeName)
	accounts.POST("/:accountId/deposit", accountHandler.Deposit)
	accounts.POST("/:accountId/withdraw", accountHandler.Withdraw)
	accounts.DELETE("/:accountId", accountHandler.DeactivateAccount)
	accounts.PUT("/:accountId/reactivate", accountHandler.ReactivateAccount)
	accounts.DELETE("/:accountId/permanent", accountHandler.DeleteAccount)
}
