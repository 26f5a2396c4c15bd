package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/internal/di"
	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/middleware"
	"github.com/coachly/backend-auth/migrations"
	"github.com/coachly/backend-auth/pkg/config"
	"github.com/coachly/backend-auth/pkg/database"
	"github.com/coachly/backend-auth/pkg/logger"
	pkgmiddleware "github.com/coachly/backend-auth/pkg/middleware"
	pkgredis "github.com/coachly/backend-auth/pkg/redis"
	"github.com/coachly/backend-auth/pkg/telemetry"
)

const serviceName = "coachly-auth"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if cfg.IsDevelopment() {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Coachly auth service...")

	ctx := context.Background()

	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	if err := database.Migrate(ctx, cfg.Database.DSN(), migrations.Files); err != nil {
		appLog.Fatal(fmt.Sprintf("Migrations failed: %v", err))
	}
	appLog.Info("Migrations up to date")

	// Redis backs rate limiting and idempotency. Both fail open, so a
	// missing Redis degrades rather than blocks startup in development.
	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		if cfg.IsProduction() {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		appLog.Warn(fmt.Sprintf("Redis unavailable, rate limiting and idempotency disabled: %v", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	container := di.NewContainer(cfg, db, redisClient)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(appLog))
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			public := auth.Group("")
			if redisClient != nil {
				public.Use(middleware.RateLimit(middleware.DefaultLoginRateLimit(redisClient)))
			}
			public.POST("/register", container.AuthHandler.Register)
			public.POST("/login", container.AuthHandler.Login)

			protected := auth.Group("")
			protected.Use(middleware.RequireAuth(container.AuthService))
			{
				protected.GET("/me", container.AuthHandler.Me)
				protected.PATCH("/me", container.AuthHandler.UpdateMe)
				protected.PUT("/password", container.AuthHandler.ChangePassword)
				protected.DELETE("/me", container.AuthHandler.Deactivate)
			}
		}

		trainers := v1.Group("/trainers")
		{
			trainers.GET("/me",
				middleware.RequireAuth(container.AuthService),
				container.ProfileHandler.MyProfile,
			)
			trainers.GET("/:id",
				middleware.OptionalAuth(container.AuthService),
				container.ProfileHandler.GetProfile,
			)
			trainers.PATCH("/:id",
				middleware.RequireAuth(container.AuthService),
				middleware.RequireProfileOwner(container.ProfileService),
				container.ProfileHandler.UpdateProfile,
			)
			trainers.POST("/:id/publish",
				middleware.RequireAuth(container.AuthService),
				middleware.RequireProfileOwner(container.ProfileService),
				middleware.RequireApprovedTrainer(),
				container.ProfileHandler.PublishProfile,
			)
		}

		admin := v1.Group("/admin/trainers")
		admin.Use(middleware.RequireAuth(container.AuthService))
		admin.Use(middleware.RequireRoles(domain.RoleAdmin))
		{
			admin.GET("/pending", container.AdminHandler.ListPendingTrainers)

			approve := admin.Group("")
			if redisClient != nil {
				approve.Use(pkgmiddleware.Idempotency(
					pkgmiddleware.DefaultIdempotencyConfig(redisClient),
				))
			}
			approve.POST("/approve", container.AdminHandler.ApproveTrainerByEmail)
			approve.POST("/:id/approve", container.AdminHandler.ApproveTrainer)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Auth service listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
