package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/config"
	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/internal/routes"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

func main() {
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting CodeUP Backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect()
	database.InitRedis()
	defer database.Disconnect()
	defer database.CloseRedis()

	logger.Info().Msg("Running database migrations...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Problem{},
		&models.VisibleTestCase{},
		&models.HiddenTestCase{},
		&models.StarterCode{},
		&models.ReferenceSolution{},
		&models.Submission{},
		&models.SolutionVideo{},
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	logger.Info().Msg("Database migrations complete")

	handlers.InitOAuthConfig()

	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("")
	{
		routes.RegisterAuthRoutes(api)
		routes.RegisterProblemRoutes(api)
		routes.RegisterSubmissionRoutes(api)
		routes.RegisterVideoRoutes(api)
		routes.RegisterChatRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // submissions block on judge polling
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
