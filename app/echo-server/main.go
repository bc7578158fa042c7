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

	"paperScout/app/echo-server/router"
	"paperScout/business/bandit"
	"paperScout/business/recommend"
	"paperScout/internal/middleware"
	psqlRepo "paperScout/internal/repository/postgres"
	redisRepo "paperScout/internal/repository/redis"
	"paperScout/internal/rest"
	"paperScout/pkg/config"
	"paperScout/pkg/database"
	redisdb "paperScout/pkg/database/redis"
	"paperScout/pkg/logger"
	"paperScout/pkg/metrics"
	"paperScout/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting PaperScout", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Profile cache is optional: without Redis every request rebuilds the
	// profile from Postgres.
	var profileCache recommend.ProfileCache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, serving without profile cache", "error", err)
	} else {
		profileCache = redisRepo.NewProfileCache(redisClient)
		defer redisdb.CloseRedisClient(redisClient)
	}

	// Init repo
	paperRepo := psqlRepo.NewPaperRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)

	// Init policy and service
	policy := bandit.NewPolicy(cfg.Model.Dir)
	recommendService := recommend.NewService(
		paperRepo,
		profileRepo,
		profileCache,
		interactionRepo,
		interactionRepo,
		policy,
		recommend.Config{
			DefaultTopK:       cfg.Recommend.DefaultTopK,
			DefaultCandidateK: cfg.Recommend.DefaultCandidateK,
			ProfileCacheTTL:   time.Duration(cfg.Recommend.ProfileCacheTTLs) * time.Second,
		},
	)

	// Init handler
	recommendHandler := rest.NewRecommendHandler(recommendService)
	interactionHandler := rest.NewInteractionHandler(recommendService)
	modelAdminHandler := rest.NewModelAdminHandler(policy)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.TraceContext())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendHandler)
	router.SetInteractionRoutes(api, interactionHandler)
	router.SetModelAdminRoutes(api, modelAdminHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
