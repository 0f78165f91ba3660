package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-auth/internal/api/handlers"
	"github.com/clinicdesk/clinic-auth/internal/api/router"
	"github.com/clinicdesk/clinic-auth/internal/audit"
	"github.com/clinicdesk/clinic-auth/internal/auth"
	"github.com/clinicdesk/clinic-auth/internal/config"
	"github.com/clinicdesk/clinic-auth/internal/middleware"
	"github.com/clinicdesk/clinic-auth/internal/storage"
	"github.com/clinicdesk/clinic-auth/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	dsn := storage.BuildDSN(cfg.Database)
	store, err := storage.NewPostgresStorage(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	sessions := auth.NewSessionManager(store, tokens, cfg.Cookie.Name, cfg.IsProduction())
	auditor := audit.NewRecorder(store)

	var limitStore middleware.RateLimitStore
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limitStore = middleware.NewRedisStore(client)
		log.Info().Msg("rate limiting backed by redis")
	} else {
		limitStore = middleware.NewMemoryStore()
	}

	app := fiber.New(fiber.Config{
		AppName: "clinic-auth",
	})
	app.Use(middleware.RequestID())
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	authHandler := handlers.NewAuthHandler(sessions, auditor)
	auditHandler := handlers.NewAuditHandler(auditor)
	authMiddleware := middleware.NewAuthMiddleware(sessions)
	rateLimiter := middleware.NewRateLimiter(limitStore, cfg.Server.RateLimit)

	apiRouter := router.NewRouter(app, authHandler, auditHandler, authMiddleware, rateLimiter)
	apiRouter.SetupRoutes()

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
