package server

import (
	"backend-packshare/internal/auth"
	"backend-packshare/internal/config"
	"backend-packshare/internal/db"
	"backend-packshare/internal/equipment"
	"backend-packshare/internal/meal"
	"backend-packshare/internal/trip"
	"backend-packshare/internal/triplock"
	"backend-packshare/internal/weight"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.TxQuerier
	Redis  *redis.Client
	Locker triplock.Locker
	Log    zerolog.Logger
}

func NewServer(cfg config.Config, pg db.TxQuerier, redisClient *redis.Client, log zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	app.Use(RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pg,
		Redis:  redisClient,
		Locker: triplock.New(redisClient, cfg.LockTTL, cfg.LockRetry),
		Log:    log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	trips := trip.NewService(s.DB)
	gear := equipment.NewService(s.DB, s.Locker, s.Log.With().Str("component", "equipment").Logger())
	meals := meal.NewService(s.DB, trips)
	loads := weight.NewService(trips, gear, meals, s.Log.With().Str("component", "weight").Logger())

	tripGroup := s.App.Group("/trips")
	trip.RegisterRoutes(tripGroup, trips, jwtMiddleware)
	equipment.RegisterTripRoutes(tripGroup, gear, jwtMiddleware)
	meal.RegisterRoutes(tripGroup, meals, jwtMiddleware)
	weight.RegisterRoutes(tripGroup, loads, jwtMiddleware)
	equipment.RegisterCatalogRoutes(s.App.Group("/equipment"), gear, jwtMiddleware)
}
