package server

import (
	"errors"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/activity"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/auth"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/config"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/draft"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/storage"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "fitGenerator",
		BodyLimit:    cfg.BodyLimitBytes,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  corsOrigins(cfg.CORSOrigins),
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization",
		ExposeHeaders: "Content-Disposition,X-Export-Id",
	}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"archive": s.DB != nil,
			"drafts":  s.Redis != nil,
		})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	ownerMiddleware := auth.OptionalOwner(s.Cfg.JWTSecret)

	drafts := draft.NewService(s.Redis, s.Cfg.DraftTTL)
	var archive activity.Archive
	if s.DB != nil {
		exports := storage.NewService(s.DB)
		archive = exports
		storage.RegisterRoutes(s.App.Group("/exports"), exports, jwtMiddleware)
	}

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret))
	draft.RegisterRoutes(s.App.Group("/drafts"), drafts, ownerMiddleware)
	activity.RegisterRoutes(s.App.Group("/api"), activity.NewService(drafts, archive, s.Stream), ownerMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	if s.Cfg.StaticDir != "" {
		s.App.Static("/", s.Cfg.StaticDir)
	}
}

func corsOrigins(origins string) string {
	if origins == "" {
		return "*"
	}
	return origins
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
