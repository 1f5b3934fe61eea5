package server

import (
	"backend-runhub/internal/auth"
	"backend-runhub/internal/config"
	"backend-runhub/internal/course"
	"backend-runhub/internal/friend"
	"backend-runhub/internal/progress"
	"backend-runhub/internal/record"
	"backend-runhub/internal/run"
	"backend-runhub/internal/storage"
	"backend-runhub/internal/stream"

	"github.com/gofiber/fiber/v2"
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
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

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
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	recordSvc := record.NewService(s.DB, record.NewHTTPGeocoder(s.Cfg.GeocoderURL))
	friendSvc := friend.NewService(s.DB)
	runSvc := run.NewService(run.DefaultConfig(), s.Stream, nil)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	run.RegisterRoutes(s.App.Group("/runs"), runSvc, recordSvc, jwtMiddleware)
	record.RegisterRoutes(s.App.Group("/records"), recordSvc, jwtMiddleware)
	progress.RegisterRoutes(s.App.Group("/progress"), progress.NewService(s.DB, recordSvc, friendSvc), jwtMiddleware)
	course.RegisterRoutes(s.App.Group("/courses"), course.NewService(s.DB), jwtMiddleware)
	friend.RegisterRoutes(s.App.Group("/friends"), friendSvc, jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/media"), storage.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/live"), s.Stream)
}
